//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/kddeveloperhub/noteskart/internal/repository"
	"github.com/kddeveloperhub/noteskart/migrations"
)

func TestRepository_Integration(t *testing.T) {
	ctx := context.Background()

	// Поднимаем PostgreSQL контейнер через testcontainers
	postgresContainer, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		postgres.WithDatabase("notes"),
		postgres.WithUsername("notes_user"),
		postgres.WithPassword("notes_password"),
	)
	require.NoError(t, err)
	defer func() {
		err := postgresContainer.Terminate(ctx)
		require.NoError(t, err)
	}()

	dsn, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Ждём готовности БД и накатываем встроенные миграции
	var migrateErr error
	for i := 0; i < 10; i++ {
		migrateErr = migrations.Up(ctx, dsn)
		if migrateErr == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, migrateErr, "Failed to run migrations after retries")

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	repo := NewRepository(pool)

	t.Run("Save and GetByOrderID", func(t *testing.T) {
		payment := repository.Payment{
			OrderID:    "order-1",
			PaymentID:  "pay-1",
			UserID:     "user-1",
			VerifiedAt: time.Now().Unix(),
		}

		err := repo.Save(ctx, payment)
		require.NoError(t, err)

		got, err := repo.GetByOrderID(ctx, "order-1")
		require.NoError(t, err)
		require.Equal(t, payment.OrderID, got.OrderID)
		require.Equal(t, payment.PaymentID, got.PaymentID)
		require.Equal(t, payment.UserID, got.UserID)
	})

	t.Run("Save is idempotent per order id", func(t *testing.T) {
		first := repository.Payment{
			OrderID:    "order-2",
			PaymentID:  "pay-2",
			UserID:     "user-2",
			VerifiedAt: time.Now().Unix(),
		}
		second := repository.Payment{
			OrderID:    "order-2",
			PaymentID:  "pay-other",
			UserID:     "user-other",
			VerifiedAt: time.Now().Unix(),
		}

		require.NoError(t, repo.Save(ctx, first))
		require.NoError(t, repo.Save(ctx, second))

		// Первая запись выигрывает
		got, err := repo.GetByOrderID(ctx, "order-2")
		require.NoError(t, err)
		require.Equal(t, "pay-2", got.PaymentID)
		require.Equal(t, "user-2", got.UserID)
	})

	t.Run("GetByOrderID_NotFound", func(t *testing.T) {
		_, err := repo.GetByOrderID(ctx, "missing")
		require.Error(t, err)
		require.True(t, errors.Is(err, repository.ErrPaymentNotFound), "Expected ErrPaymentNotFound, got: %v", err)
	})

	t.Run("Payment without user id is allowed", func(t *testing.T) {
		payment := repository.Payment{
			OrderID:    "order-3",
			PaymentID:  "pay-3",
			VerifiedAt: time.Now().Unix(),
		}

		require.NoError(t, repo.Save(ctx, payment))

		got, err := repo.GetByOrderID(ctx, "order-3")
		require.NoError(t, err)
		require.Empty(t, got.UserID)
	})
}
