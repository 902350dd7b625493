//go:build integration

package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kddeveloperhub/noteskart/internal/repository"
)

func TestRepository_Integration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// Поднимаем MongoDB контейнер
	mongoC, err := mongodb.RunContainer(ctx,
		tc.WithImage("mongo:6"),
	)
	require.NoError(t, err)
	defer func() { require.NoError(t, mongoC.Terminate(ctx)) }()

	mongoURI, err := mongoC.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	require.NoError(t, err)
	defer func() { _ = client.Disconnect(ctx) }()

	// Ждём готовности MongoDB (ping с retry)
	var pingErr error
	for i := 0; i < 20; i++ {
		pingErr = client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
		if pingErr == nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}
	require.NoError(t, pingErr, "MongoDB did not become ready in time")

	const dbName = "noteskart_test"
	repo := NewRepository(client, dbName)
	col := client.Database(dbName).Collection("users")

	t.Run("GetByID for a missing user returns ErrUserNotFound", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "ghost")
		require.True(t, errors.Is(err, repository.ErrUserNotFound), "Expected ErrUserNotFound, got: %v", err)
	})

	t.Run("SetPaid upserts a new user", func(t *testing.T) {
		require.NoError(t, repo.SetPaid(ctx, "user-1", true))

		user, err := repo.GetByID(ctx, "user-1")
		require.NoError(t, err)
		require.Equal(t, "user-1", user.ID)
		require.True(t, user.IsPaid)
	})

	t.Run("SetPaid updates an existing user", func(t *testing.T) {
		require.NoError(t, repo.SetPaid(ctx, "user-2", true))
		require.NoError(t, repo.SetPaid(ctx, "user-2", false))

		user, err := repo.GetByID(ctx, "user-2")
		require.NoError(t, err)
		require.False(t, user.IsPaid)
	})

	t.Run("user document without is_paid field reads as unpaid", func(t *testing.T) {
		_, err := col.InsertOne(ctx, bson.M{"user_id": "user-legacy"})
		require.NoError(t, err)

		user, err := repo.GetByID(ctx, "user-legacy")
		require.NoError(t, err)
		require.False(t, user.IsPaid)
	})

	t.Run("repeated SetPaid does not create duplicates", func(t *testing.T) {
		require.NoError(t, repo.SetPaid(ctx, "user-3", true))
		require.NoError(t, repo.SetPaid(ctx, "user-3", true))

		count, err := col.CountDocuments(ctx, bson.M{"user_id": "user-3"})
		require.NoError(t, err)
		require.Equal(t, int64(1), count)
	})
}
