package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kddeveloperhub/noteskart/internal/repository"
)

// Repository реализует PaymentRepository используя PostgreSQL
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository создаёт новый PostgreSQL репозиторий
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{
		pool: pool,
	}
}

// Save сохраняет проверенный платёж в PostgreSQL
// ON CONFLICT DO NOTHING: первая запись для orderID выигрывает,
// повторная верификация не перетирает её и не падает
func (r *Repository) Save(ctx context.Context, p repository.Payment) error {
	var verifiedAt time.Time
	if p.VerifiedAt > 0 {
		verifiedAt = time.Unix(p.VerifiedAt, 0)
	} else {
		verifiedAt = time.Now()
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO payments (order_id, payment_id, user_id, verified_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (order_id) DO NOTHING`,
		p.OrderID, p.PaymentID, p.UserID, verifiedAt)
	return err
}

// GetByOrderID получает платёж по orderID из PostgreSQL
func (r *Repository) GetByOrderID(ctx context.Context, orderID string) (repository.Payment, error) {
	var p repository.Payment
	var verifiedAt time.Time
	err := r.pool.QueryRow(ctx,
		`SELECT order_id, payment_id, user_id, verified_at
		 FROM payments
		 WHERE order_id = $1`,
		orderID).Scan(&p.OrderID, &p.PaymentID, &p.UserID, &verifiedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.Payment{}, repository.ErrPaymentNotFound
		}
		return repository.Payment{}, err
	}

	p.VerifiedAt = verifiedAt.Unix()
	return p, nil
}
