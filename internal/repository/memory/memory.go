package memory

import (
	"context"
	"sync"

	"github.com/kddeveloperhub/noteskart/internal/repository"
)

// UserRepository реализует repository.UserRepository используя in-memory хранилище
// Используется для разработки и тестирования
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]repository.User // ключ = userID
}

// NewUserRepository создаёт новый in-memory репозиторий пользователей
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make(map[string]repository.User),
	}
}

// GetByID получает пользователя по ID из памяти
// Защищён мьютексом для безопасного доступа из разных горутин
func (r *UserRepository) GetByID(ctx context.Context, userID string) (repository.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[userID]
	if !exists {
		return repository.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

// SetPaid выставляет флаг is_paid; создаёт пользователя, если его ещё нет
func (r *UserRepository) SetPaid(ctx context.Context, userID string, isPaid bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[userID] = repository.User{ID: userID, IsPaid: isPaid}
	return nil
}

// PaymentRepository реализует repository.PaymentRepository используя in-memory хранилище
type PaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]repository.Payment // ключ = orderID
}

// NewPaymentRepository создаёт новый in-memory репозиторий платежей
func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{
		payments: make(map[string]repository.Payment),
	}
}

// GetByOrderID получает платёж по orderID из памяти
func (r *PaymentRepository) GetByOrderID(ctx context.Context, orderID string) (repository.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.payments[orderID]
	if !exists {
		return repository.Payment{}, repository.ErrPaymentNotFound
	}

	return p, nil
}

// Save сохраняет платёж в памяти; первая запись для orderID выигрывает
func (r *PaymentRepository) Save(ctx context.Context, p repository.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.payments[p.OrderID]; exists {
		return nil
	}
	r.payments[p.OrderID] = p
	return nil
}
