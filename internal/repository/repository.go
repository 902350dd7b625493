package repository

import (
	"context"
	"errors"
	"time"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=UserRepository --dir=. --output=./mocks --outpkg=mocks
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=PaymentRepository --dir=. --output=./mocks --outpkg=mocks
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=EntitlementCache --dir=. --output=./mocks --outpkg=mocks

// User представляет доменную модель пользователя
// Это бизнес-сущность, не привязанная к HTTP или БД
// Создаётся внешним процессом регистрации; здесь читается и помечается оплаченным
type User struct {
	ID     string
	IsPaid bool
}

// Payment представляет запись о проверенном платеже
// Ключ — OrderID: повторная верификация того же заказа идемпотентна
type Payment struct {
	OrderID    string
	PaymentID  string
	UserID     string // пустой, если клиент не передал uid при верификации
	VerifiedAt int64  // Unix timestamp
}

// UserRepository определяет интерфейс для работы с хранилищем пользователей
// Service слой зависит от этого интерфейса, а не от конкретной реализации
type UserRepository interface {
	// GetByID получает пользователя по ID
	// Возвращает ErrUserNotFound, если пользователь не найден
	GetByID(ctx context.Context, userID string) (User, error)

	// SetPaid выставляет флаг is_paid для пользователя (upsert)
	SetPaid(ctx context.Context, userID string, isPaid bool) error
}

// PaymentRepository определяет интерфейс для хранилища проверенных платежей
type PaymentRepository interface {
	// GetByOrderID получает платёж по orderID
	// Возвращает ErrPaymentNotFound, если платёж не найден
	GetByOrderID(ctx context.Context, orderID string) (Payment, error)

	// Save сохраняет платёж; повторный Save того же orderID не создаёт дубликат
	Save(ctx context.Context, p Payment) error
}

// EntitlementCache определяет интерфейс кэша флага is_paid
// ok == false означает cache miss (идём в UserRepository)
type EntitlementCache interface {
	Get(ctx context.Context, userID string) (isPaid bool, ok bool, err error)
	Set(ctx context.Context, userID string, isPaid bool, ttl time.Duration) error
	Invalidate(ctx context.Context, userID string) error
}

// ErrUserNotFound возвращается, когда пользователь не найден в хранилище
var ErrUserNotFound = errors.New("user not found")

// ErrPaymentNotFound возвращается, когда платёж не найден в хранилище
var ErrPaymentNotFound = errors.New("payment not found")
