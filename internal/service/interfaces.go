package service

import (
	"context"

	"github.com/kddeveloperhub/noteskart/internal/gateway/razorpay"
	"github.com/kddeveloperhub/noteskart/internal/notes"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=PaymentGateway --dir=. --output=./mocks --outpkg=mocks

// PaymentGateway определяет интерфейс платёжного шлюза
// Service зависит от интерфейса, а не от конкретного HTTP клиента
type PaymentGateway interface {
	// CreateOrder создаёт заказ в шлюзе на указанную сумму (минорные единицы)
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (razorpay.Order, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=PaymentEventPublisher --dir=. --output=./mocks --outpkg=mocks

// PaymentVerifiedEvent — событие успешной верификации платежа
type PaymentVerifiedEvent struct {
	OrderID   string
	PaymentID string
	UserID    string
}

// PaymentEventPublisher определяет интерфейс публикации событий оплаты
// Реализация — Kafka; в тестах подменяется моком
type PaymentEventPublisher interface {
	// PublishPaymentVerified публикует событие успешной верификации
	PublishPaymentVerified(ctx context.Context, event PaymentVerifiedEvent) error
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=NoteResolver --dir=. --output=./mocks --outpkg=mocks

// NoteResolver определяет интерфейс доступа к защищённым файлам заметок
// Вызывающий обязан закрыть Note.File после стриминга
type NoteResolver interface {
	Resolve(filename string) (*notes.Note, error)
}
