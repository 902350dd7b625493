package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/kddeveloperhub/noteskart/internal/service"
)

// KafkaPaymentEventPublisher реализует PaymentEventPublisher используя Kafka
type KafkaPaymentEventPublisher struct {
	logger *zap.Logger
	writer *kafka.Writer
	topic  string
}

// NewKafkaPaymentEventPublisher создаёт новый Kafka publisher для событий оплаты
func NewKafkaPaymentEventPublisher(logger *zap.Logger, brokers []string, topic string) *KafkaPaymentEventPublisher {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &KafkaPaymentEventPublisher{
		logger: logger,
		writer: writer,
		topic:  topic,
	}
}

// Close закрывает Kafka writer
func (p *KafkaPaymentEventPublisher) Close() error {
	return p.writer.Close()
}

// PublishPaymentVerified публикует событие успешной верификации платежа в Kafka
// Ключ сообщения — order_id: события одного заказа попадают в одну партицию
func (p *KafkaPaymentEventPublisher) PublishPaymentVerified(ctx context.Context, event service.PaymentVerifiedEvent) error {
	payload := map[string]interface{}{
		"event_id":      uuid.New().String(),
		"event_type":    "payment.verified",
		"event_version": 1,
		"occurred_at":   time.Now().UTC().Format(time.RFC3339),
		"order_id":      event.OrderID,
		"payment_id":    event.PaymentID,
		"user_id":       event.UserID,
	}

	valueBytes, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("failed to marshal payment verified event",
			zap.Error(err),
			zap.String("order_id", event.OrderID),
		)
		return err
	}

	message := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: valueBytes,
	}

	err = p.writer.WriteMessages(ctx, message)
	if err != nil {
		p.logger.Error("failed to publish payment verified event",
			zap.Error(err),
			zap.String("topic", p.topic),
			zap.String("order_id", event.OrderID),
			zap.String("user_id", event.UserID),
		)
		return err
	}

	p.logger.Info("payment verified event published",
		zap.String("topic", p.topic),
		zap.String("order_id", event.OrderID),
		zap.String("user_id", event.UserID),
	)

	return nil
}
