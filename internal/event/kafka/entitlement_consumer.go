package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/kddeveloperhub/noteskart/internal/service"
	"github.com/kddeveloperhub/noteskart/internal/telegram"
)

// EntitlementConsumer обрабатывает события payment.verified из Kafka
// Это write path entitlement-а: на каждое событие выставляет is_paid=true
type EntitlementConsumer struct {
	logger      *zap.Logger
	reader      *kafka.Reader
	service     *service.NotesService
	notifier    telegram.Sender // nil = уведомления выключены
	notifyChat  string
	maxAttempts int
	backoffBase time.Duration
}

// NewEntitlementConsumer создаёт новый consumer для событий оплаты
func NewEntitlementConsumer(
	logger *zap.Logger,
	brokers []string,
	groupID, topic string,
	svc *service.NotesService,
	notifier telegram.Sender,
	notifyChat string,
	maxAttempts int,
	backoffBase time.Duration,
) *EntitlementConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})

	return &EntitlementConsumer{
		logger:      logger,
		reader:      reader,
		service:     svc,
		notifier:    notifier,
		notifyChat:  notifyChat,
		maxAttempts: maxAttempts,
		backoffBase: backoffBase,
	}
}

// Close закрывает Kafka reader
func (c *EntitlementConsumer) Close() error {
	return c.reader.Close()
}

// Start запускает consumer и начинает обработку сообщений
// At-least-once семантика: FetchMessage + CommitMessages после успешной обработки
// Выставление is_paid идемпотентно, поэтому повторная доставка безопасна
func (c *EntitlementConsumer) Start(ctx context.Context) error {
	c.logger.Info("starting entitlement consumer",
		zap.String("topic", c.reader.Config().Topic),
		zap.String("group_id", c.reader.Config().GroupID),
		zap.Int("max_retry_attempts", c.maxAttempts),
		zap.Duration("retry_backoff_base", c.backoffBase),
	)

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer context cancelled, stopping")
				return nil
			}
			c.logger.Error("failed to fetch message from kafka", zap.Error(err))
			continue
		}

		shouldCommit := c.processMessage(ctx, m)

		if shouldCommit {
			if err := c.reader.CommitMessages(ctx, m); err != nil {
				c.logger.Error("failed to commit message offset",
					zap.Error(err),
					zap.String("topic", m.Topic),
					zap.Int("partition", m.Partition),
					zap.Int64("offset", m.Offset),
				)
				continue
			}
		}
	}
}

// processMessage обрабатывает одно сообщение из Kafka
// Возвращает true, если нужно закоммитить offset
// Непарсящиеся сообщения логируются и коммитятся, чтобы не зациклиться на poison pill
func (c *EntitlementConsumer) processMessage(ctx context.Context, m kafka.Message) bool {
	var payload map[string]interface{}
	if err := json.Unmarshal(m.Value, &payload); err != nil {
		c.logger.Error("failed to unmarshal kafka message, skipping",
			zap.Error(err),
			zap.String("topic", m.Topic),
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
		)
		return true
	}

	event, err := parsePaymentVerifiedEvent(payload)
	if err != nil {
		c.logger.Error("failed to parse payment verified event, skipping",
			zap.Error(err),
			zap.String("topic", m.Topic),
			zap.Int64("offset", m.Offset),
		)
		return true
	}

	c.logger.Info("received payment verified event",
		zap.String("order_id", event.OrderID),
		zap.String("user_id", event.UserID),
		zap.Int("partition", m.Partition),
		zap.Int64("offset", m.Offset),
	)

	if !c.handleWithRetry(ctx, event) {
		// После исчерпания retry не коммитим: сообщение будет доставлено повторно
		return false
	}

	c.notify(ctx, event)
	return true
}

// handleWithRetry выставляет entitlement с экспоненциальным backoff
func (c *EntitlementConsumer) handleWithRetry(ctx context.Context, event service.PaymentVerifiedEvent) bool {
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		err := c.service.HandlePaymentVerified(ctx, event)
		if err == nil {
			return true
		}

		c.logger.Warn("failed to handle payment verified event",
			zap.Error(err),
			zap.String("order_id", event.OrderID),
			zap.String("user_id", event.UserID),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", c.maxAttempts),
		)

		if attempt < c.maxAttempts {
			backoff := c.backoffBase * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return false
			case <-time.After(backoff):
			}
		}
	}
	return false
}

// notify шлёт уведомление о платеже в Telegram, если notifier настроен
// Ошибки уведомления не влияют на обработку события
func (c *EntitlementConsumer) notify(ctx context.Context, event service.PaymentVerifiedEvent) {
	if c.notifier == nil || c.notifyChat == "" {
		return
	}

	text := fmt.Sprintf("Payment verified: order %s, user %s", event.OrderID, event.UserID)
	if err := c.notifier.Send(ctx, c.notifyChat, text); err != nil {
		c.logger.Warn("failed to send payment notification",
			zap.Error(err),
			zap.String("order_id", event.OrderID),
		)
	}
}

// parsePaymentVerifiedEvent собирает событие из JSON payload
func parsePaymentVerifiedEvent(payload map[string]interface{}) (service.PaymentVerifiedEvent, error) {
	eventType, _ := payload["event_type"].(string)
	if eventType != "payment.verified" {
		return service.PaymentVerifiedEvent{}, fmt.Errorf("unexpected event_type: %q", eventType)
	}

	orderID, _ := payload["order_id"].(string)
	if orderID == "" {
		return service.PaymentVerifiedEvent{}, fmt.Errorf("order_id is required")
	}

	paymentID, _ := payload["payment_id"].(string)
	userID, _ := payload["user_id"].(string)

	return service.PaymentVerifiedEvent{
		OrderID:   orderID,
		PaymentID: paymentID,
		UserID:    userID,
	}, nil
}
