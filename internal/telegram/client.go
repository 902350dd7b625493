package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Sender определяет интерфейс для отправки уведомлений
type Sender interface {
	Send(ctx context.Context, chatID, text string) error
}

// TelegramSender реализует отправку сообщений через Telegram Bot API
// Используется entitlement worker-ом для уведомлений о проверенных платежах
type TelegramSender struct {
	logger   *zap.Logger
	botToken string
	apiURL   string
	client   *http.Client
}

// NewTelegramSender создаёт новый Telegram sender
func NewTelegramSender(logger *zap.Logger, botToken string) *TelegramSender {
	return &TelegramSender{
		logger:   logger,
		botToken: botToken,
		apiURL:   "https://api.telegram.org/bot" + botToken,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Send отправляет сообщение в Telegram
func (s *TelegramSender) Send(ctx context.Context, chatID, text string) error {
	url := fmt.Sprintf("%s/sendMessage", s.apiURL)

	payload := map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		s.logger.Error("telegram API returned non-200",
			zap.Int("status_code", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}

	s.logger.Debug("telegram message sent", zap.String("chat_id", chatID))
	return nil
}
