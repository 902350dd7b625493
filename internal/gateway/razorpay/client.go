package razorpay

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

// DefaultBaseURL — адрес Orders API Razorpay
const DefaultBaseURL = "https://api.razorpay.com/v1"

// Order представляет заказ, созданный в Razorpay
// Поля отдаются клиенту как есть (shape определяется шлюзом)
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Client — HTTP клиент к Razorpay Orders API
// Авторизация — HTTP Basic с key_id/key_secret
type Client struct {
	logger    *zap.Logger
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
}

// NewClient создаёт новый Razorpay клиент
// baseURL можно переопределить (тесты, staging); пустая строка = DefaultBaseURL
func NewClient(logger *zap.Logger, keyID, keySecret, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		logger:    logger,
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CreateOrder создаёт заказ в Razorpay на указанную сумму
// amount — в минорных единицах валюты (пайсы для INR)
func (c *Client) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (Order, error) {
	payload := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return Order{}, fmt.Errorf("failed to marshal order payload: %w", err)
	}

	url := c.baseURL + "/orders"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return Order{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.client.Do(req)
	if err != nil {
		return Order{}, fmt.Errorf("razorpay request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Тело ошибки шлюза уходит только в лог, наружу — статус
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("razorpay order creation failed",
			zap.Int("status_code", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return Order{}, fmt.Errorf("razorpay returned status %d", resp.StatusCode)
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return Order{}, fmt.Errorf("failed to decode razorpay response: %w", err)
	}

	c.logger.Info("razorpay order created",
		zap.String("order_id", order.ID),
		zap.Int64("amount", order.Amount),
		zap.String("currency", order.Currency),
	)

	return order, nil
}
