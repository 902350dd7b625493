package razorpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClient_CreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("sends order payload with basic auth and decodes the response", func(t *testing.T) {
		// Arrange
		var gotPath, gotUser, gotPass string
		var gotPayload map[string]interface{}

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotUser, gotPass, _ = r.BasicAuth()
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"id":       "order_test123",
				"amount":   10000,
				"currency": "INR",
				"receipt":  "receipt_1",
				"status":   "created",
			})
		}))
		defer server.Close()

		client := NewClient(zap.NewNop(), "key_id", "key_secret", server.URL)

		// Act
		order, err := client.CreateOrder(ctx, 10000, "INR", "receipt_1")

		// Assert
		require.NoError(t, err)
		require.Equal(t, "/orders", gotPath)
		require.Equal(t, "key_id", gotUser)
		require.Equal(t, "key_secret", gotPass)
		require.Equal(t, float64(10000), gotPayload["amount"])
		require.Equal(t, "INR", gotPayload["currency"])
		require.Equal(t, "receipt_1", gotPayload["receipt"])

		require.Equal(t, "order_test123", order.ID)
		require.Equal(t, int64(10000), order.Amount)
		require.Equal(t, "created", order.Status)
	})

	t.Run("non-200 status returns an error", func(t *testing.T) {
		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR"}}`))
		}))
		defer server.Close()

		client := NewClient(zap.NewNop(), "key_id", "wrong_secret", server.URL)

		// Act
		order, err := client.CreateOrder(ctx, 10000, "INR", "receipt_1")

		// Assert
		require.Error(t, err)
		require.Contains(t, err.Error(), "status 401")
		require.Empty(t, order.ID)
	})

	t.Run("unreachable gateway returns an error", func(t *testing.T) {
		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // закрываем сразу, соединение должно падать

		client := NewClient(zap.NewNop(), "key_id", "key_secret", server.URL)

		// Act
		_, err := client.CreateOrder(ctx, 10000, "INR", "receipt_1")

		// Assert
		require.Error(t, err)
	})

	t.Run("malformed response body returns an error", func(t *testing.T) {
		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer server.Close()

		client := NewClient(zap.NewNop(), "key_id", "key_secret", server.URL)

		// Act
		_, err := client.CreateOrder(ctx, 10000, "INR", "receipt_1")

		// Assert
		require.Error(t, err)
		require.Contains(t, err.Error(), "decode")
	})

	t.Run("empty base url falls back to the real API", func(t *testing.T) {
		client := NewClient(zap.NewNop(), "key_id", "key_secret", "")
		require.Equal(t, DefaultBaseURL, client.baseURL)
	})
}
