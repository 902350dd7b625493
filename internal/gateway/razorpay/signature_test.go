package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func validSignature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	const secret = "key_secret"

	t.Run("valid signature is accepted", func(t *testing.T) {
		sig := validSignature(secret, "order_abc", "pay_xyz")
		require.True(t, VerifySignature(secret, "order_abc", "pay_xyz", sig))
	})

	t.Run("verification is deterministic", func(t *testing.T) {
		sig := validSignature(secret, "order_abc", "pay_xyz")
		for i := 0; i < 10; i++ {
			require.True(t, VerifySignature(secret, "order_abc", "pay_xyz", sig))
		}
	})

	t.Run("any changed input breaks verification", func(t *testing.T) {
		sig := validSignature(secret, "order_abc", "pay_xyz")

		tests := []struct {
			name      string
			secret    string
			orderID   string
			paymentID string
			signature string
		}{
			{"wrong secret", "other_secret", "order_abc", "pay_xyz", sig},
			{"wrong order id", secret, "order_abd", "pay_xyz", sig},
			{"wrong payment id", secret, "order_abc", "pay_xyy", sig},
			{"swapped ids", secret, "pay_xyz", "order_abc", sig},
			{"empty signature", secret, "order_abc", "pay_xyz", ""},
			{"garbage signature", secret, "order_abc", "pay_xyz", "not-hex-at-all"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				require.False(t, VerifySignature(tt.secret, tt.orderID, tt.paymentID, tt.signature))
			})
		}
	})

	t.Run("single flipped hex digit is rejected", func(t *testing.T) {
		sig := validSignature(secret, "order_abc", "pay_xyz")
		flipped := []byte(sig)
		if flipped[0] == 'a' {
			flipped[0] = 'b'
		} else {
			flipped[0] = 'a'
		}
		require.False(t, VerifySignature(secret, "order_abc", "pay_xyz", string(flipped)))
	})

	t.Run("uppercase hex of a valid signature is rejected", func(t *testing.T) {
		// Сравнение по строкам hex, а не по байтам digest: регистр значим
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write([]byte("order_abc|pay_xyz"))
		upper := hex.EncodeToString(mac.Sum(nil))
		hasLetter := false
		for _, c := range upper {
			if c >= 'a' && c <= 'f' {
				hasLetter = true
			}
		}
		if !hasLetter {
			t.Skip("digest contains no hex letters")
		}
		require.False(t, VerifySignature(secret, "order_abc", "pay_xyz", toUpperASCII(upper)))
	})
}

func toUpperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}
