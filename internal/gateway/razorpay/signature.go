package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifySignature проверяет подпись подтверждения оплаты Razorpay
// Алгоритм фиксирован протоколом шлюза: HMAC-SHA256 от "orderID|paymentID"
// с key_secret в качестве ключа, hex в нижнем регистре
// Сравнение константное по времени; никакого fallback при несовпадении нет
// Функция чистая и детерминированная — единственная криптографическая граница доверия
func VerifySignature(keySecret, orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
