package middleware

import (
	"crypto/subtle"
	"net/http"
)

// WithAdminToken — HTTP middleware: читает заголовок x-admin-token и сравнивает с настроенным токеном
// Сравнение константное по времени; при отсутствии/несовпадении возвращает 401
// Пустой настроенный токен закрывает admin surface полностью
func WithAdminToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("x-admin-token")
			if token == "" || got == "" ||
				subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				http.Error(w, "admin token is required", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
