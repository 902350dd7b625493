package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithAdminToken(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name            string
		configuredToken string
		requestToken    string
		wantStatus      int
	}{
		{"matching token passes", "secret", "secret", http.StatusOK},
		{"wrong token rejected", "secret", "other", http.StatusUnauthorized},
		{"missing token rejected", "secret", "", http.StatusUnauthorized},
		{"empty configured token closes the surface", "", "anything", http.StatusUnauthorized},
		{"both empty still rejected", "", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := WithAdminToken(tt.configuredToken)(next)

			req := httptest.NewRequest(http.MethodPost, "/admin/users/u/entitlement", nil)
			if tt.requestToken != "" {
				req.Header.Set("x-admin-token", tt.requestToken)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
