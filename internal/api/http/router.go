package httpapi

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	platformhealth "github.com/kddeveloperhub/noteskart/platform/health/http"
	platformobservability "github.com/kddeveloperhub/noteskart/platform/observability"

	"net/http"

	"github.com/kddeveloperhub/noteskart/internal/api/http/middleware"
)

// NewRouter создаёт и настраивает HTTP роутер noteskart
// readiness — проверка готовности зависимостей (Mongo/Postgres ping); при false health отдаёт 503
// adminToken защищает /admin/* (middleware отдаёт 401 при отсутствии/несовпадении)
// logger используется для observability HTTP middleware (trace_id в логах)
func NewRouter(handler *Handler, adminToken string, allowedOrigins []string, readiness func() bool, logger *zap.Logger) chi.Router {
	router := chi.NewRouter()

	// Observability: trace context + span на каждый запрос, logger с trace_id в контексте
	if logger != nil {
		router.Use(platformobservability.HTTPMiddleware("noteskart", logger))
	}

	// CORS на всём публичном surface (checkout живёт на другом origin)
	router.Use(CORS(allowedOrigins))

	router.Post("/create-order", handler.CreateOrder)
	router.Post("/verify-payment", handler.VerifyPayment)
	router.Get("/get-note/{filename}/{uid}", func(w http.ResponseWriter, r *http.Request) {
		filename := chi.URLParam(r, "filename")
		uid := chi.URLParam(r, "uid")
		handler.GetNote(w, r, filename, uid)
	})

	// /admin/* требует x-admin-token
	router.Route("/admin", func(r chi.Router) {
		r.Use(middleware.WithAdminToken(adminToken))
		r.Post("/users/{uid}/entitlement", func(w http.ResponseWriter, req *http.Request) {
			uid := chi.URLParam(req, "uid")
			handler.SetEntitlement(w, req, uid)
		})
	})

	// Health без middleware авторизации
	router.Get("/health", platformhealth.Handler(readiness))

	return router
}
