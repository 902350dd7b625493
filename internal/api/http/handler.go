package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	platformobservability "github.com/kddeveloperhub/noteskart/platform/observability"

	"github.com/kddeveloperhub/noteskart/internal/notes"
	"github.com/kddeveloperhub/noteskart/internal/repository"
	"github.com/kddeveloperhub/noteskart/internal/service"
)

// Handler содержит HTTP-обработчики noteskart
// Зависит от service слоя, но не знает о деталях реализации (Mongo, Kafka и т.д.)
type Handler struct {
	logger       *zap.Logger
	notesService *service.NotesService
}

// NewHandler создаёт новый HTTP handler
func NewHandler(logger *zap.Logger, notesService *service.NotesService) *Handler {
	return &Handler{
		logger:       logger,
		notesService: notesService,
	}
}

// log возвращает request-scoped logger с trace_id, если его положил observability middleware
func (h *Handler) log(ctx context.Context) *zap.Logger {
	if l := platformobservability.LoggerFromContext(ctx); l != nil {
		return l
	}
	return h.logger
}

// VerifyPaymentRequest представляет HTTP запрос подтверждения оплаты
// Имена полей фиксированы протоколом Razorpay checkout
type VerifyPaymentRequest struct {
	RazorpayOrderID   *string `json:"razorpay_order_id"`
	RazorpayPaymentID *string `json:"razorpay_payment_id"`
	RazorpaySignature *string `json:"razorpay_signature"`
	UID               *string `json:"uid"`
}

// EntitlementRequest представляет HTTP запрос admin write path-а
type EntitlementRequest struct {
	IsPaid *bool `json:"is_paid"`
}

// CreateOrder обрабатывает POST /create-order
// Тело не требуется: сумма и валюта фиксированы конфигурацией сервиса
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	order, err := h.notesService.CreateOrder(ctx)
	if err != nil {
		h.log(ctx).Error("order creation error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Order creation failed"})
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// VerifyPayment обрабатывает POST /verify-payment
// 200 {"success":true} только при совпавшей подписи; иначе 400 {"success":false}
func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(ctx).Warn("verify payment: invalid JSON", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, map[string]bool{"success": false})
		return
	}

	// Отсутствующие поля не совпадут с подписью — отклоняем сразу
	if req.RazorpayOrderID == nil || req.RazorpayPaymentID == nil || req.RazorpaySignature == nil {
		writeJSON(w, http.StatusBadRequest, map[string]bool{"success": false})
		return
	}

	input := service.VerifyPaymentInput{
		OrderID:   *req.RazorpayOrderID,
		PaymentID: *req.RazorpayPaymentID,
		Signature: *req.RazorpaySignature,
	}
	if req.UID != nil {
		input.UserID = *req.UID
	}

	if err := h.notesService.VerifyPayment(ctx, input); err != nil {
		if errors.Is(err, service.ErrInvalidSignature) {
			writeJSON(w, http.StatusBadRequest, map[string]bool{"success": false})
			return
		}
		h.log(ctx).Error("payment verification error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]bool{"success": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GetNote обрабатывает GET /get-note/{filename}/{uid}
// Порядок проверок фиксирован: entitlement до файла
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request, filename, uid string) {
	ctx := r.Context()

	note, err := h.notesService.GetNote(ctx, filename, uid)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
		case errors.Is(err, service.ErrPaymentRequired):
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "Payment required"})
		case errors.Is(err, notes.ErrInvalidFilename):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid filename"})
		case errors.Is(err, notes.ErrFileNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "File not found"})
		default:
			// Причина только в лог, наружу — generic ответ
			h.log(ctx).Error("file access error",
				zap.Error(err),
				zap.String("filename", filename),
				zap.String("uid", uid),
			)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		}
		return
	}
	defer note.File.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.FormatInt(note.Size, 10))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": note.Name}))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, note.File); err != nil {
		// Заголовки уже ушли, остаётся залогировать обрыв
		h.log(r.Context()).Warn("note streaming interrupted",
			zap.Error(err),
			zap.String("filename", filename),
		)
	}
}

// SetEntitlement обрабатывает POST /admin/users/{uid}/entitlement
// Admin write path: выставляет is_paid вручную (override/backfill)
func (h *Handler) SetEntitlement(w http.ResponseWriter, r *http.Request, uid string) {
	ctx := r.Context()

	var req EntitlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}
	if req.IsPaid == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "is_paid is required"})
		return
	}
	if uid == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "uid is required"})
		return
	}

	if err := h.notesService.MarkPaid(ctx, uid, *req.IsPaid); err != nil {
		h.log(ctx).Error("entitlement update error", zap.Error(err), zap.String("uid", uid))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id": uid,
		"is_paid": *req.IsPaid,
	})
}

// writeJSON пишет JSON ответ с указанным статусом
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
