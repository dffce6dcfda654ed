// Package paymentstatus отдает страницы возврата после оплаты.
//
// Страницы только читают состояние платежа: статус меняют события webhook.
package paymentstatus

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-platform/internal/http/response"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

// Service ищет платеж по сессии оплаты.
type Service interface {
	SessionStatus(ctx context.Context, sessionID string) (*models.Payment, error)
}

// Result ответ страницы возврата.
type Result struct {
	Page      string               `json:"page"`
	PaymentID int64                `json:"payment_id"`
	CourseID  int64                `json:"course_id"`
	Status    models.PaymentStatus `json:"status"`
}

// Handler обрабатывает success и cancel страницы.
type Handler struct {
	log     *slog.Logger
	service Service
	page    string
}

// NewSuccess создает обработчик страницы успешной оплаты.
func NewSuccess(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, page: "success"}
}

// NewCancel создает обработчик страницы отмены оплаты.
func NewCancel(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, page: "cancel"}
}

// ServeHTTP godoc
// @Summary Возврат после оплаты
// @Tags Payments
// @Produce  json
// @Param session_id query string true "ID сессии оплаты"
// @Success 200 {object} response.Response "Текущий статус платежа"
// @Failure 404 {object} response.ErrorResponse "Сессия не найдена"
// @Router /payments/success [get]
// @Router /payments/cancel [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.status"

	sessionID := r.URL.Query().Get("session_id")
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("page", h.page),
		slog.String("session_id", sessionID),
	)

	payment, err := h.service.SessionStatus(r.Context(), sessionID)
	if err != nil {
		log.Info("failed to find payment for session", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(Result{
		Page:      h.page,
		PaymentID: payment.ID,
		CourseID:  payment.CourseID,
		Status:    payment.Status,
	}))
}
