// Package paymentwebhook принимает события платежного сервиса.
//
// Подпись проверяется до любого изменения платежей. Неизвестные события
// принимаются и игнорируются.
package paymentwebhook

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-platform/internal/http/response"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

// SignatureHeader заголовок с подписью события.
const SignatureHeader = "Stripe-Signature"

// maxBodyBytes предел размера тела события.
const maxBodyBytes = 64 << 10

// Service проверяет и применяет событие.
type Service interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*models.ReconcileResult, error)
}

// Handler обрабатывает webhook платежного сервиса.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Webhook платежного сервиса
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param Stripe-Signature header string true "Подпись события"
// @Success 200 {object} response.Response "Событие обработано"
// @Failure 400 {object} response.ErrorResponse "Неверная подпись"
// @Failure 500 {object} response.ErrorResponse "Ошибка, событие будет доставлено повторно"
// @Router /payments/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	defer r.Body.Close()

	res, err := h.service.HandleWebhook(r.Context(), body, r.Header.Get(SignatureHeader))
	if err != nil {
		if errors.Is(err, models.ErrSignature) {
			log.Warn("invalid or missing webhook signature", sl.Err(err))
		} else {
			log.Error("failed to process webhook event", sl.Err(err))
		}
		response.Fail(w, r, err)
		return
	}

	log.Info("webhook processed",
		slog.String("event_type", res.EventType),
		slog.String("outcome", string(res.Outcome)),
	)
	render.JSON(w, r, response.StatusOKWithData(res))
}
