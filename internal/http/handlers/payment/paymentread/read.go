// Package paymentread обрабатывает получение платежа по ID.
package paymentread

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-platform/internal/http/request"
	"github.com/magabrotheeeer/course-platform/internal/http/response"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/permission"
)

// Service определяет интерфейс чтения платежа.
type Service interface {
	Get(ctx context.Context, actor permission.Actor, id int64) (*models.Payment, error)
}

// Handler обрабатывает запросы на получение платежа.
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
// @Summary Получить платеж
// @Tags Payments
// @Produce  json
// @Param id path int true "ID платежа"
// @Success 200 {object} response.Response "Платеж"
// @Failure 404 {object} response.ErrorResponse "Платеж не найден"
// @Router /payments/{id} [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ID(r, "id")
	if err != nil {
		request.BadID(w, r, log, err)
		return
	}

	payment, err := h.service.Get(r.Context(), middlewarectx.ActorFrom(r.Context()), id)
	if err != nil {
		log.Info("failed to read payment", slog.Int64("payment_id", id), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(payment))
}
