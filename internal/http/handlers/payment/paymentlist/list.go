// Package paymentlist обрабатывает вывод платежей пользователя.
package paymentlist

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

// Service определяет интерфейс выборки платежей.
type Service interface {
	List(ctx context.Context, actor permission.Actor, courseID *int64) ([]models.Payment, error)
}

// Handler обрабатывает запросы на список платежей.
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
// @Summary Список платежей
// @Description Свои платежи, для модератора все. Новые первыми.
// @Tags Payments
// @Produce  json
// @Param course_id query int false "Фильтр по курсу"
// @Success 200 {object} response.Response "Платежи"
// @Failure 400 {object} response.ErrorResponse "Некорректный course_id"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /payments [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	courseID, err := request.OptionalID(r, "course_id")
	if err != nil {
		log.Info("invalid course_id", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid course_id"))
		return
	}

	payments, err := h.service.List(r.Context(), middlewarectx.ActorFrom(r.Context()), courseID)
	if err != nil {
		log.Error("failed to list payments", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("list payments", slog.Int("count", len(payments)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count": len(payments),
		"payments":   payments,
	}))
}
