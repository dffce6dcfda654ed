// Package subscribe реализует HTTP-обработчик переключения подписки на курс.
//
// Повторный запрос снимает подписку, следующий снова её включает.
package subscribe

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

// Service описывает переключение подписки.
type Service interface {
	Toggle(ctx context.Context, actor permission.Actor, courseID int64) (models.ToggleResult, error)
}

// Handler обрабатывает запросы на подписку и отписку.
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
// @Summary Подписаться или отписаться
// @Tags Subscriptions
// @Produce  json
// @Param id path int true "ID курса"
// @Success 200 {object} response.Response "Новое состояние подписки"
// @Failure 400 {object} response.ErrorResponse "Подписка на собственный курс"
// @Failure 404 {object} response.ErrorResponse "Курс не найден"
// @Router /courses/{id}/subscription [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.subscribe"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ID(r, "id")
	if err != nil {
		request.BadID(w, r, log, err)
		return
	}

	res, err := h.service.Toggle(r.Context(), middlewarectx.ActorFrom(r.Context()), id)
	if err != nil {
		log.Error("failed to toggle subscription", slog.Int64("course_id", id), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	message := "subscription removed"
	if res.Subscribed {
		message = "subscription added"
	}
	log.Info(message, slog.Int64("course_id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"course_id":  res.CourseID,
		"subscribed": res.Subscribed,
		"message":    message,
	}))
}
