// Package remove реализует HTTP-обработчик удаления урока.
package remove

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
	"github.com/magabrotheeeer/course-platform/internal/permission"
)

// Service описывает удаление урока.
type Service interface {
	DeleteLesson(ctx context.Context, actor permission.Actor, id int64) error
}

// Handler обрабатывает запросы на удаление урока.
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
// @Summary Удалить урок
// @Tags Lessons
// @Produce  json
// @Param id path int true "ID урока"
// @Success 200 {object} response.Response "Урок удален"
// @Failure 403 {object} response.ErrorResponse "Удалять может только владелец"
// @Failure 404 {object} response.ErrorResponse "Урок не найден"
// @Router /lessons/{id} [delete]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lesson.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ID(r, "id")
	if err != nil {
		request.BadID(w, r, log, err)
		return
	}

	if err := h.service.DeleteLesson(r.Context(), middlewarectx.ActorFrom(r.Context()), id); err != nil {
		log.Error("failed to delete lesson", slog.Int64("lesson_id", id), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("lesson deleted", slog.Int64("lesson_id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted_id": id,
	}))
}
