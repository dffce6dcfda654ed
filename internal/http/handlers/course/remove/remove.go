// Package remove реализует HTTP-обработчик удаления курса вместе с его уроками.
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

// Service описывает удаление курса.
type Service interface {
	DeleteCourse(ctx context.Context, actor permission.Actor, id int64) error
}

// Handler обрабатывает запросы на удаление курса.
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
// @Summary Удалить курс
// @Tags Courses
// @Produce  json
// @Param id path int true "ID курса"
// @Success 200 {object} response.Response "Курс удален"
// @Failure 403 {object} response.ErrorResponse "Удалять может только владелец"
// @Failure 404 {object} response.ErrorResponse "Курс не найден"
// @Router /courses/{id} [delete]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ID(r, "id")
	if err != nil {
		request.BadID(w, r, log, err)
		return
	}

	if err := h.service.DeleteCourse(r.Context(), middlewarectx.ActorFrom(r.Context()), id); err != nil {
		log.Error("failed to delete course", slog.Int64("course_id", id), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("course deleted", slog.Int64("course_id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted_id": id,
	}))
}
