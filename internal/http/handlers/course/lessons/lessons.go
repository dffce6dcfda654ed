// Package lessons реализует HTTP-обработчик постраничного списка уроков курса.
package lessons

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

// Service описывает выборку уроков курса.
type Service interface {
	ListCourseLessons(ctx context.Context, actor permission.Actor, courseID int64, page models.Page) (models.PageResult[models.Lesson], error)
}

// Handler обрабатывает запросы на список уроков курса.
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
// @Summary Уроки курса
// @Tags Courses
// @Produce  json
// @Param id path int true "ID курса"
// @Param page query int false "Номер страницы"
// @Param page_size query int false "Размер страницы (по умолчанию 10, максимум 100)"
// @Success 200 {object} response.Response "Страница уроков"
// @Failure 404 {object} response.ErrorResponse "Курс не найден"
// @Router /courses/{id}/lessons [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.lessons"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ID(r, "id")
	if err != nil {
		request.BadID(w, r, log, err)
		return
	}

	res, err := h.service.ListCourseLessons(r.Context(), middlewarectx.ActorFrom(r.Context()), id, request.Page(r))
	if err != nil {
		log.Error("failed to list course lessons", slog.Int64("course_id", id), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(res))
}
