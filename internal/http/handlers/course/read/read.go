// Package read реализует HTTP-обработчик получения курса с уроками по ID.
package read

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

// Service описывает чтение курса.
type Service interface {
	GetCourse(ctx context.Context, actor permission.Actor, id int64) (*models.CourseDetail, error)
}

// Handler обрабатывает запросы на получение курса по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить курс
// @Description Курс со списком уроков и признаком подписки текущего пользователя.
// @Tags Courses
// @Produce  json
// @Param id path int true "ID курса"
// @Success 200 {object} response.Response "Курс"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 403 {object} response.ErrorResponse "Нет доступа"
// @Failure 404 {object} response.ErrorResponse "Курс не найден"
// @Router /courses/{id} [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ID(r, "id")
	if err != nil {
		request.BadID(w, r, log, err)
		return
	}

	course, err := h.service.GetCourse(r.Context(), middlewarectx.ActorFrom(r.Context()), id)
	if err != nil {
		log.Error("failed to read course", slog.Int64("course_id", id), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(course))
}
