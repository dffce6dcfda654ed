// Package update реализует HTTP-обработчики изменения курса:
// PATCH меняет переданные поля, PUT заменяет курс целиком.
package update

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/course-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-platform/internal/http/request"
	"github.com/magabrotheeeer/course-platform/internal/http/response"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/permission"
)

// Service описывает изменение курса.
type Service interface {
	UpdateCourse(ctx context.Context, actor permission.Actor, id int64, patch models.CoursePatch) (*models.Course, error)
	ReplaceCourse(ctx context.Context, actor permission.Actor, id int64, in models.CourseInput) (*models.Course, error)
}

// Handler обрабатывает PATCH и PUT курса.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
	replace  bool
}

// New создает обработчик частичного обновления.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// NewReplace создает обработчик полной замены.
func NewReplace(log *slog.Logger, service Service) *Handler {
	h := New(log, service)
	h.replace = true
	return h
}

// ServeHTTP godoc
// @Summary Изменить курс
// @Description PATCH меняет переданные поля, PUT заменяет все поля (отсутствующая цена сбрасывается).
// @Tags Courses
// @Accept  json
// @Produce  json
// @Param id path int true "ID курса"
// @Param request body models.CoursePatch true "Поля курса"
// @Success 200 {object} response.Response "Обновленный курс"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 403 {object} response.ErrorResponse "Нет доступа"
// @Failure 404 {object} response.ErrorResponse "Курс не найден"
// @Router /courses/{id} [patch]
// @Router /courses/{id} [put]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Bool("replace", h.replace),
	)

	id, err := request.ID(r, "id")
	if err != nil {
		request.BadID(w, r, log, err)
		return
	}
	actor := middlewarectx.ActorFrom(r.Context())

	var course *models.Course
	if h.replace {
		var in models.CourseInput
		if !request.Bind(w, r, log, h.validate, &in) {
			return
		}
		course, err = h.service.ReplaceCourse(r.Context(), actor, id, in)
	} else {
		var patch models.CoursePatch
		if !request.Bind(w, r, log, h.validate, &patch) {
			return
		}
		course, err = h.service.UpdateCourse(r.Context(), actor, id, patch)
	}
	if err != nil {
		log.Error("failed to update course", slog.Int64("course_id", id), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("course updated", slog.Int64("course_id", id))
	render.JSON(w, r, response.StatusOKWithData(course))
}
