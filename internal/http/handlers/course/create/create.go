// Package create реализует HTTP-обработчик создания курса.
package create

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

// Service описывает создание курса.
type Service interface {
	CreateCourse(ctx context.Context, actor permission.Actor, in models.CourseInput) (*models.Course, error)
}

// Handler обрабатывает запросы на создание курса. Владельцем становится автор запроса.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать курс
// @Tags Courses
// @Accept  json
// @Produce  json
// @Param request body models.CourseInput true "Курс"
// @Success 201 {object} response.Response "Созданный курс"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Модератор не создает курсы"
// @Router /courses [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var in models.CourseInput
	if !request.Bind(w, r, log, h.validate, &in) {
		return
	}

	course, err := h.service.CreateCourse(r.Context(), middlewarectx.ActorFrom(r.Context()), in)
	if err != nil {
		log.Error("failed to create course", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("course created", slog.Int64("course_id", course.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(course))
}
