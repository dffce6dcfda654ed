// Package create реализует HTTP-обработчик создания урока в курсе.
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
	"github.com/magabrotheeeer/course-platform/internal/lib/videourl"
	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/permission"
)

// Service описывает создание урока.
type Service interface {
	CreateLesson(ctx context.Context, actor permission.Actor, in models.LessonInput) (*models.Lesson, error)
}

// Handler обрабатывает запросы на создание урока.
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
		validate: videourl.NewValidator(),
	}
}

// ServeHTTP godoc
// @Summary Создать урок
// @Tags Lessons
// @Accept  json
// @Produce  json
// @Param request body models.LessonInput true "Урок"
// @Success 201 {object} response.Response "Созданный урок"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации или ссылка не на YouTube"
// @Failure 403 {object} response.ErrorResponse "Нет доступа"
// @Failure 404 {object} response.ErrorResponse "Курс не найден"
// @Router /lessons [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lesson.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var in models.LessonInput
	if !request.Bind(w, r, log, h.validate, &in) {
		return
	}

	lesson, err := h.service.CreateLesson(r.Context(), middlewarectx.ActorFrom(r.Context()), in)
	if err != nil {
		log.Error("failed to create lesson", slog.Int64("course_id", in.CourseID), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("lesson created", slog.Int64("lesson_id", lesson.ID), slog.Int64("course_id", lesson.CourseID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(lesson))
}
