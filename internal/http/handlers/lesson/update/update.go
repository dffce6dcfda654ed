// Package update реализует HTTP-обработчики изменения урока.
// Курс урока через эти запросы не меняется.
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
	"github.com/magabrotheeeer/course-platform/internal/lib/videourl"
	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/permission"
)

// Service описывает изменение урока.
type Service interface {
	UpdateLesson(ctx context.Context, actor permission.Actor, id int64, patch models.LessonPatch) (*models.Lesson, error)
	ReplaceLesson(ctx context.Context, actor permission.Actor, id int64, in models.LessonInput) (*models.Lesson, error)
}

// Handler обрабатывает PATCH и PUT урока.
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
		validate: videourl.NewValidator(),
	}
}

// NewReplace создает обработчик полной замены.
func NewReplace(log *slog.Logger, service Service) *Handler {
	h := New(log, service)
	h.replace = true
	return h
}

// ServeHTTP godoc
// @Summary Изменить урок
// @Description PATCH меняет переданные поля, PUT заменяет все поля. course_id игнорируется.
// @Tags Lessons
// @Accept  json
// @Produce  json
// @Param id path int true "ID урока"
// @Param request body models.LessonPatch true "Поля урока"
// @Success 200 {object} response.Response "Обновленный урок"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации или ссылка не на YouTube"
// @Failure 403 {object} response.ErrorResponse "Нет доступа"
// @Failure 404 {object} response.ErrorResponse "Урок не найден"
// @Router /lessons/{id} [patch]
// @Router /lessons/{id} [put]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lesson.update"

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

	var lesson *models.Lesson
	if h.replace {
		var in models.LessonInput
		if !request.Bind(w, r, log, h.validate, &in) {
			return
		}
		lesson, err = h.service.ReplaceLesson(r.Context(), actor, id, in)
	} else {
		var patch models.LessonPatch
		if !request.Bind(w, r, log, h.validate, &patch) {
			return
		}
		lesson, err = h.service.UpdateLesson(r.Context(), actor, id, patch)
	}
	if err != nil {
		log.Error("failed to update lesson", slog.Int64("lesson_id", id), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("lesson updated", slog.Int64("lesson_id", id))
	render.JSON(w, r, response.StatusOKWithData(lesson))
}
