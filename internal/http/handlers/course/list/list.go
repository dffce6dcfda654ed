// Package list реализует HTTP-обработчик постраничного списка курсов.
package list

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

// Service описывает выборку курсов.
type Service interface {
	ListCourses(ctx context.Context, actor permission.Actor, page models.Page) (models.PageResult[models.Course], error)
}

// Handler обрабатывает запросы на список курсов.
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
// @Summary Список курсов
// @Tags Courses
// @Produce  json
// @Param page query int false "Номер страницы"
// @Param page_size query int false "Размер страницы (по умолчанию 5, максимум 50)"
// @Success 200 {object} response.Response "Страница курсов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /courses [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.ListCourses(r.Context(), middlewarectx.ActorFrom(r.Context()), request.Page(r))
	if err != nil {
		log.Error("failed to list courses", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("list courses", slog.Int("count", len(res.Results)))
	render.JSON(w, r, response.StatusOKWithData(res))
}
