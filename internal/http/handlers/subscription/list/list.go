// Package list реализует HTTP-обработчик списка подписок текущего пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-platform/internal/http/response"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/permission"
)

// Service описывает выборку подписок.
type Service interface {
	List(ctx context.Context, actor permission.Actor) ([]models.Subscription, error)
}

// Handler обрабатывает запросы на список подписок.
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
// @Summary Мои подписки
// @Tags Subscriptions
// @Produce  json
// @Success 200 {object} response.Response "Подписки пользователя"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /subscriptions [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.List(r.Context(), middlewarectx.ActorFrom(r.Context()))
	if err != nil {
		log.Error("failed to list subscriptions", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("list subscriptions", slog.Int("count", len(res)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count":    len(res),
		"subscriptions": res,
	}))
}
