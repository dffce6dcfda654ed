// Package profile реализует HTTP-обработчик чтения профиля текущего пользователя.
package profile

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

// Service описывает чтение профиля.
type Service interface {
	GetProfile(ctx context.Context, actor permission.Actor) (*models.User, error)
}

// Handler возвращает профиль пользователя из токена.
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
// @Summary Профиль пользователя
// @Tags Users
// @Produce  json
// @Success 200 {object} response.Response "Профиль"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /users/me [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.profile"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, err := h.service.GetProfile(r.Context(), middlewarectx.ActorFrom(r.Context()))
	if err != nil {
		log.Error("failed to get profile", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(user))
}
