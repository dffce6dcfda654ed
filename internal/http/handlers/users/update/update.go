// Package update реализует HTTP-обработчик частичного обновления профиля.
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

// Service описывает обновление профиля.
type Service interface {
	UpdateProfile(ctx context.Context, actor permission.Actor, upd models.ProfileUpdate) (*models.User, error)
}

// Handler обновляет телефон, город и аватар пользователя.
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
// @Summary Обновить профиль
// @Tags Users
// @Accept  json
// @Produce  json
// @Param request body models.ProfileUpdate true "Изменяемые поля"
// @Success 200 {object} response.Response "Обновленный профиль"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /users/me [patch]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var upd models.ProfileUpdate
	if !request.Bind(w, r, log, h.validate, &upd) {
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), middlewarectx.ActorFrom(r.Context()), upd)
	if err != nil {
		log.Error("failed to update profile", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	log.Info("profile updated", slog.Int64("user_id", user.ID))
	render.JSON(w, r, response.StatusOKWithData(user))
}
