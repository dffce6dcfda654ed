// Package login реализует HTTP-обработчик входа пользователя.
//
// При успешной аутентификации возвращается JSON с JWT;
// в случае ошибок формируются соответствующие HTTP-ответы.
package login

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/course-platform/internal/http/request"
	"github.com/magabrotheeeer/course-platform/internal/http/response"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

// Service описывает вход пользователя по email и паролю.
type Service interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// Handler обрабатывает HTTP-запросы для авторизации.
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
// @Summary Авторизация пользователя
// @Description Аутентифицирует пользователя по email и паролю. Возвращает JWT.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.LoginRequest true "Учетные данные пользователя"
// @Success 200 {object} response.Response "Успешная авторизация"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 403 {object} response.ErrorResponse "Пользователь деактивирован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.LoginRequest
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Info("login failed", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("login success")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"token": token,
	}))
}
