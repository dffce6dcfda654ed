// Package register реализует HTTP-обработчик регистрации пользователей.
package register

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

// Service описывает регистрацию пользователя.
type Service interface {
	Register(ctx context.Context, req models.RegisterRequest) (int64, error)
}

// Handler обрабатывает HTTP-запросы на регистрацию.
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
// @Summary Регистрация пользователя
// @Description Создает пользователя по email и паролю.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.RegisterRequest true "Данные пользователя"
// @Success 201 {object} response.Response "Пользователь создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос или email занят"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.RegisterRequest
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}

	id, err := h.service.Register(r.Context(), req)
	if err != nil {
		log.Error("failed to register user", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("user registered", slog.Int64("user_id", id))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id":    id,
		"email": req.Email,
	}))
}
