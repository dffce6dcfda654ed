// Package paymentcreate обрабатывает создание платежа за курс.
package paymentcreate

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

// Service определяет интерфейс для создания платежей.
type Service interface {
	Initiate(ctx context.Context, actor permission.Actor, courseID int64) (*models.Payment, error)
}

// Handler обрабатывает запросы на создание платежа.
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
// @Summary Создать платеж
// @Description Создает сессию оплаты курса и возвращает ссылку на оплату.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body models.CreatePaymentRequest true "Курс для оплаты"
// @Success 201 {object} response.Response "Платеж создан"
// @Failure 400 {object} response.ErrorResponse "Курс бесплатный или некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Курс не найден"
// @Failure 502 {object} response.ErrorResponse "Платежный сервис недоступен"
// @Router /payments [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.CreatePaymentRequest
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}

	payment, err := h.service.Initiate(r.Context(), middlewarectx.ActorFrom(r.Context()), req.CourseID)
	if err != nil {
		log.Error("failed to create payment", slog.Int64("course_id", req.CourseID), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("payment created", slog.Int64("payment_id", payment.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(payment))
}
