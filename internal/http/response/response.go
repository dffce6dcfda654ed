// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков и перевода доменных ошибок
// в коды ответа.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/course-platform/internal/lib/videourl"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status статус запроса ("OK" или "Error").
// Поле Error текст ошибки (опционально, при неуспехе).
// Поле Data данные ответа (опционально, при успехе).
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse структура ошибки для Swagger-документации.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

const (
	// StatusOK значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// StatusOKWithData возвращает успешный Response с переданными данными.
func StatusOKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает ответ с ошибкой и переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least %s characters", err.Field(), err.Param()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at most %s characters", err.Field(), err.Param()))
		case "gt", "gte":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be %s %s", err.Field(), err.ActualTag(), err.Param()))
		case videourl.Tag:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s: %s", err.Field(), models.ErrInvalidVideoURL))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}

var badRequest = []error{
	models.ErrSelfSubscription,
	models.ErrFreeCourse,
	models.ErrInvalidVideoURL,
	models.ErrEmailTaken,
	models.ErrSignature,
	models.ErrPaymentRejected,
}

// FromError переводит ошибку в HTTP-статус и безопасное сообщение.
// Неизвестные ошибки становятся 500 без подробностей.
func FromError(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized, models.ErrUnauthenticated.Error()
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized, models.ErrInvalidCredentials.Error()
	case errors.Is(err, models.ErrUserInactive):
		return http.StatusForbidden, models.ErrUserInactive.Error()
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, models.ErrForbidden.Error()
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, models.ErrNotFound.Error()
	case errors.Is(err, models.ErrExternalService):
		return http.StatusBadGateway, models.ErrExternalService.Error()
	}
	for _, known := range badRequest {
		if errors.Is(err, known) {
			return http.StatusBadRequest, known.Error()
		}
	}
	return http.StatusInternalServerError, "internal error"
}

// Fail пишет ответ с ошибкой err.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := FromError(err)
	render.Status(r, status)
	render.JSON(w, r, Error(msg))
}
