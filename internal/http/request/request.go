// Package request разбирает параметры HTTP-запроса: идентификаторы из пути,
// параметры страницы и JSON-тело с валидацией.
package request

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/course-platform/internal/http/response"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

// MaxBodyBytes предел размера JSON-тела запроса.
const MaxBodyBytes = 1 << 20

// ErrBadID неположительный или нечисловой идентификатор в пути.
var ErrBadID = errors.New("invalid id")

// ID возвращает положительный идентификатор из параметра пути key.
func ID(r *http.Request, key string) (int64, error) {
	raw := chi.URLParam(r, key)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrBadID, raw)
	}
	return id, nil
}

// Page читает параметры page и page_size. Некорректные значения
// остаются нулевыми, размер по умолчанию подставляет сервис.
func Page(r *http.Request) models.Page {
	q := r.URL.Query()
	number, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("page_size"))
	return models.Page{Number: number, Size: size}
}

// OptionalID читает необязательный числовой query-параметр key.
func OptionalID(r *http.Request, key string) (*int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%w: %q", ErrBadID, raw)
	}
	return &id, nil
}

// Bind декодирует JSON-тело не больше MaxBodyBytes в dst и валидирует его.
// При ошибке пишет ответ 400 и возвращает false.
func Bind(w http.ResponseWriter, r *http.Request, log *slog.Logger, v *validator.Validate, dst any) bool {
	if err := render.DecodeJSON(http.MaxBytesReader(w, r.Body, MaxBodyBytes), dst); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return false
	}
	if err := v.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			log.Error("validation failed", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid request body"))
			return false
		}
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(verrs))
		return false
	}
	return true
}

// BadID пишет ответ 400 на некорректный идентификатор.
func BadID(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	log.Info("failed to decode id from url", sl.Err(err))
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, response.Error("failed to decode id from url"))
}
