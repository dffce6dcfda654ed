// Package videourl проверяет ссылки на видео уроков: допускаются только YouTube.
package videourl

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/course-platform/internal/models"
)

// Tag имя правила для validator.
const Tag = "youtube"

var allowedHosts = []string{"youtube.com", "www.youtube.com", "youtu.be"}

// Validate возвращает ошибку, оборачивающую models.ErrInvalidVideoURL,
// если ссылка непуста и не ведёт на конкретное видео YouTube.
// Пустая строка и строка из пробелов допустимы.
func Validate(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidVideoURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: only http and https links are allowed", models.ErrInvalidVideoURL)
	}

	host := strings.ToLower(u.Hostname())
	if !hostAllowed(host) {
		return fmt.Errorf("%w: host %q is not youtube", models.ErrInvalidVideoURL, host)
	}

	switch host {
	case "youtu.be":
		if strings.Trim(u.Path, "/") == "" {
			return fmt.Errorf("%w: youtu.be link has no video id", models.ErrInvalidVideoURL)
		}
	case "youtube.com", "www.youtube.com":
		if u.Path == "" || u.Path == "/" {
			return fmt.Errorf("%w: link must point to a video", models.ErrInvalidVideoURL)
		}
	}
	return nil
}

func hostAllowed(host string) bool {
	for _, allowed := range allowedHosts {
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}

// Register добавляет правило Tag в validator.
func Register(v *validator.Validate) error {
	return v.RegisterValidation(Tag, func(fl validator.FieldLevel) bool {
		return Validate(fl.Field().String()) == nil
	})
}

// NewValidator создаёт validator с зарегистрированным правилом Tag.
func NewValidator() *validator.Validate {
	v := validator.New()
	if err := Register(v); err != nil {
		panic(err)
	}
	return v
}
