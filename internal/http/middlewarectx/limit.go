package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/course-platform/internal/config"
	"github.com/magabrotheeeer/course-platform/internal/http/response"
)

// RateLimitMiddleware ограничивает частоту запросов ко всему процессу.
// Лимит общий для всех маршрутов и методов.
func RateLimitMiddleware(log *slog.Logger, cfg config.RateLimit) func(http.Handler) http.Handler {
	return limitWith(log, rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst))
}

func limitWith(log *slog.Logger, limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				log.Warn("too many requests", slog.String("path", r.URL.Path))
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
