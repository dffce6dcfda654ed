// Package health реализует проверку готовности зависимостей сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-platform/internal/http/response"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
)

const checkTimeout = 2 * time.Second

// Check проверяет одну зависимость.
type Check func(ctx context.Context) error

// Handler опрашивает зависимости и отвечает 503, если хотя бы одна недоступна.
type Handler struct {
	log    *slog.Logger
	checks map[string]Check
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, checks map[string]Check) *Handler {
	return &Handler{
		log:    log,
		checks: checks,
	}
}

// ServeHTTP godoc
// @Summary Проверка готовности
// @Tags Health
// @Produce  json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	components := make(map[string]string, len(names))
	healthy := true
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			h.log.Warn("dependency unavailable", slog.String("op", op), slog.String("component", name), sl.Err(err))
			components[name] = "unavailable"
			healthy = false
			continue
		}
		components[name] = "ok"
	}

	status := "ok"
	if !healthy {
		status = "degraded"
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"status":     status,
		"components": components,
	}))
}
