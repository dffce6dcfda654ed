// Package middlewarectx содержит HTTP middleware платформы: проверку JWT
// с помещением субъекта запроса в контекст и ограничение частоты запросов.
//
// В случае ошибки проверки токена возвращается HTTP 401 Unauthorized.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-platform/internal/http/response"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/permission"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// ActorKey ключ субъекта запроса в контексте.
const ActorKey Key = "actor"

// Authenticator проверяет токен и возвращает субъекта запроса.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (permission.Actor, error)
}

// WithActor возвращает контекст с субъектом запроса.
func WithActor(ctx context.Context, actor permission.Actor) context.Context {
	return context.WithValue(ctx, ActorKey, actor)
}

// ActorFrom возвращает субъекта запроса. Без субъекта в контексте запрос анонимный.
func ActorFrom(ctx context.Context) permission.Actor {
	actor, ok := ctx.Value(ActorKey).(permission.Actor)
	if !ok {
		return permission.Anonymous
	}
	return actor
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке Authorization.
//
// Если токен валиден, добавляет субъекта в контекст запроса,
// иначе возвращает ошибку с HTTP статусом 401 Unauthorized.
func JWTMiddleware(auth Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Info("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			actor, err := auth.Authenticate(r.Context(), tokenStr)
			if err != nil {
				log.Info("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}
