// Package courseplatform собирает HTTP API платформы курсов.
package courseplatform

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/course-platform/internal/config"
	"github.com/magabrotheeeer/course-platform/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/course-platform/internal/http/handlers/auth/register"
	coursecreate "github.com/magabrotheeeer/course-platform/internal/http/handlers/course/create"
	courselessons "github.com/magabrotheeeer/course-platform/internal/http/handlers/course/lessons"
	courselist "github.com/magabrotheeeer/course-platform/internal/http/handlers/course/list"
	courseread "github.com/magabrotheeeer/course-platform/internal/http/handlers/course/read"
	courseremove "github.com/magabrotheeeer/course-platform/internal/http/handlers/course/remove"
	"github.com/magabrotheeeer/course-platform/internal/http/handlers/course/subscribe"
	courseupdate "github.com/magabrotheeeer/course-platform/internal/http/handlers/course/update"
	"github.com/magabrotheeeer/course-platform/internal/http/handlers/health"
	lessoncreate "github.com/magabrotheeeer/course-platform/internal/http/handlers/lesson/create"
	lessonlist "github.com/magabrotheeeer/course-platform/internal/http/handlers/lesson/list"
	lessonread "github.com/magabrotheeeer/course-platform/internal/http/handlers/lesson/read"
	lessonremove "github.com/magabrotheeeer/course-platform/internal/http/handlers/lesson/remove"
	lessonupdate "github.com/magabrotheeeer/course-platform/internal/http/handlers/lesson/update"
	"github.com/magabrotheeeer/course-platform/internal/http/handlers/payment/paymentcreate"
	"github.com/magabrotheeeer/course-platform/internal/http/handlers/payment/paymentlist"
	"github.com/magabrotheeeer/course-platform/internal/http/handlers/payment/paymentread"
	"github.com/magabrotheeeer/course-platform/internal/http/handlers/payment/paymentstatus"
	"github.com/magabrotheeeer/course-platform/internal/http/handlers/payment/paymentwebhook"
	sublist "github.com/magabrotheeeer/course-platform/internal/http/handlers/subscription/list"
	"github.com/magabrotheeeer/course-platform/internal/http/handlers/users/profile"
	userupdate "github.com/magabrotheeeer/course-platform/internal/http/handlers/users/update"
	"github.com/magabrotheeeer/course-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-platform/internal/metrics"
	authservice "github.com/magabrotheeeer/course-platform/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/course-platform/internal/services/catalog"
	paymentservice "github.com/magabrotheeeer/course-platform/internal/services/payment"
	subservice "github.com/magabrotheeeer/course-platform/internal/services/subscription"

	// Регистрация swagger-спецификации для /docs.
	_ "github.com/magabrotheeeer/course-platform/docs"
)

// Services сервисы, которые обслуживает HTTP API.
type Services struct {
	Auth         *authservice.AuthService
	Catalog      *catalogservice.CatalogService
	Subscription *subservice.SubscriptionService
	Payment      *paymentservice.PaymentService
	Health       map[string]health.Check
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, limit config.RateLimit, s Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		metrics.Middleware,
		middlewarectx.RateLimitMiddleware(logger, limit),
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, s.Auth).ServeHTTP)

		// Webhook и страницы возврата без аутентификации
		r.Post("/payments/webhook", paymentwebhook.New(logger, s.Payment).ServeHTTP)
		r.Get("/payments/success", paymentstatus.NewSuccess(logger, s.Payment).ServeHTTP)
		r.Get("/payments/cancel", paymentstatus.NewCancel(logger, s.Payment).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))

			r.Get("/users/me", profile.New(logger, s.Auth).ServeHTTP)
			r.Patch("/users/me", userupdate.New(logger, s.Auth).ServeHTTP)

			r.Get("/courses", courselist.New(logger, s.Catalog).ServeHTTP)
			r.Post("/courses", coursecreate.New(logger, s.Catalog).ServeHTTP)
			r.Get("/courses/{id}", courseread.New(logger, s.Catalog).ServeHTTP)
			r.Put("/courses/{id}", courseupdate.NewReplace(logger, s.Catalog).ServeHTTP)
			r.Patch("/courses/{id}", courseupdate.New(logger, s.Catalog).ServeHTTP)
			r.Delete("/courses/{id}", courseremove.New(logger, s.Catalog).ServeHTTP)
			r.Get("/courses/{id}/lessons", courselessons.New(logger, s.Catalog).ServeHTTP)
			r.Post("/courses/{id}/subscription", subscribe.New(logger, s.Subscription).ServeHTTP)

			r.Get("/lessons", lessonlist.New(logger, s.Catalog).ServeHTTP)
			r.Post("/lessons", lessoncreate.New(logger, s.Catalog).ServeHTTP)
			r.Get("/lessons/{id}", lessonread.New(logger, s.Catalog).ServeHTTP)
			r.Put("/lessons/{id}", lessonupdate.NewReplace(logger, s.Catalog).ServeHTTP)
			r.Patch("/lessons/{id}", lessonupdate.New(logger, s.Catalog).ServeHTTP)
			r.Delete("/lessons/{id}", lessonremove.New(logger, s.Catalog).ServeHTTP)

			r.Get("/subscriptions", sublist.New(logger, s.Subscription).ServeHTTP)

			r.Get("/payments", paymentlist.New(logger, s.Payment).ServeHTTP)
			r.Post("/payments", paymentcreate.New(logger, s.Payment).ServeHTTP)
			r.Get("/payments/{id}", paymentread.New(logger, s.Payment).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, s.Health).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
