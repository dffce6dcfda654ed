package courseplatform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/course-platform/internal/cache"
	"github.com/magabrotheeeer/course-platform/internal/config"
	"github.com/magabrotheeeer/course-platform/internal/http/handlers/health"
	"github.com/magabrotheeeer/course-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/course-platform/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/migrations"
	"github.com/magabrotheeeer/course-platform/internal/paymentprovider"
	authservice "github.com/magabrotheeeer/course-platform/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/course-platform/internal/services/catalog"
	notificationservice "github.com/magabrotheeeer/course-platform/internal/services/notification"
	paymentservice "github.com/magabrotheeeer/course-platform/internal/services/payment"
	subservice "github.com/magabrotheeeer/course-platform/internal/services/subscription"
	"github.com/magabrotheeeer/course-platform/internal/storage/repository"
)

// App HTTP API платформы курсов.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
	broker *rabbitmq.Link
}

// New подключает хранилище, кэш и брокер, применяет миграции и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cache not initialized: %w", err)
	}

	broker, err := rabbitmq.Dial(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = db.Close()
		_ = cacheRedis.Close()
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	notifier := notificationservice.NewNotifier(rabbitmq.NewLinkPublisher(broker), logger)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	subscriptionService := subservice.NewSubscriptionService(db, db, logger)

	services := Services{
		Auth:         authservice.NewAuthService(db, jwtMaker, logger),
		Catalog:      catalogservice.NewCatalogService(db, db, db, cacheRedis, notifier, logger, cfg.CourseTTL),
		Subscription: subscriptionService,
		Payment: paymentservice.New(db, db, paymentprovider.NewClient(cfg.Stripe), paymentservice.Options{
			Currency:   cfg.Currency,
			SuccessURL: cfg.SuccessURL,
			CancelURL:  cfg.CancelURL,
		}, logger),
		Health: map[string]health.Check{
			"postgres": func(ctx context.Context) error { return repository.CheckDatabaseReady(ctx, db) },
			"redis":    func(ctx context.Context) error { return cacheRedis.Db.Ping(ctx).Err() },
			"rabbitmq": func(context.Context) error {
				if broker.Closed() {
					return amqp.ErrClosed
				}
				return nil
			},
		},
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg.RateLimit, services)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
		broker: broker,
	}, nil
}

// Run обслуживает запросы до отмены ctx, затем останавливает сервер
// и закрывает соединения.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err = a.server.Shutdown(timeoutCtx)
	}
	a.close()
	return err
}

func (a *App) close() {
	if err := a.broker.Close(); err != nil {
		a.logger.Error("failed to close broker connection", sl.Err(err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close cache", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
