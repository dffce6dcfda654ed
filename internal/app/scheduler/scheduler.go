// Package scheduler запускает периодические задачи платформы по cron.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/magabrotheeeer/course-platform/internal/config"
	"github.com/magabrotheeeer/course-platform/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	notificationservice "github.com/magabrotheeeer/course-platform/internal/services/notification"
	schedulerservice "github.com/magabrotheeeer/course-platform/internal/services/scheduler"
	"github.com/magabrotheeeer/course-platform/internal/storage/repository"
)

// App приложение планировщика.
type App struct {
	schedulerService *schedulerservice.SchedulerService
	db               *repository.Storage
	broker           *rabbitmq.Link
	logger           *slog.Logger
}

func waitForDB(ctx context.Context, db *repository.Storage) error {
	for range 10 {
		if err := repository.CheckDatabaseReady(ctx, db); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(3 * time.Second):
		}
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает новый экземпляр приложения планировщика.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	broker, err := rabbitmq.Dial(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay, rabbitmq.GetNotificationQueues())
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		closeResources(broker, nil, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	if err := waitForDB(ctx, db); err != nil {
		closeResources(broker, db, logger)
		return nil, err
	}

	notifier := notificationservice.NewNotifier(rabbitmq.NewLinkPublisher(broker), logger)
	schedulerService := schedulerservice.NewSchedulerService(db, notifier, cfg.Scheduler, logger)

	return &App{
		schedulerService: schedulerService,
		db:               db,
		broker:           broker,
		logger:           logger,
	}, nil
}

func closeResources(broker *rabbitmq.Link, db *repository.Storage, logger *slog.Logger) {
	if broker != nil {
		if err := broker.Close(); err != nil {
			logger.Error("failed to close broker connection", sl.Err(err))
		}
	}
	if db != nil {
		if err := db.Close(); err != nil {
			logger.Error("failed to close storage", sl.Err(err))
		}
	}
}

// Run запускает задачи и ждёт отмены ctx. Выполняющаяся задача
// дорабатывает до конца перед выходом.
func (a *App) Run(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if err := a.schedulerService.Register(ctx, c); err != nil {
		closeResources(a.broker, a.db, a.logger)
		return err
	}
	c.Start()
	a.logger.Info("scheduler started", slog.Int("jobs", len(c.Entries())))

	<-ctx.Done()
	a.logger.Info("shutting down scheduler service")
	<-c.Stop().Done()

	closeResources(a.broker, a.db, a.logger)
	return nil
}
