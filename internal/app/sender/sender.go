// Package sender читает очереди уведомлений и рассылает письма подписчикам.
package sender

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/course-platform/internal/config"
	"github.com/magabrotheeeer/course-platform/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/lib/smtp"
	senderservice "github.com/magabrotheeeer/course-platform/internal/services/sender"
	"github.com/magabrotheeeer/course-platform/internal/storage/repository"
)

// App рассыльщик уведомлений.
type App struct {
	db            *repository.Storage
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New подключает хранилище, брокер и SMTP.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		_ = db.Close()
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	mailer := smtp.NewMailer(smtp.NewTransport(cfg.SMTP, logger))
	senderService := senderservice.NewSenderService(db, mailer, cfg.SiteURL, cfg.LessonQuietPeriod, logger)

	return &App{
		db:            db,
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run читает обе очереди до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	handlers := map[string]rabbitmq.Handler{
		"notifications.course_updated": a.senderService.HandleCourseUpdated,
		"notifications.lesson_updated": a.senderService.HandleLessonUpdated,
	}
	for _, q := range rabbitmq.GetNotificationQueues() {
		if err := rabbitmq.ConsumerMessage(ctx, a.logger, a.ch, q.QueueName, handlers[q.QueueName]); err != nil {
			a.logger.Error("failed to start consumer", slog.String("queue", q.QueueName), sl.Err(err))
			a.close()
			return err
		}
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")
	a.close()
	return nil
}

func (a *App) close() {
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
