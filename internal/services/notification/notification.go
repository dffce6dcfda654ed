// Package services публикует события об изменениях каталога в очередь уведомлений.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/course-platform/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

// Publisher отправляет сообщение с ключом маршрутизации.
type Publisher interface {
	Publish(ctx context.Context, routingKey, messageID string, message any) error
}

// Notifier формирует сообщения об обновлении курсов и уроков.
type Notifier struct {
	publisher Publisher
	log       *slog.Logger
	now       func() time.Time
}

// NewNotifier создаёт Notifier поверх publisher.
func NewNotifier(publisher Publisher, log *slog.Logger) *Notifier {
	return &Notifier{
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// CourseUpdated публикует событие course.updated.
func (n *Notifier) CourseUpdated(ctx context.Context, courseID int64) error {
	return n.publish(ctx, rabbitmq.RoutingCourseUpdated, models.NotificationCourseUpdated, courseID)
}

// LessonUpdated публикует событие lesson.updated.
func (n *Notifier) LessonUpdated(ctx context.Context, lessonID int64) error {
	return n.publish(ctx, rabbitmq.RoutingLessonUpdated, models.NotificationLessonUpdated, lessonID)
}

func (n *Notifier) publish(ctx context.Context, routingKey, kind string, entityID int64) error {
	const op = "services.notification.publish"
	msg := models.UpdateNotification{
		ID:         uuid.NewString(),
		Kind:       kind,
		EntityID:   entityID,
		OccurredAt: n.now().UTC(),
	}
	if err := n.publisher.Publish(ctx, routingKey, msg.ID, msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n.log.Debug("notification published", slog.String("kind", kind), slog.Int64("entity_id", entityID))
	return nil
}
