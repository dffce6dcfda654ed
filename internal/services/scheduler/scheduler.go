// Package services содержит периодические задачи: рассылку о недавно
// обновлённых курсах и отключение неактивных пользователей.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/magabrotheeeer/course-platform/internal/config"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
)

// pendingWindow окно, за которое собираются обновлённые курсы.
const pendingWindow = time.Hour

// Repository источник данных для задач планировщика.
type Repository interface {
	ListCoursesUpdatedSince(ctx context.Context, since time.Time) ([]int64, error)
	DeactivateInactiveUsers(ctx context.Context, since time.Time) (int64, error)
}

// CourseNotifier публикует событие об обновлении курса.
type CourseNotifier interface {
	CourseUpdated(ctx context.Context, courseID int64) error
}

// SchedulerService задачи планировщика.
type SchedulerService struct {
	repo     Repository
	notifier CourseNotifier
	cfg      config.Scheduler
	log      *slog.Logger
	now      func() time.Time
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo Repository, notifier CourseNotifier, cfg config.Scheduler, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo:     repo,
		notifier: notifier,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// Register добавляет задачи в cron по расписаниям из конфига.
func (s *SchedulerService) Register(ctx context.Context, c *cron.Cron) error {
	const op = "services.scheduler.Register"
	if _, err := c.AddFunc(s.cfg.PendingNotificationsSpec, func() {
		if _, err := s.SendPendingNotifications(ctx); err != nil {
			s.log.Error("pending notifications job failed", sl.Err(err))
		}
	}); err != nil {
		return fmt.Errorf("%s: pending notifications: %w", op, err)
	}
	if _, err := c.AddFunc(s.cfg.InactiveUsersSpec, func() {
		if _, err := s.DeactivateInactiveUsers(ctx); err != nil {
			s.log.Error("inactive users job failed", sl.Err(err))
		}
	}); err != nil {
		return fmt.Errorf("%s: inactive users: %w", op, err)
	}
	return nil
}

// SendPendingNotifications публикует course.updated для курсов, обновлённых за последний час.
// Возвращает число опубликованных событий.
func (s *SchedulerService) SendPendingNotifications(ctx context.Context) (int, error) {
	const op = "services.scheduler.SendPendingNotifications"
	s.log.Info("starting pending notifications job")
	ids, err := s.repo.ListCoursesUpdatedSince(ctx, s.now().UTC().Add(-pendingWindow))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if len(ids) == 0 {
		s.log.Info("no recently updated courses found")
		return 0, nil
	}

	published := 0
	for _, id := range ids {
		if err := s.notifier.CourseUpdated(ctx, id); err != nil {
			s.log.Error("failed to publish message", slog.Int64("course_id", id), sl.Err(err))
			continue
		}
		published++
	}
	s.log.Info("pending notifications published", slog.Int("count", published), slog.Int("found", len(ids)))
	return published, nil
}

// DeactivateInactiveUsers отключает пользователей, не входивших дольше InactiveAfter.
func (s *SchedulerService) DeactivateInactiveUsers(ctx context.Context) (int64, error) {
	const op = "services.scheduler.DeactivateInactiveUsers"
	since := s.now().UTC().Add(-s.cfg.InactiveAfter)
	n, err := s.repo.DeactivateInactiveUsers(ctx, since)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("deactivated inactive users", slog.Int64("count", n))
	return n, nil
}
