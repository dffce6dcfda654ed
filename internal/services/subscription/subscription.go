// Package services реализует журнал подписок пользователей на курсы.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/permission"
)

// CourseReader читает курс для проверки владельца.
type CourseReader interface {
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
}

// SubscriptionRepository хранилище подписок.
type SubscriptionRepository interface {
	// ToggleSubscription атомарно создаёт подписку или переключает её активность.
	ToggleSubscription(ctx context.Context, userID, courseID int64) (bool, error)
	ListSubscriptions(ctx context.Context, userID int64) ([]models.Subscription, error)
	IsSubscribed(ctx context.Context, userID, courseID int64) (bool, error)
}

// SubscriptionService единственная точка изменения подписок.
type SubscriptionService struct {
	courses CourseReader
	subs    SubscriptionRepository
	log     *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(courses CourseReader, subs SubscriptionRepository, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		courses: courses,
		subs:    subs,
		log:     log,
	}
}

// Toggle подписывает субъекта на курс или снимает активную подписку.
// Подписка на собственный курс запрещена.
func (s *SubscriptionService) Toggle(ctx context.Context, actor permission.Actor, courseID int64) (models.ToggleResult, error) {
	const op = "services.subscription.Toggle"
	if !actor.Authenticated {
		return models.ToggleResult{}, fmt.Errorf("%s: %w", op, models.ErrUnauthenticated)
	}
	course, err := s.courses.GetCourse(ctx, courseID)
	if err != nil {
		return models.ToggleResult{}, fmt.Errorf("%s: %w", op, err)
	}
	if actor.IsOwner(permission.CourseResource(course)) {
		return models.ToggleResult{}, fmt.Errorf("%s: %w", op, models.ErrSelfSubscription)
	}
	subscribed, err := s.subs.ToggleSubscription(ctx, actor.UserID, courseID)
	if err != nil {
		return models.ToggleResult{}, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("subscription toggled",
		slog.Int64("user_id", actor.UserID),
		slog.Int64("course_id", courseID),
		slog.Bool("subscribed", subscribed),
	)
	return models.ToggleResult{CourseID: courseID, Subscribed: subscribed}, nil
}

// List возвращает активные подписки субъекта, новые первыми.
func (s *SubscriptionService) List(ctx context.Context, actor permission.Actor) ([]models.Subscription, error) {
	const op = "services.subscription.List"
	if !actor.Authenticated {
		return nil, fmt.Errorf("%s: %w", op, models.ErrUnauthenticated)
	}
	subs, err := s.subs.ListSubscriptions(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if subs == nil {
		subs = []models.Subscription{}
	}
	return subs, nil
}

// IsSubscribed сообщает, есть ли у субъекта активная подписка на курс.
func (s *SubscriptionService) IsSubscribed(ctx context.Context, actor permission.Actor, courseID int64) (bool, error) {
	const op = "services.subscription.IsSubscribed"
	if !actor.Authenticated {
		return false, nil
	}
	ok, err := s.subs.IsSubscribed(ctx, actor.UserID, courseID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return ok, nil
}
