package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/course-platform/internal/models"
)

// ToggleSubscription переключает подписку одним оператором: создаёт активную
// запись или инвертирует is_active существующей. Конкурентные вызовы
// сериализуются на уникальном ключе (user_id, course_id), строка всегда одна.
func (s *Storage) ToggleSubscription(ctx context.Context, userID, courseID int64) (bool, error) {
	const op = "storage.ToggleSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return false, err
	}

	query := `INSERT INTO subscriptions (user_id, course_id, is_active)
			  VALUES ($1, $2, TRUE)
			  ON CONFLICT (user_id, course_id)
			  DO UPDATE SET is_active = NOT subscriptions.is_active
			  RETURNING is_active`
	var active bool
	if err := s.DB.QueryRowContext(ctx, query, userID, courseID).Scan(&active); err != nil {
		if isForeignKeyViolation(err) {
			return false, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return active, nil
}

// ListSubscriptions возвращает активные подписки пользователя, новые первыми.
func (s *Storage) ListSubscriptions(ctx context.Context, userID int64) ([]models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, user_id, course_id, is_active, created_at
		FROM subscriptions
		WHERE user_id = $1 AND is_active
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Subscription
	for rows.Next() {
		var sub models.Subscription
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.CourseID, &sub.IsActive, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sub)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// IsSubscribed сообщает, есть ли у пользователя активная подписка на курс.
func (s *Storage) IsSubscribed(ctx context.Context, userID, courseID int64) (bool, error) {
	const op = "storage.IsSubscribed"
	if err := checkCtx(ctx, op); err != nil {
		return false, err
	}

	var exists bool
	err := s.DB.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM subscriptions
			WHERE user_id = $1 AND course_id = $2 AND is_active
		)`, userID, courseID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ListActiveSubscribers возвращает активных пользователей с активной подпиской на курс.
func (s *Storage) ListActiveSubscribers(ctx context.Context, courseID int64) ([]models.Subscriber, error) {
	const op = "storage.ListActiveSubscribers"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT u.id, u.email
		FROM subscriptions s
		JOIN users u ON u.id = s.user_id
		WHERE s.course_id = $1 AND s.is_active AND u.is_active
		ORDER BY u.id`, courseID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Subscriber
	for rows.Next() {
		var sub models.Subscriber
		if err := rows.Scan(&sub.UserID, &sub.Email); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sub)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
