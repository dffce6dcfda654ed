// Package services рассылает письма подписчикам об обновлениях курсов и уроков.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/models"
)

const descriptionPreview = 200

// Repository источник курсов, уроков и подписчиков.
type Repository interface {
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	GetLesson(ctx context.Context, id int64) (*models.Lesson, error)
	ListActiveSubscribers(ctx context.Context, courseID int64) ([]models.Subscriber, error)
}

// Mailer отправляет одно письмо.
type Mailer interface {
	Send(to []string, subject, body string) error
}

// SenderService обрабатывает сообщения очередей уведомлений.
type SenderService struct {
	repo        Repository
	mailer      Mailer
	siteURL     string
	quietPeriod time.Duration
	log         *slog.Logger
	now         func() time.Time
}

// NewSenderService создает новый экземпляр SenderService.
// Уведомление об уроке не отправляется, если курс обновлялся позже чем quietPeriod назад.
func NewSenderService(repo Repository, mailer Mailer, siteURL string, quietPeriod time.Duration, log *slog.Logger) *SenderService {
	return &SenderService{
		repo:        repo,
		mailer:      mailer,
		siteURL:     strings.TrimRight(siteURL, "/"),
		quietPeriod: quietPeriod,
		log:         log,
		now:         time.Now,
	}
}

func decode(body []byte) (models.UpdateNotification, error) {
	var msg models.UpdateNotification
	if err := json.Unmarshal(body, &msg); err != nil {
		return msg, fmt.Errorf("error unmarshalling message: %w", err)
	}
	return msg, nil
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= descriptionPreview {
		return s
	}
	return string(r[:descriptionPreview]) + "..."
}

// HandleCourseUpdated рассылает уведомление об обновлении курса.
func (s *SenderService) HandleCourseUpdated(ctx context.Context, body []byte) error {
	const op = "services.sender.HandleCourseUpdated"
	msg, err := decode(body)
	if err != nil {
		s.log.Error("failed to decode message", slog.String("op", op), sl.Err(err))
		return err
	}
	log := s.log.With(slog.String("op", op), slog.String("message_id", msg.ID), slog.Int64("course_id", msg.EntityID))

	course, err := s.repo.GetCourse(ctx, msg.EntityID)
	if errors.Is(err, models.ErrNotFound) {
		log.Info("course does not exist, skipping")
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	subject := "Обновление курса: " + course.Title
	text := fmt.Sprintf(
		"Уважаемый подписчик!\n\n"+
			"Курс \"%s\" был обновлен.\n"+
			"Последнее обновление: %s\n\n"+
			"Описание курса: %s\n\n"+
			"Перейдите по ссылке для просмотра: %s/courses/%d/\n\n"+
			"С уважением,\nКоманда LMS",
		course.Title,
		course.UpdatedAt.Format(time.RFC822),
		preview(course.Description),
		s.siteURL, course.ID,
	)
	return s.notify(ctx, log, course.ID, subject, text)
}

// HandleLessonUpdated рассылает уведомление об обновлении урока подписчикам его курса.
func (s *SenderService) HandleLessonUpdated(ctx context.Context, body []byte) error {
	const op = "services.sender.HandleLessonUpdated"
	msg, err := decode(body)
	if err != nil {
		s.log.Error("failed to decode message", slog.String("op", op), sl.Err(err))
		return err
	}
	log := s.log.With(slog.String("op", op), slog.String("message_id", msg.ID), slog.Int64("lesson_id", msg.EntityID))

	lesson, err := s.repo.GetLesson(ctx, msg.EntityID)
	if errors.Is(err, models.ErrNotFound) {
		log.Info("lesson does not exist, skipping")
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	course, err := s.repo.GetCourse(ctx, lesson.CourseID)
	if errors.Is(err, models.ErrNotFound) {
		log.Info("course does not exist, skipping")
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if course.UpdatedAt.After(s.now().Add(-s.quietPeriod)) {
		log.Info("course was updated recently, skipping lesson notification",
			slog.Time("course_updated_at", course.UpdatedAt))
		return nil
	}

	subject := "Обновлен урок в курсе: " + course.Title
	text := fmt.Sprintf(
		"Уважаемый подписчик!\n\n"+
			"В курсе \"%s\" обновлен урок: %s\n"+
			"Последнее обновление урока: %s\n\n"+
			"Описание урока: %s\n\n"+
			"Перейдите по ссылке для просмотра: %s/lessons/%d/\n\n"+
			"С уважением,\nКоманда LMS",
		course.Title, lesson.Title,
		lesson.UpdatedAt.Format(time.RFC822),
		preview(lesson.Description),
		s.siteURL, lesson.ID,
	)
	return s.notify(ctx, log, course.ID, subject, text)
}

// notify отправляет письмо каждому активному подписчику курса.
// Ошибка возвращается, только если не удалось отправить ни одного письма,
// чтобы повторная доставка не дублировала письма.
func (s *SenderService) notify(ctx context.Context, log *slog.Logger, courseID int64, subject, text string) error {
	subscribers, err := s.repo.ListActiveSubscribers(ctx, courseID)
	if err != nil {
		return fmt.Errorf("services.sender.notify: %w", err)
	}
	if len(subscribers) == 0 {
		log.Info("no active subscribers")
		return nil
	}

	var sent int
	var lastErr error
	for _, sub := range subscribers {
		if err := s.mailer.Send([]string{sub.Email}, subject, text); err != nil {
			log.Error("failed to send email", slog.Int64("user_id", sub.UserID), sl.Err(err))
			lastErr = err
			continue
		}
		sent++
	}
	if sent == 0 {
		return fmt.Errorf("services.sender.notify: %w", lastErr)
	}
	log.Info("notifications sent", slog.Int("sent", sent), slog.Int("subscribers", len(subscribers)))
	return nil
}
