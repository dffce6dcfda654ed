// Package services реализует каталог курсов и уроков с проверкой прав доступа.
//
// Каждая операция проходит грубую проверку до загрузки ресурса и
// объектную проверку после. Карточка курса кэшируется в redis.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/magabrotheeeer/course-platform/internal/cache"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/lib/videourl"
	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/permission"
)

// Размеры страниц по умолчанию и максимальные.
const (
	CoursePageSize    = 5
	CoursePageSizeMax = 50
	LessonPageSize    = 10
	LessonPageSizeMax = 100
)

// CourseRepository хранилище курсов.
type CourseRepository interface {
	CreateCourse(ctx context.Context, course models.Course) (*models.Course, error)
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	ListCourses(ctx context.Context, page models.Page) ([]models.Course, int, error)
	UpdateCourse(ctx context.Context, course models.Course) (*models.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
}

// LessonRepository хранилище уроков.
type LessonRepository interface {
	CreateLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error)
	GetLesson(ctx context.Context, id int64) (*models.Lesson, error)
	ListLessons(ctx context.Context, courseID *int64, page models.Page) ([]models.Lesson, int, error)
	UpdateLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error)
	DeleteLesson(ctx context.Context, id int64) error
}

// SubscriptionChecker проверяет подписку для пометки карточки курса.
type SubscriptionChecker interface {
	IsSubscribed(ctx context.Context, userID, courseID int64) (bool, error)
}

// Cache кэш карточек курсов.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// Notifier получает сигналы об обновлении каталога.
type Notifier interface {
	CourseUpdated(ctx context.Context, courseID int64) error
	LessonUpdated(ctx context.Context, lessonID int64) error
}

// CatalogService операции над курсами и уроками.
type CatalogService struct {
	courses   CourseRepository
	lessons   LessonRepository
	subs      SubscriptionChecker
	cache     Cache
	notifier  Notifier
	log       *slog.Logger
	courseTTL time.Duration
	strict    *bluemonday.Policy
	ugc       *bluemonday.Policy
}

// NewCatalogService создаёт CatalogService.
func NewCatalogService(
	courses CourseRepository,
	lessons LessonRepository,
	subs SubscriptionChecker,
	cache Cache,
	notifier Notifier,
	log *slog.Logger,
	courseTTL time.Duration,
) *CatalogService {
	return &CatalogService{
		courses:   courses,
		lessons:   lessons,
		subs:      subs,
		cache:     cache,
		notifier:  notifier,
		log:       log,
		courseTTL: courseTTL,
		strict:    bluemonday.StrictPolicy(),
		ugc:       bluemonday.UGCPolicy(),
	}
}

// deny возвращает ошибку отказа: 401 для анонима, 403 для остальных.
func deny(op string, actor permission.Actor) error {
	if !actor.Authenticated {
		return fmt.Errorf("%s: %w", op, models.ErrUnauthenticated)
	}
	return fmt.Errorf("%s: %w", op, models.ErrForbidden)
}

func (s *CatalogService) sanitizeCourse(c *models.Course) {
	c.Title = s.strict.Sanitize(c.Title)
	c.Description = s.ugc.Sanitize(c.Description)
	c.Preview = s.strict.Sanitize(c.Preview)
}

func (s *CatalogService) sanitizeLesson(l *models.Lesson) {
	l.Title = s.strict.Sanitize(l.Title)
	l.Description = s.ugc.Sanitize(l.Description)
	l.Preview = s.strict.Sanitize(l.Preview)
}

func (s *CatalogService) invalidateCourse(ctx context.Context, courseID int64) {
	if err := s.cache.Invalidate(ctx, cache.CourseKey(courseID)); err != nil {
		s.log.Warn("failed to invalidate course cache", slog.Int64("course_id", courseID), sl.Err(err))
	}
}

// ListCourses возвращает страницу курсов.
func (s *CatalogService) ListCourses(ctx context.Context, actor permission.Actor, page models.Page) (models.PageResult[models.Course], error) {
	const op = "services.catalog.ListCourses"
	if !permission.HasPermission(actor, permission.List) {
		return models.PageResult[models.Course]{}, deny(op, actor)
	}
	page = page.Normalize(CoursePageSize, CoursePageSizeMax)
	items, total, err := s.courses.ListCourses(ctx, page)
	if err != nil {
		return models.PageResult[models.Course]{}, fmt.Errorf("%s: %w", op, err)
	}
	return models.NewPageResult(items, total, page), nil
}

// loadDetail читает карточку курса из кэша или из хранилища.
// В кэше карточка хранится без признака подписки.
func (s *CatalogService) loadDetail(ctx context.Context, id int64) (*models.CourseDetail, error) {
	key := cache.CourseKey(id)
	var detail models.CourseDetail
	found, err := s.cache.Get(ctx, key, &detail)
	if err != nil {
		s.log.Warn("failed to read course cache", slog.Int64("course_id", id), sl.Err(err))
	}
	if found {
		return &detail, nil
	}

	course, err := s.courses.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	lessons, _, err := s.lessons.ListLessons(ctx, &id, models.Page{})
	if err != nil {
		return nil, err
	}
	if lessons == nil {
		lessons = []models.Lesson{}
	}
	detail = models.CourseDetail{Course: *course, Lessons: lessons}

	if err := s.cache.Set(ctx, key, detail, s.courseTTL); err != nil {
		s.log.Warn("failed to cache course", slog.Int64("course_id", id), sl.Err(err))
	}
	return &detail, nil
}

// GetCourse возвращает карточку курса с уроками и признаком подписки субъекта.
func (s *CatalogService) GetCourse(ctx context.Context, actor permission.Actor, id int64) (*models.CourseDetail, error) {
	const op = "services.catalog.GetCourse"
	if !permission.HasPermission(actor, permission.Read) {
		return nil, deny(op, actor)
	}
	detail, err := s.loadDetail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !permission.HasObjectPermission(actor, permission.Read, permission.CourseResource(&detail.Course)) {
		return nil, deny(op, actor)
	}
	subscribed, err := s.subs.IsSubscribed(ctx, actor.UserID, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	detail.IsSubscribed = subscribed
	return detail, nil
}

// CreateCourse создаёт курс, владельцем становится субъект.
func (s *CatalogService) CreateCourse(ctx context.Context, actor permission.Actor, in models.CourseInput) (*models.Course, error) {
	const op = "services.catalog.CreateCourse"
	if !permission.HasPermission(actor, permission.Create) {
		return nil, deny(op, actor)
	}
	owner := actor.UserID
	course := models.Course{
		Title:       in.Title,
		Description: in.Description,
		Preview:     in.Preview,
		Price:       in.Price,
		OwnerID:     &owner,
	}
	s.sanitizeCourse(&course)
	created, err := s.courses.CreateCourse(ctx, course)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// UpdateCourse частично обновляет курс.
func (s *CatalogService) UpdateCourse(ctx context.Context, actor permission.Actor, id int64, patch models.CoursePatch) (*models.Course, error) {
	const op = "services.catalog.UpdateCourse"
	return s.updateCourse(ctx, op, actor, id, func(c *models.Course) {
		patch.Apply(c)
	})
}

// ReplaceCourse заменяет все изменяемые поля курса.
func (s *CatalogService) ReplaceCourse(ctx context.Context, actor permission.Actor, id int64, in models.CourseInput) (*models.Course, error) {
	const op = "services.catalog.ReplaceCourse"
	return s.updateCourse(ctx, op, actor, id, func(c *models.Course) {
		in.Patch().Apply(c)
		c.Price = in.Price
	})
}

func (s *CatalogService) updateCourse(ctx context.Context, op string, actor permission.Actor, id int64, mutate func(*models.Course)) (*models.Course, error) {
	if !permission.HasPermission(actor, permission.Update) {
		return nil, deny(op, actor)
	}
	course, err := s.courses.GetCourse(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !permission.HasObjectPermission(actor, permission.Update, permission.CourseResource(course)) {
		return nil, deny(op, actor)
	}
	mutate(course)
	s.sanitizeCourse(course)

	updated, err := s.courses.UpdateCourse(ctx, *course)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidateCourse(ctx, id)
	if err := s.notifier.CourseUpdated(ctx, id); err != nil {
		s.log.Warn("failed to publish course update", slog.String("op", op), slog.Int64("course_id", id), sl.Err(err))
	}
	return updated, nil
}

// DeleteCourse удаляет курс вместе с уроками. Разрешено только владельцу.
func (s *CatalogService) DeleteCourse(ctx context.Context, actor permission.Actor, id int64) error {
	const op = "services.catalog.DeleteCourse"
	if !permission.HasPermission(actor, permission.Delete) {
		return deny(op, actor)
	}
	course, err := s.courses.GetCourse(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !permission.HasObjectPermission(actor, permission.Delete, permission.CourseResource(course)) {
		return deny(op, actor)
	}
	if err := s.courses.DeleteCourse(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidateCourse(ctx, id)
	return nil
}

// ListCourseLessons возвращает страницу уроков курса.
func (s *CatalogService) ListCourseLessons(ctx context.Context, actor permission.Actor, courseID int64, page models.Page) (models.PageResult[models.Lesson], error) {
	const op = "services.catalog.ListCourseLessons"
	if !permission.HasPermission(actor, permission.List) {
		return models.PageResult[models.Lesson]{}, deny(op, actor)
	}
	course, err := s.courses.GetCourse(ctx, courseID)
	if err != nil {
		return models.PageResult[models.Lesson]{}, fmt.Errorf("%s: %w", op, err)
	}
	if !permission.HasObjectPermission(actor, permission.List, permission.CourseResource(course)) {
		return models.PageResult[models.Lesson]{}, deny(op, actor)
	}
	return s.listLessons(ctx, op, &courseID, page)
}

// ListLessons возвращает страницу уроков всех курсов.
func (s *CatalogService) ListLessons(ctx context.Context, actor permission.Actor, page models.Page) (models.PageResult[models.Lesson], error) {
	const op = "services.catalog.ListLessons"
	if !permission.HasPermission(actor, permission.List) {
		return models.PageResult[models.Lesson]{}, deny(op, actor)
	}
	return s.listLessons(ctx, op, nil, page)
}

func (s *CatalogService) listLessons(ctx context.Context, op string, courseID *int64, page models.Page) (models.PageResult[models.Lesson], error) {
	page = page.Normalize(LessonPageSize, LessonPageSizeMax)
	items, total, err := s.lessons.ListLessons(ctx, courseID, page)
	if err != nil {
		return models.PageResult[models.Lesson]{}, fmt.Errorf("%s: %w", op, err)
	}
	return models.NewPageResult(items, total, page), nil
}

// GetLesson возвращает урок.
func (s *CatalogService) GetLesson(ctx context.Context, actor permission.Actor, id int64) (*models.Lesson, error) {
	const op = "services.catalog.GetLesson"
	if !permission.HasPermission(actor, permission.Read) {
		return nil, deny(op, actor)
	}
	lesson, err := s.lessons.GetLesson(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !permission.HasObjectPermission(actor, permission.Read, permission.LessonResource(lesson)) {
		return nil, deny(op, actor)
	}
	return lesson, nil
}

// CreateLesson добавляет урок в курс, владельцем становится субъект.
func (s *CatalogService) CreateLesson(ctx context.Context, actor permission.Actor, in models.LessonInput) (*models.Lesson, error) {
	const op = "services.catalog.CreateLesson"
	if !permission.HasPermission(actor, permission.Create) {
		return nil, deny(op, actor)
	}
	if err := videourl.Validate(in.VideoURL); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.courses.GetCourse(ctx, in.CourseID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	owner := actor.UserID
	lesson := models.Lesson{
		CourseID:    in.CourseID,
		Title:       in.Title,
		Description: in.Description,
		Preview:     in.Preview,
		VideoURL:    in.VideoURL,
		OwnerID:     &owner,
	}
	s.sanitizeLesson(&lesson)
	created, err := s.lessons.CreateLesson(ctx, lesson)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidateCourse(ctx, created.CourseID)
	return created, nil
}

// UpdateLesson частично обновляет урок.
func (s *CatalogService) UpdateLesson(ctx context.Context, actor permission.Actor, id int64, patch models.LessonPatch) (*models.Lesson, error) {
	const op = "services.catalog.UpdateLesson"
	return s.updateLesson(ctx, op, actor, id, patch)
}

// ReplaceLesson заменяет все изменяемые поля урока.
func (s *CatalogService) ReplaceLesson(ctx context.Context, actor permission.Actor, id int64, in models.LessonInput) (*models.Lesson, error) {
	const op = "services.catalog.ReplaceLesson"
	return s.updateLesson(ctx, op, actor, id, in.Patch())
}

func (s *CatalogService) updateLesson(ctx context.Context, op string, actor permission.Actor, id int64, patch models.LessonPatch) (*models.Lesson, error) {
	if !permission.HasPermission(actor, permission.Update) {
		return nil, deny(op, actor)
	}
	lesson, err := s.lessons.GetLesson(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !permission.HasObjectPermission(actor, permission.Update, permission.LessonResource(lesson)) {
		return nil, deny(op, actor)
	}
	patch.Apply(lesson)
	if err := videourl.Validate(lesson.VideoURL); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.sanitizeLesson(lesson)

	updated, err := s.lessons.UpdateLesson(ctx, *lesson)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidateCourse(ctx, updated.CourseID)
	if err := s.notifier.LessonUpdated(ctx, id); err != nil {
		s.log.Warn("failed to publish lesson update", slog.String("op", op), slog.Int64("lesson_id", id), sl.Err(err))
	}
	return updated, nil
}

// DeleteLesson удаляет урок. Разрешено только владельцу.
func (s *CatalogService) DeleteLesson(ctx context.Context, actor permission.Actor, id int64) error {
	const op = "services.catalog.DeleteLesson"
	if !permission.HasPermission(actor, permission.Delete) {
		return deny(op, actor)
	}
	lesson, err := s.lessons.GetLesson(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !permission.HasObjectPermission(actor, permission.Delete, permission.LessonResource(lesson)) {
		return deny(op, actor)
	}
	if err := s.lessons.DeleteLesson(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidateCourse(ctx, lesson.CourseID)
	return nil
}
