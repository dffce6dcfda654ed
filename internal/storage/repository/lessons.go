package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/course-platform/internal/models"
)

const lessonColumns = `id, course_id, title, description, preview, video_url, owner_id, created_at, updated_at`

func scanLesson(row interface{ Scan(...any) error }) (*models.Lesson, error) {
	l := &models.Lesson{}
	var owner sql.NullInt64
	if err := row.Scan(&l.ID, &l.CourseID, &l.Title, &l.Description, &l.Preview, &l.VideoURL,
		&owner, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	l.OwnerID = int64Ptr(owner)
	return l, nil
}

// CreateLesson сохраняет урок. Несуществующий курс даёт models.ErrNotFound.
func (s *Storage) CreateLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error) {
	const op = "storage.CreateLesson"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO lessons (course_id, title, description, preview, video_url, owner_id)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING ` + lessonColumns
	created, err := scanLesson(s.DB.QueryRowContext(ctx, query,
		lesson.CourseID, lesson.Title, lesson.Description, lesson.Preview, lesson.VideoURL,
		nullInt64(lesson.OwnerID)))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// GetLesson возвращает урок по ID.
func (s *Storage) GetLesson(ctx context.Context, id int64) (*models.Lesson, error) {
	const op = "storage.GetLesson"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	l, err := scanLesson(s.DB.QueryRowContext(ctx,
		`SELECT `+lessonColumns+` FROM lessons WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(op, err)
	}
	return l, nil
}

// ListLessons возвращает страницу уроков. courseID nil означает уроки всех курсов.
func (s *Storage) ListLessons(ctx context.Context, courseID *int64, page models.Page) ([]models.Lesson, int, error) {
	const op = "storage.ListLessons"
	if err := checkCtx(ctx, op); err != nil {
		return nil, 0, err
	}

	filter := nullInt64(courseID)
	var total int
	if err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM lessons WHERE $1::BIGINT IS NULL OR course_id = $1`, filter).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+lessonColumns+` FROM lessons
		 WHERE $1::BIGINT IS NULL OR course_id = $1
		 ORDER BY id LIMIT $2 OFFSET $3`,
		filter, pageLimit(page), page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Lesson
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *l)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}

// UpdateLesson сохраняет изменяемые поля урока и обновляет updated_at.
func (s *Storage) UpdateLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error) {
	const op = "storage.UpdateLesson"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE lessons
			  SET title = $2, description = $3, preview = $4, video_url = $5, updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + lessonColumns
	updated, err := scanLesson(s.DB.QueryRowContext(ctx, query,
		lesson.ID, lesson.Title, lesson.Description, lesson.Preview, lesson.VideoURL))
	if err != nil {
		return nil, notFound(op, err)
	}
	return updated, nil
}

// DeleteLesson удаляет урок.
func (s *Storage) DeleteLesson(ctx context.Context, id int64) error {
	const op = "storage.DeleteLesson"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return nil
}
