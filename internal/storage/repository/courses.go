package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/course-platform/internal/models"
)

const courseColumns = `c.id, c.title, c.description, c.preview, c.price, c.owner_id,
	(SELECT COUNT(*) FROM lessons l WHERE l.course_id = c.id), c.created_at, c.updated_at`

func scanCourse(row interface{ Scan(...any) error }) (*models.Course, error) {
	c := &models.Course{}
	var price, owner sql.NullInt64
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Preview, &price, &owner,
		&c.LessonsCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Price = int64Ptr(price)
	c.OwnerID = int64Ptr(owner)
	return c, nil
}

// CreateCourse сохраняет курс и возвращает его с присвоенным ID.
func (s *Storage) CreateCourse(ctx context.Context, course models.Course) (*models.Course, error) {
	const op = "storage.CreateCourse"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO courses AS c (title, description, preview, price, owner_id)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING ` + courseColumns
	created, err := scanCourse(s.DB.QueryRowContext(ctx, query,
		course.Title, course.Description, course.Preview, nullInt64(course.Price), nullInt64(course.OwnerID)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// GetCourse возвращает курс по ID.
func (s *Storage) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	const op = "storage.GetCourse"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	c, err := scanCourse(s.DB.QueryRowContext(ctx,
		`SELECT `+courseColumns+` FROM courses c WHERE c.id = $1`, id))
	if err != nil {
		return nil, notFound(op, err)
	}
	return c, nil
}

// ListCourses возвращает страницу курсов по возрастанию ID и общее количество.
func (s *Storage) ListCourses(ctx context.Context, page models.Page) ([]models.Course, int, error) {
	const op = "storage.ListCourses"
	if err := checkCtx(ctx, op); err != nil {
		return nil, 0, err
	}

	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+courseColumns+` FROM courses c ORDER BY c.id LIMIT $1 OFFSET $2`,
		pageLimit(page), page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *c)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}

// UpdateCourse сохраняет изменяемые поля курса и обновляет updated_at.
func (s *Storage) UpdateCourse(ctx context.Context, course models.Course) (*models.Course, error) {
	const op = "storage.UpdateCourse"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE courses AS c
			  SET title = $2, description = $3, preview = $4, price = $5, updated_at = NOW()
			  WHERE c.id = $1
			  RETURNING ` + courseColumns
	updated, err := scanCourse(s.DB.QueryRowContext(ctx, query,
		course.ID, course.Title, course.Description, course.Preview, nullInt64(course.Price)))
	if err != nil {
		return nil, notFound(op, err)
	}
	return updated, nil
}

// DeleteCourse удаляет курс вместе с уроками.
func (s *Storage) DeleteCourse(ctx context.Context, id int64) error {
	const op = "storage.DeleteCourse"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
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

// ListCoursesUpdatedSince возвращает ID курсов, изменённых начиная с since.
func (s *Storage) ListCoursesUpdatedSince(ctx context.Context, since time.Time) ([]int64, error) {
	const op = "storage.ListCoursesUpdatedSince"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id FROM courses WHERE updated_at >= $1 ORDER BY id`, since)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ids, nil
}
