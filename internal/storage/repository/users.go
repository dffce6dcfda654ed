package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/magabrotheeeer/course-platform/internal/models"
)

const userColumns = `id, email, password_hash, phone, city, avatar, is_staff, is_superuser,
	is_active, last_login, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var lastLogin sql.NullTime
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Phone, &u.City, &u.Avatar,
		&u.IsStaff, &u.IsSuperuser, &u.IsActive, &lastLogin, &u.CreatedAt); err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		u.LastLogin = &lastLogin.Time
	}
	return u, nil
}

// CreateUser сохраняет пользователя и возвращает его ID.
// Занятый email даёт models.ErrEmailTaken.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (int64, error) {
	const op = "storage.CreateUser"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	query := `INSERT INTO users (email, password_hash, phone, city)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var id int64
	err := s.DB.QueryRowContext(ctx, query,
		strings.ToLower(user.Email), user.PasswordHash, user.Phone, user.City).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%s: %w", op, models.ErrEmailTaken)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// GetUserByEmail возвращает пользователя с группами по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	row := s.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email))
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(op, err)
	}
	if u.Groups, err = s.userGroups(ctx, u.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByID возвращает пользователя с группами по ID.
func (s *Storage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.GetUserByID"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	row := s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(op, err)
	}
	if u.Groups, err = s.userGroups(ctx, u.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func (s *Storage) userGroups(ctx context.Context, userID int64) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT group_name FROM user_groups WHERE user_id = $1 ORDER BY group_name`, userID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var groups []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// AddUserToGroup добавляет пользователя в группу. Повторное добавление ничего не меняет.
func (s *Storage) AddUserToGroup(ctx context.Context, userID int64, group string) error {
	const op = "storage.AddUserToGroup"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO user_groups (user_id, group_name) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`, userID, group)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateProfile меняет заданные поля профиля и возвращает пользователя.
func (s *Storage) UpdateProfile(ctx context.Context, userID int64, upd models.ProfileUpdate) (*models.User, error) {
	const op = "storage.UpdateProfile"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE users
			  SET phone = COALESCE($2, phone),
			      city = COALESCE($3, city),
			      avatar = COALESCE($4, avatar)
			  WHERE id = $1
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userID, upd.Phone, upd.City, upd.Avatar))
	if err != nil {
		return nil, notFound(op, err)
	}
	if u.Groups, err = s.userGroups(ctx, u.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// TouchLastLogin записывает время последнего входа.
func (s *Storage) TouchLastLogin(ctx context.Context, userID int64, at time.Time) error {
	const op = "storage.TouchLastLogin"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	if _, err := s.DB.ExecContext(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, userID, at); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeactivateInactiveUsers отключает активных пользователей, последний вход которых раньше since.
// Пользователи, ни разу не входившие, не затрагиваются.
func (s *Storage) DeactivateInactiveUsers(ctx context.Context, since time.Time) (int64, error) {
	const op = "storage.DeactivateInactiveUsers"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	res, err := s.DB.ExecContext(ctx, `
		UPDATE users
		SET is_active = FALSE
		WHERE is_active
		  AND last_login IS NOT NULL
		  AND last_login < $1`, since)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
