// Package services содержит логику регистрации, входа и аутентификации пользователей.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/course-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/course-platform/internal/lib/password"
	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/permission"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его ID.
	CreateUser(ctx context.Context, user models.User) (int64, error)

	// GetUserByEmail возвращает пользователя по email или models.ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID возвращает пользователя вместе с группами.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	UpdateProfile(ctx context.Context, userID int64, upd models.ProfileUpdate) (*models.User, error)
	TouchLastLogin(ctx context.Context, userID int64, at time.Time) error
	DeactivateInactiveUsers(ctx context.Context, since time.Time) (int64, error)
}

// AuthService отвечает за регистрацию, вход и разбор JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Register создает активного пользователя с хэшированным паролем.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (int64, error) {
	const op = "services.auth.Register"
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hashed,
		Phone:        req.Phone,
		City:         req.City,
		IsActive:     true,
	}
	id, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// Login проверяет пароль и выпускает токен доступа.
// Неизвестный email и неверный пароль неразличимы для клиента.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, error) {
	const op = "services.auth.Login"
	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}
	if !user.IsActive {
		return "", fmt.Errorf("%s: %w", op, models.ErrUserInactive)
	}
	token, err := s.jwtMaker.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.TouchLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		s.log.Warn("failed to update last login", slog.Int64("user_id", user.ID), sl.Err(err))
	}
	return token, nil
}

// Authenticate разбирает токен и возвращает субъект запроса.
// Роль и признак активности берутся из хранилища, а не из токена.
func (s *AuthService) Authenticate(ctx context.Context, token string) (permission.Actor, error) {
	const op = "services.auth.Authenticate"
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return permission.Anonymous, fmt.Errorf("%s: %w: %v", op, models.ErrUnauthenticated, err)
	}
	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return permission.Anonymous, fmt.Errorf("%s: %w", op, models.ErrUnauthenticated)
		}
		return permission.Anonymous, fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		return permission.Anonymous, fmt.Errorf("%s: %w: %v", op, models.ErrUnauthenticated, models.ErrUserInactive)
	}
	return permission.Actor{
		UserID:        user.ID,
		Email:         user.Email,
		Role:          permission.RoleFor(user),
		Authenticated: true,
	}, nil
}

// GetProfile возвращает профиль текущего пользователя.
func (s *AuthService) GetProfile(ctx context.Context, actor permission.Actor) (*models.User, error) {
	const op = "services.auth.GetProfile"
	if !actor.Authenticated {
		return nil, fmt.Errorf("%s: %w", op, models.ErrUnauthenticated)
	}
	user, err := s.users.GetUserByID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// UpdateProfile меняет контактные поля текущего пользователя.
func (s *AuthService) UpdateProfile(ctx context.Context, actor permission.Actor, upd models.ProfileUpdate) (*models.User, error) {
	const op = "services.auth.UpdateProfile"
	if !actor.Authenticated {
		return nil, fmt.Errorf("%s: %w", op, models.ErrUnauthenticated)
	}
	user, err := s.users.UpdateProfile(ctx, actor.UserID, upd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// DeactivateInactive выключает пользователей, не входивших с момента since.
func (s *AuthService) DeactivateInactive(ctx context.Context, since time.Time) (int64, error) {
	const op = "services.auth.DeactivateInactive"
	n, err := s.users.DeactivateInactiveUsers(ctx, since)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
