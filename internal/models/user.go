// Package models содержит доменные структуры платформы курсов:
// пользователей, курсы, уроки, подписки и платежи.
package models

import "time"

// ModeratorsGroup название группы, членство в которой даёт роль модератора.
const ModeratorsGroup = "moderators"

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Phone        string     `json:"phone,omitempty"`
	City         string     `json:"city,omitempty"`
	Avatar       string     `json:"avatar,omitempty"`
	IsStaff      bool       `json:"is_staff"`
	IsSuperuser  bool       `json:"is_superuser"`
	IsActive     bool       `json:"is_active"`
	Groups       []string   `json:"groups,omitempty"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// InGroup сообщает, состоит ли пользователь в группе name.
func (u *User) InGroup(name string) bool {
	for _, g := range u.Groups {
		if g == name {
			return true
		}
	}
	return false
}

// RegisterRequest тело запроса на регистрацию.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,max=35"`
	City     string `json:"city,omitempty" validate:"omitempty,max=50"`
}

// LoginRequest тело запроса на вход.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileUpdate частичное обновление профиля, nil поля не меняются.
type ProfileUpdate struct {
	Phone  *string `json:"phone,omitempty" validate:"omitempty,max=35"`
	City   *string `json:"city,omitempty" validate:"omitempty,max=50"`
	Avatar *string `json:"avatar,omitempty" validate:"omitempty,max=255"`
}
