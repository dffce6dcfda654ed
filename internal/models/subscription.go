package models

import "time"

// Subscription подписка пользователя на курс. Пара (UserID, CourseID) уникальна.
type Subscription struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	CourseID  int64     `json:"course_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// ToggleResult результат переключения подписки.
type ToggleResult struct {
	CourseID   int64 `json:"course_id"`
	Subscribed bool  `json:"subscribed"`
}

// Subscriber адресат рассылки об обновлении курса.
type Subscriber struct {
	UserID int64
	Email  string
}
