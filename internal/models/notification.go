package models

import "time"

// Виды уведомлений об изменениях каталога.
const (
	NotificationCourseUpdated = "course.updated"
	NotificationLessonUpdated = "lesson.updated"
)

// UpdateNotification сообщение в очереди уведомлений.
// EntityID ссылается на курс или урок в зависимости от Kind.
type UpdateNotification struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	EntityID   int64     `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
