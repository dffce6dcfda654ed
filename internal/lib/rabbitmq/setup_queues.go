// Package rabbitmq подключается к брокеру, объявляет обменник уведомлений
// и публикует и потребляет JSON-сообщения.
package rabbitmq

// Exchange direct-обменник уведомлений.
const Exchange = "notifications"

// Ключи маршрутизации событий каталога.
const (
	RoutingCourseUpdated = "course.updated"
	RoutingLessonUpdated = "lesson.updated"
)

// QueueConfig очередь и ключ, которым она привязана к Exchange.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues очереди, которые читает рассыльщик.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notifications.course_updated", RoutingKey: RoutingCourseUpdated},
		{QueueName: "notifications.lesson_updated", RoutingKey: RoutingLessonUpdated},
	}
}
