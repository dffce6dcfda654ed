// Package permission реализует правила доступа к курсам и урокам.
//
// Проверка двухэтапная: HasPermission вызывается до загрузки ресурса,
// HasObjectPermission после, когда известен владелец. Правила одинаковы
// для курсов и уроков; родительский курс урока не учитывается.
package permission

import "github.com/magabrotheeeer/course-platform/internal/models"

// Role роль пользователя, вычисляется один раз на запрос.
type Role int

const (
	// Plain обычный пользователь.
	Plain Role = iota
	// Moderator член группы moderators.
	Moderator
)

func (r Role) String() string {
	if r == Moderator {
		return "moderator"
	}
	return "user"
}

// RoleFor вычисляет роль пользователя по членству в группах.
func RoleFor(u *models.User) Role {
	if u != nil && u.InGroup(models.ModeratorsGroup) {
		return Moderator
	}
	return Plain
}

// Action действие над ресурсом.
type Action string

// Действия над курсами и уроками.
const (
	List   Action = "list"
	Read   Action = "read"
	Create Action = "create"
	Update Action = "update"
	Delete Action = "delete"
)

// Kind тип ресурса.
type Kind string

// Типы ресурсов с владельцем.
const (
	KindCourse Kind = "course"
	KindLesson Kind = "lesson"
)

// Actor субъект запроса.
type Actor struct {
	UserID        int64
	Email         string
	Role          Role
	Authenticated bool
}

// Anonymous неаутентифицированный субъект.
var Anonymous = Actor{}

// IsModerator сообщает, что субъект аутентифицирован и является модератором.
func (a Actor) IsModerator() bool {
	return a.Authenticated && a.Role == Moderator
}

// Resource ресурс с владельцем. OwnerID nil, если владелец удалён.
type Resource struct {
	Kind    Kind
	ID      int64
	OwnerID *int64
}

// CourseResource описывает курс для проверки доступа.
func CourseResource(c *models.Course) Resource {
	return Resource{Kind: KindCourse, ID: c.ID, OwnerID: c.OwnerID}
}

// LessonResource описывает урок для проверки доступа.
func LessonResource(l *models.Lesson) Resource {
	return Resource{Kind: KindLesson, ID: l.ID, OwnerID: l.OwnerID}
}

// IsOwner сообщает, что субъект владеет ресурсом.
func (a Actor) IsOwner(r Resource) bool {
	return a.Authenticated && r.OwnerID != nil && *r.OwnerID == a.UserID
}

// HasPermission грубая проверка до загрузки ресурса.
// Модератору запрещено создавать, неаутентифицированному запрещено всё.
func HasPermission(actor Actor, action Action) bool {
	if !actor.Authenticated {
		return false
	}
	switch action {
	case List, Read, Update, Delete:
		return true
	case Create:
		return actor.Role != Moderator
	}
	return false
}

// HasObjectPermission проверка над загруженным ресурсом.
// Удалять может только владелец, в том числе владелец-модератор.
func HasObjectPermission(actor Actor, action Action, r Resource) bool {
	if !actor.Authenticated {
		return false
	}
	switch action {
	case List, Read:
		return true
	case Create:
		return actor.Role != Moderator
	case Update:
		return actor.IsOwner(r) || actor.Role == Moderator
	case Delete:
		return actor.IsOwner(r)
	}
	return false
}

// Authorize объединяет обе проверки для уже загруженного ресурса.
func Authorize(actor Actor, action Action, r Resource) bool {
	return HasPermission(actor, action) && HasObjectPermission(actor, action, r)
}
