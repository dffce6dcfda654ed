package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/course-platform/internal/models"
)

func ptr(v int64) *int64 { return &v }

var (
	plainOwner    = Actor{UserID: 1, Role: Plain, Authenticated: true}
	plainStranger = Actor{UserID: 2, Role: Plain, Authenticated: true}
	moderator     = Actor{UserID: 3, Role: Moderator, Authenticated: true}
	modOwner      = Actor{UserID: 4, Role: Moderator, Authenticated: true}
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name   string
		actor  Actor
		action Action
		want   bool
	}{
		{"anonymous list", Anonymous, List, false},
		{"anonymous read", Anonymous, Read, false},
		{"anonymous create", Anonymous, Create, false},
		{"plain list", plainStranger, List, true},
		{"plain create", plainStranger, Create, true},
		{"plain update passes coarse check", plainStranger, Update, true},
		{"moderator create", moderator, Create, false},
		{"moderator update", moderator, Update, true},
		{"moderator read", moderator, Read, true},
		{"unknown action", plainOwner, Action("publish"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasPermission(tt.actor, tt.action))
		})
	}
}

func TestHasObjectPermission_DecisionTable(t *testing.T) {
	for _, kind := range []Kind{KindCourse, KindLesson} {
		owned := Resource{Kind: kind, ID: 10, OwnerID: ptr(plainOwner.UserID)}
		modOwned := Resource{Kind: kind, ID: 11, OwnerID: ptr(modOwner.UserID)}
		orphan := Resource{Kind: kind, ID: 12}

		tests := []struct {
			name   string
			actor  Actor
			action Action
			res    Resource
			want   bool
		}{
			{"owner read", plainOwner, Read, owned, true},
			{"stranger read", plainStranger, Read, owned, true},
			{"owner update", plainOwner, Update, owned, true},
			{"owner delete", plainOwner, Delete, owned, true},
			{"stranger update", plainStranger, Update, owned, false},
			{"stranger delete", plainStranger, Delete, owned, false},
			{"moderator update foreign", moderator, Update, owned, true},
			{"moderator delete foreign", moderator, Delete, owned, false},
			{"moderator owner delete", modOwner, Delete, modOwned, true},
			{"moderator owner update", modOwner, Update, modOwned, true},
			{"orphan update by plain", plainOwner, Update, orphan, false},
			{"orphan delete by moderator", moderator, Delete, orphan, false},
			{"orphan update by moderator", moderator, Update, orphan, true},
			{"anonymous read", Anonymous, Read, owned, false},
			{"anonymous delete orphan", Anonymous, Delete, orphan, false},
		}
		for _, tt := range tests {
			t.Run(string(kind)+"/"+tt.name, func(t *testing.T) {
				assert.Equal(t, tt.want, HasObjectPermission(tt.actor, tt.action, tt.res))
			})
		}
	}
}

func TestAuthorize_ModeratorNeverCreatesOrDeletesForeign(t *testing.T) {
	for _, kind := range []Kind{KindCourse, KindLesson} {
		for _, owner := range []*int64{nil, ptr(1), ptr(2)} {
			r := Resource{Kind: kind, OwnerID: owner}
			assert.False(t, Authorize(moderator, Create, r))
			assert.False(t, Authorize(moderator, Delete, r))
			assert.True(t, Authorize(moderator, Update, r))
		}
	}
}

func TestAuthorize_AnonymousDeniedEverything(t *testing.T) {
	r := Resource{Kind: KindCourse, OwnerID: ptr(0)}
	for _, action := range []Action{List, Read, Create, Update, Delete} {
		assert.False(t, Authorize(Anonymous, action, r), action)
	}
}

func TestRoleFor(t *testing.T) {
	assert.Equal(t, Plain, RoleFor(nil))
	assert.Equal(t, Plain, RoleFor(&models.User{Groups: []string{"editors"}}))
	assert.Equal(t, Moderator, RoleFor(&models.User{Groups: []string{"editors", models.ModeratorsGroup}}))
}

func TestResourceFromModels(t *testing.T) {
	c := &models.Course{ID: 5, OwnerID: ptr(9)}
	l := &models.Lesson{ID: 6, CourseID: 5, OwnerID: ptr(8)}

	assert.Equal(t, Resource{Kind: KindCourse, ID: 5, OwnerID: ptr(9)}, CourseResource(c))
	assert.Equal(t, Resource{Kind: KindLesson, ID: 6, OwnerID: ptr(8)}, LessonResource(l))
	// владелец курса не получает прав на чужой урок этого курса
	owner := Actor{UserID: 9, Authenticated: true}
	assert.False(t, Authorize(owner, Update, LessonResource(l)))
}
