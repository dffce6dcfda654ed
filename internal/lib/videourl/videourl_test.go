package videourl

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/course-platform/internal/models"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"empty", "", false},
		{"spaces only", "   ", false},
		{"watch link", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", false},
		{"bare domain watch", "http://youtube.com/watch?v=abc", false},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", false},
		{"mobile subdomain", "https://m.youtube.com/watch?v=abc", false},
		{"uppercase host", "https://WWW.YOUTUBE.COM/watch?v=abc", false},
		{"ftp scheme", "ftp://youtube.com/watch?v=abc", true},
		{"no scheme", "youtube.com/watch?v=abc", true},
		{"foreign host", "https://vimeo.com/12345", true},
		{"lookalike host", "https://notyoutube.com/watch?v=abc", true},
		{"short link without id", "https://youtu.be/", true},
		{"youtube root", "https://www.youtube.com/", true},
		{"youtube no path", "https://youtube.com", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.url)
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrInvalidVideoURL)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatorTag(t *testing.T) {
	v := NewValidator()

	ok := models.LessonInput{CourseID: 1, Title: "Intro", VideoURL: "https://youtu.be/abc"}
	assert.NoError(t, v.Struct(ok))

	empty := models.LessonInput{CourseID: 1, Title: "Intro"}
	assert.NoError(t, v.Struct(empty))

	bad := models.LessonInput{CourseID: 1, Title: "Intro", VideoURL: "https://vimeo.com/1"}
	assert.Error(t, v.Struct(bad))
}
