package models

import "time"

// Lesson урок курса. Удаляется вместе с курсом.
type Lesson struct {
	ID          int64     `json:"id"`
	CourseID    int64     `json:"course_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Preview     string    `json:"preview,omitempty"`
	VideoURL    string    `json:"video_url,omitempty"`
	OwnerID     *int64    `json:"owner_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LessonInput тело запроса на создание или полную замену урока.
type LessonInput struct {
	CourseID    int64  `json:"course_id" validate:"required,gt=0"`
	Title       string `json:"title" validate:"required,max=150"`
	Description string `json:"description,omitempty" validate:"omitempty,max=5000"`
	Preview     string `json:"preview,omitempty" validate:"omitempty,max=255"`
	VideoURL    string `json:"video_url,omitempty" validate:"omitempty,youtube"`
}

// LessonPatch частичное обновление урока. Курс урока не меняется.
type LessonPatch struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=150"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	Preview     *string `json:"preview,omitempty" validate:"omitempty,max=255"`
	VideoURL    *string `json:"video_url,omitempty" validate:"omitempty,youtube"`
}

// Apply переносит заданные поля патча в урок.
func (p LessonPatch) Apply(l *Lesson) {
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.Preview != nil {
		l.Preview = *p.Preview
	}
	if p.VideoURL != nil {
		l.VideoURL = *p.VideoURL
	}
}

// Patch превращает полное тело запроса в патч. CourseID в патч не попадает.
func (in LessonInput) Patch() LessonPatch {
	return LessonPatch{
		Title:       &in.Title,
		Description: &in.Description,
		Preview:     &in.Preview,
		VideoURL:    &in.VideoURL,
	}
}
