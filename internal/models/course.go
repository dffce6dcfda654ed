package models

import "time"

// Course курс платформы. OwnerID равен nil, если владелец удалён.
type Course struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Preview      string    `json:"preview,omitempty"`
	Price        *int64    `json:"price,omitempty"`
	OwnerID      *int64    `json:"owner_id,omitempty"`
	LessonsCount int       `json:"lessons_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsFree сообщает, что курс нельзя оплатить: цена не задана или не положительна.
func (c *Course) IsFree() bool {
	return c.Price == nil || *c.Price <= 0
}

// CourseDetail курс со списком уроков и признаком подписки запрашивающего.
type CourseDetail struct {
	Course
	Lessons      []Lesson `json:"lessons"`
	IsSubscribed bool     `json:"is_subscribed"`
}

// CourseInput тело запроса на создание или полную замену курса.
type CourseInput struct {
	Title       string `json:"title" validate:"required,max=150"`
	Description string `json:"description,omitempty" validate:"omitempty,max=5000"`
	Preview     string `json:"preview,omitempty" validate:"omitempty,max=255"`
	Price       *int64 `json:"price,omitempty" validate:"omitempty,gte=0"`
}

// CoursePatch частичное обновление курса.
type CoursePatch struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=150"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	Preview     *string `json:"preview,omitempty" validate:"omitempty,max=255"`
	Price       *int64  `json:"price,omitempty" validate:"omitempty,gte=0"`
}

// Apply переносит заданные поля патча в курс.
func (p CoursePatch) Apply(c *Course) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Preview != nil {
		c.Preview = *p.Preview
	}
	if p.Price != nil {
		price := *p.Price
		c.Price = &price
	}
}

// Patch превращает полное тело запроса в патч, задающий все поля.
func (in CourseInput) Patch() CoursePatch {
	return CoursePatch{
		Title:       &in.Title,
		Description: &in.Description,
		Preview:     &in.Preview,
		Price:       in.Price,
	}
}
