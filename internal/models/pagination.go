package models

import "math"

// Page параметры страничной выборки.
type Page struct {
	Number int
	Size   int
}

// Offset смещение первой записи страницы.
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// PageResult страница результатов с общим количеством записей.
type PageResult[T any] struct {
	Count    int  `json:"count"`
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	Results  []T  `json:"results"`
	HasNext  bool `json:"has_next"`
}

// NewPageResult собирает страницу результатов.
func NewPageResult[T any](items []T, total int, page Page) PageResult[T] {
	if items == nil {
		items = []T{}
	}
	return PageResult[T]{
		Count:    total,
		Page:     page.Number,
		PageSize: page.Size,
		Results:  items,
		HasNext:  page.Offset()+len(items) < total,
	}
}

// Normalize подставляет размер по умолчанию и ограничивает его сверху.
// Номер страницы ограничен так, чтобы смещение помещалось в int32.
func (p Page) Normalize(defaultSize, maxSize int) Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size <= 0 {
		p.Size = defaultSize
	}
	if p.Size > maxSize {
		p.Size = maxSize
	}
	if maxNumber := math.MaxInt32/p.Size + 1; p.Number > maxNumber {
		p.Number = maxNumber
	}
	return p
}
