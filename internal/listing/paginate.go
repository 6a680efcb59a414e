package listing

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// PerPage is the fixed page size of every list endpoint.
const PerPage = 10

// Page is the pagination envelope returned by list endpoints.
// From and To are null when the page is empty.
type Page[T any] struct {
	CurrentPage int   `json:"current_page"`
	Data        []T   `json:"data"`
	PerPage     int   `json:"per_page"`
	LastPage    int   `json:"last_page"`
	From        *int  `json:"from"`
	To          *int  `json:"to"`
	Total       int64 `json:"total"`
}

// Paginate counts the rows matched by base, then loads one page of them.
// present adds what only the page fetch needs (ordering, preloads, extra columns)
// and is kept out of the count query.
func Paginate[T any](ctx context.Context, base *gorm.DB, page int, present ...func(*gorm.DB) *gorm.DB) (Page[T], error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := base.Session(&gorm.Session{}).WithContext(ctx).Count(&total).Error; err != nil {
		return Page[T]{}, fmt.Errorf("count: %w", err)
	}

	rows := make([]T, 0, PerPage)
	if total > int64((page-1)*PerPage) {
		err := base.Session(&gorm.Session{}).
			WithContext(ctx).
			Scopes(present...).
			Offset((page - 1) * PerPage).
			Limit(PerPage).
			Find(&rows).Error
		if err != nil {
			return Page[T]{}, fmt.Errorf("fetch page %d: %w", page, err)
		}
	}

	return newPage(rows, page, total), nil
}

func newPage[T any](rows []T, page int, total int64) Page[T] {
	lastPage := int((total + PerPage - 1) / PerPage)
	if lastPage < 1 {
		lastPage = 1
	}
	p := Page[T]{
		CurrentPage: page,
		Data:        rows,
		PerPage:     PerPage,
		LastPage:    lastPage,
		Total:       total,
	}
	if len(rows) > 0 {
		from := (page-1)*PerPage + 1
		to := from + len(rows) - 1
		p.From, p.To = &from, &to
	}
	return p
}
