// Package tasks is the personal to-do store: every task belongs to exactly one user,
// and every read or write goes through the ownership guard so that a user can never see,
// change or delete somebody else's task.
package tasks

import (
	"math"
	"time"
)

// Task is a single to-do item.
type Task struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Pagination defaults.
const (
	DefaultPerPage = 2
	MaxPerPage     = 100
)

// Notices shown after a successful change.
const (
	TaskCreatedMessage = "Task created"
	TaskUpdatedMessage = "Task updated"
	TaskDeletedMessage = "Task deleted"
)

// NotFoundMessage is used for missing tasks and for tasks owned by someone else alike.
const NotFoundMessage = "task not found"

// Page is one slice of a user's task list plus the numbers a pager needs.
type Page struct {
	Items      []Task `json:"items"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	TotalPages int    `json:"total_pages"`
	HasPrev    bool   `json:"has_prev"`
	HasNext    bool   `json:"has_next"`
	PrevNum    int    `json:"prev_num,omitempty"`
	NextNum    int    `json:"next_num,omitempty"`
}

// NormalizePaging applies the paging policy: pages start at 1, and perPage falls back to
// DefaultPerPage when unset and is capped at MaxPerPage. Pages are capped at MaxPage so that
// their offset always fits in an int.
func NormalizePaging(page, perPage int) (int, int) {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if page < 1 {
		page = 1
	}
	if last := MaxPage(perPage); page > last {
		page = last
	}
	return page, perPage
}

// MaxPage is the highest page number whose offset is representable for perPage.
func MaxPage(perPage int) int {
	if perPage < 1 {
		perPage = 1
	}
	return math.MaxInt / perPage
}

// Offset is the number of rows to skip for a page. It saturates at math.MaxInt instead of
// wrapping around for pages past MaxPage.
func Offset(page, perPage int) int {
	if page < 1 || perPage < 1 {
		return 0
	}
	if page-1 > math.MaxInt/perPage {
		return math.MaxInt
	}
	return (page - 1) * perPage
}

// NewPage builds the metadata for a normalized page. A page past the end has no items
// but still reports the real totals.
func NewPage(items []Task, total int64, page, perPage int) *Page {
	if items == nil {
		items = []Task{}
	}
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	p := &Page{
		Items:      items,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}
	if p.HasPrev {
		p.PrevNum = page - 1
	}
	if p.HasNext {
		p.NextNum = page + 1
	}
	return p
}
