package todo

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("todo not found")

type Todo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    int       `json:"priority"`
	Completed   bool      `json:"completed"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TodoRequest carries the full mutable field set. Create and update both
// bind it, so an update is always a full replacement of the four fields.
// Priority and completed are pointers so that "absent" and "zero" can be
// told apart by the required rule.
type TodoRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=100"`
	Description string `json:"description" binding:"required,min=3,max=255"`
	Priority    *int   `json:"priority" binding:"required,gte=0,lte=10"`
	Completed   *bool  `json:"completed" binding:"required"`
}

func (r TodoRequest) PriorityValue() int {
	if r.Priority == nil {
		return 0
	}
	return *r.Priority
}

func (r TodoRequest) CompletedValue() bool {
	if r.Completed == nil {
		return false
	}
	return *r.Completed
}
