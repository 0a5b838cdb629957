package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wekesa360/todohub/internal/domain/todo"
)

type TodosRepo struct {
	mu    sync.RWMutex
	items map[string]todo.Todo
}

func NewTodosRepo() *TodosRepo {
	return &TodosRepo{
		items: make(map[string]todo.Todo),
	}
}

func (r *TodosRepo) GetForOwner(_ context.Context, id, ownerID string) (todo.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[id]

	// someone else's todo looks exactly like a missing one
	if !ok || t.OwnerID != ownerID {
		return todo.Todo{}, todo.ErrNotFound
	}

	return t, nil
}

func (r *TodosRepo) GetAny(_ context.Context, id string) (todo.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[id]
	if !ok {
		return todo.Todo{}, todo.ErrNotFound
	}

	return t, nil
}

func (r *TodosRepo) ListByOwner(_ context.Context, ownerID string) ([]todo.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]todo.Todo, 0)

	for _, t := range r.items {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}

	sortTodos(out)

	return out, nil
}

func (r *TodosRepo) ListAll(_ context.Context) ([]todo.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]todo.Todo, 0, len(r.items))

	for _, t := range r.items {
		out = append(out, t)
	}

	sortTodos(out)

	return out, nil
}

func (r *TodosRepo) Create(_ context.Context, t todo.Todo) (todo.Todo, error) {
	r.mu.Lock()
	r.items[t.ID] = t
	r.mu.Unlock()

	return t, nil
}

func (r *TodosRepo) Update(_ context.Context, id, ownerID string, req todo.TodoRequest) (todo.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[id]
	if !ok || t.OwnerID != ownerID {
		return todo.Todo{}, todo.ErrNotFound
	}

	t.Title = req.Title
	t.Description = req.Description
	t.Priority = req.PriorityValue()
	t.Completed = req.CompletedValue()
	t.OwnerID = ownerID
	t.UpdatedAt = time.Now().UTC()

	r.items[id] = t

	return t, nil
}

func (r *TodosRepo) Delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[id]
	if !ok || t.OwnerID != ownerID {
		return todo.ErrNotFound
	}

	delete(r.items, id)

	return nil
}

func (r *TodosRepo) DeleteAny(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return todo.ErrNotFound
	}

	delete(r.items, id)

	return nil
}

// same stable ordering as the postgres store
func sortTodos(items []todo.Todo) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}
