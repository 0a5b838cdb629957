package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wekesa360/todohub/internal/domain/todo"
	"github.com/wekesa360/todohub/internal/repo/memory"
)

func seedTodo(t *testing.T, r *memory.TodosRepo, id, owner, title string, createdAt time.Time) todo.Todo {
	t.Helper()

	created, err := r.Create(context.Background(), todo.Todo{
		ID:          id,
		Title:       title,
		Description: "desc for " + title,
		Priority:    1,
		OwnerID:     owner,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	return created
}

func TestGetForOwnerHidesForeignTodos(t *testing.T) {
	r := memory.NewTodosRepo()
	now := time.Now().UTC()

	seedTodo(t, r, "t1", "alice", "Buy milk", now)

	if _, err := r.GetForOwner(context.Background(), "t1", "alice"); err != nil {
		t.Fatalf("owner get: %v", err)
	}

	_, err := r.GetForOwner(context.Background(), "t1", "bob")
	if !errors.Is(err, todo.ErrNotFound) {
		t.Fatalf("foreign get err = %v, want ErrNotFound", err)
	}

	// admin path still sees it
	if _, err := r.GetAny(context.Background(), "t1"); err != nil {
		t.Fatalf("get any: %v", err)
	}
}

func TestListByOwnerOrderingAndScope(t *testing.T) {
	r := memory.NewTodosRepo()
	base := time.Now().UTC()

	seedTodo(t, r, "t2", "alice", "second", base.Add(time.Minute))
	seedTodo(t, r, "t1", "alice", "first", base)
	seedTodo(t, r, "t3", "bob", "other owner", base)

	items, err := r.ListByOwner(context.Background(), "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].ID != "t1" || items[1].ID != "t2" {
		t.Fatalf("wrong order: %q then %q", items[0].ID, items[1].ID)
	}

	all, err := r.ListAll(context.Background())
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("list all len = %d, want 3", len(all))
	}
}

func TestUpdateRespectsOwnership(t *testing.T) {
	r := memory.NewTodosRepo()
	now := time.Now().UTC()

	seedTodo(t, r, "t1", "alice", "Buy milk", now)

	priority := 9
	completed := true
	req := todo.TodoRequest{
		Title:       "Buy oat milk",
		Description: "the good kind",
		Priority:    &priority,
		Completed:   &completed,
	}

	if _, err := r.Update(context.Background(), "t1", "bob", req); !errors.Is(err, todo.ErrNotFound) {
		t.Fatalf("foreign update err = %v, want ErrNotFound", err)
	}

	updated, err := r.Update(context.Background(), "t1", "alice", req)
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}

	if updated.Title != "Buy oat milk" || updated.Priority != 9 || !updated.Completed {
		t.Fatalf("update not applied: %+v", updated)
	}
	if updated.OwnerID != "alice" {
		t.Fatalf("owner changed: %q", updated.OwnerID)
	}
}

func TestDeleteIsIdempotentlyNotFound(t *testing.T) {
	r := memory.NewTodosRepo()

	seedTodo(t, r, "t1", "alice", "Buy milk", time.Now().UTC())

	if err := r.Delete(context.Background(), "t1", "bob"); !errors.Is(err, todo.ErrNotFound) {
		t.Fatalf("foreign delete err = %v, want ErrNotFound", err)
	}

	if err := r.Delete(context.Background(), "t1", "alice"); err != nil {
		t.Fatalf("owner delete: %v", err)
	}

	if err := r.Delete(context.Background(), "t1", "alice"); !errors.Is(err, todo.ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}
