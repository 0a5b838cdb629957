package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wekesa360/todohub/internal/domain/todo"
	"github.com/wekesa360/todohub/internal/observability"
)

var ErrTodoNotFound = todo.ErrNotFound

type TodosRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewTodosRepo(pool *pgxpool.Pool, prom *observability.Prom) *TodosRepo {
	return &TodosRepo{pool: pool, prom: prom}
}

func (r *TodosRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

const todoColumns = `id, title, description, priority, completed, owner_id, created_at, updated_at`

func scanTodo(row pgx.Row) (todo.Todo, error) {
	var t todo.Todo

	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Priority,
		&t.Completed,
		&t.OwnerID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return todo.Todo{}, ErrTodoNotFound
		}

		return todo.Todo{}, err
	}

	return t, nil
}

// GetForOwner filters by owner in the query itself, so a todo belonging
// to someone else is indistinguishable from one that does not exist.
func (r *TodosRepo) GetForOwner(ctx context.Context, id, ownerID string) (todo.Todo, error) {
	var t todo.Todo

	err := r.observe("todos.get_for_owner", func() error {
		var scanErr error
		t, scanErr = scanTodo(r.pool.QueryRow(
			ctx,
			`SELECT `+todoColumns+` FROM todos WHERE id = $1 AND owner_id = $2`,
			id, ownerID,
		))
		return scanErr
	})

	return t, err
}

func (r *TodosRepo) GetAny(ctx context.Context, id string) (todo.Todo, error) {
	var t todo.Todo

	err := r.observe("todos.get_any", func() error {
		var scanErr error
		t, scanErr = scanTodo(r.pool.QueryRow(
			ctx,
			`SELECT `+todoColumns+` FROM todos WHERE id = $1`,
			id,
		))
		return scanErr
	})

	return t, err
}

func (r *TodosRepo) listQuery(ctx context.Context, query string, args ...interface{}) ([]todo.Todo, error) {
	rows, err := r.pool.Query(ctx, query, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	out := make([]todo.Todo, 0)

	for rows.Next() {
		var t todo.Todo

		err = rows.Scan(
			&t.ID,
			&t.Title,
			&t.Description,
			&t.Priority,
			&t.Completed,
			&t.OwnerID,
			&t.CreatedAt,
			&t.UpdatedAt,
		)

		if err != nil {
			return nil, err
		}

		out = append(out, t)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *TodosRepo) ListByOwner(ctx context.Context, ownerID string) ([]todo.Todo, error) {
	var out []todo.Todo

	err := r.observe("todos.list_by_owner", func() error {
		var listErr error
		out, listErr = r.listQuery(ctx,
			`SELECT `+todoColumns+` FROM todos WHERE owner_id = $1 ORDER BY created_at ASC, id ASC`,
			ownerID,
		)
		return listErr
	})

	return out, err
}

func (r *TodosRepo) ListAll(ctx context.Context) ([]todo.Todo, error) {
	var out []todo.Todo

	err := r.observe("todos.list_all", func() error {
		var listErr error
		out, listErr = r.listQuery(ctx,
			`SELECT `+todoColumns+` FROM todos ORDER BY created_at ASC, id ASC`,
		)
		return listErr
	})

	return out, err
}

func (r *TodosRepo) Create(ctx context.Context, t todo.Todo) (todo.Todo, error) {
	err := r.observe("todos.create", func() error {
		_, execErr := r.pool.Exec(ctx,
			`INSERT INTO todos (`+todoColumns+`)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			t.ID, t.Title, t.Description, t.Priority, t.Completed,
			t.OwnerID, t.CreatedAt, t.UpdatedAt,
		)
		return execErr
	})

	if err != nil {
		return todo.Todo{}, err
	}

	return t, nil
}

// Update replaces the four mutable fields in a single owner-filtered
// statement; the ownership check and the write cannot race.
func (r *TodosRepo) Update(ctx context.Context, id, ownerID string, req todo.TodoRequest) (todo.Todo, error) {
	var t todo.Todo

	err := r.observe("todos.update", func() error {
		var scanErr error
		t, scanErr = scanTodo(r.pool.QueryRow(ctx,
			`UPDATE todos
			 SET title = $3, description = $4, priority = $5, completed = $6, updated_at = now()
			 WHERE id = $1 AND owner_id = $2
			 RETURNING `+todoColumns,
			id, ownerID,
			req.Title, req.Description, req.PriorityValue(), req.CompletedValue(),
		))
		return scanErr
	})

	return t, err
}

func (r *TodosRepo) Delete(ctx context.Context, id, ownerID string) error {
	var tag pgconn.CommandTag

	err := r.observe("todos.delete", func() error {
		var execErr error
		tag, execErr = r.pool.Exec(ctx,
			`DELETE FROM todos WHERE id = $1 AND owner_id = $2`,
			id, ownerID,
		)
		return execErr
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrTodoNotFound
	}

	return nil
}

func (r *TodosRepo) DeleteAny(ctx context.Context, id string) error {
	var tag pgconn.CommandTag

	err := r.observe("todos.delete_any", func() error {
		var execErr error
		tag, execErr = r.pool.Exec(ctx,
			`DELETE FROM todos WHERE id = $1`,
			id,
		)
		return execErr
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrTodoNotFound
	}

	return nil
}
