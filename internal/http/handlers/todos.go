package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wekesa360/todohub/internal/cache"
	"github.com/wekesa360/todohub/internal/config"
	"github.com/wekesa360/todohub/internal/domain/todo"
	"github.com/wekesa360/todohub/internal/http/middlewares"
	"github.com/wekesa360/todohub/internal/utils"
)

type TodoStore interface {
	GetForOwner(ctx context.Context, id, ownerID string) (todo.Todo, error)
	GetAny(ctx context.Context, id string) (todo.Todo, error)
	ListByOwner(ctx context.Context, ownerID string) ([]todo.Todo, error)
	ListAll(ctx context.Context) ([]todo.Todo, error)
	Create(ctx context.Context, t todo.Todo) (todo.Todo, error)
	Update(ctx context.Context, id, ownerID string, req todo.TodoRequest) (todo.Todo, error)
	Delete(ctx context.Context, id, ownerID string) error
	DeleteAny(ctx context.Context, id string) error
}

type TodosHandler struct {
	repo  TodoStore
	lists *cache.TodoLists
}

func NewTodosHandler(repo TodoStore, lists *cache.TodoLists) *TodosHandler {
	return &TodosHandler{repo: repo, lists: lists}
}

// callerID requires that RequireAuth ran earlier on the chain.
func callerID(ctx *gin.Context) (string, bool) {
	id, ok := middlewares.UserIDFromContext(ctx)

	if !ok || id == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return "", false
	}

	return id, true
}

func (h *TodosHandler) invalidateListsFor(ctx context.Context, ownerID string) {
	h.lists.Invalidate(ctx,
		utils.BuildOwnerTodosCacheKey(ownerID),
		utils.AllTodosCacheKey(),
	)
}

func (h *TodosHandler) ListTodos(ctx *gin.Context) {
	owner, ok := callerID(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	key := utils.BuildOwnerTodosCacheKey(owner)

	if items, hit := h.lists.Get(cctx, key); hit {
		ctx.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
		return
	}

	items, err := h.repo.ListByOwner(cctx, owner)

	if err != nil {
		RespondInternal(ctx, "Could not list todos")
		return
	}

	h.lists.Set(cctx, key, items)

	ctx.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

func (h *TodosHandler) GetTodo(ctx *gin.Context) {
	owner, ok := callerID(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	t, err := h.repo.GetForOwner(cctx, ctx.Param("id"), owner)

	if err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			RespondNotFound(ctx, "Todo not found")
			return
		}
		RespondInternal(ctx, "Could not fetch todo")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, t)
}

// CreateTodo always stamps the caller as owner; the request body cannot
// assign ownership.
func (h *TodosHandler) CreateTodo(ctx *gin.Context) {
	owner, ok := callerID(ctx)
	if !ok {
		return
	}

	var req todo.TodoRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	now := time.Now().UTC()

	t, err := h.repo.Create(cctx, todo.Todo{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.PriorityValue(),
		Completed:   req.CompletedValue(),
		OwnerID:     owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	})

	if err != nil {
		RespondInternal(ctx, "Could not create todo")
		return
	}

	h.invalidateListsFor(cctx, owner)

	ctx.JSON(http.StatusCreated, t)
}

func (h *TodosHandler) UpdateTodo(ctx *gin.Context) {
	owner, ok := callerID(ctx)
	if !ok {
		return
	}

	var req todo.TodoRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	t, err := h.repo.Update(cctx, ctx.Param("id"), owner, req)

	if err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			RespondNotFound(ctx, "Todo not found")
			return
		}
		RespondInternal(ctx, "Could not update todo")
		return
	}

	h.invalidateListsFor(cctx, owner)

	ctx.JSON(http.StatusOK, t)
}

func (h *TodosHandler) DeleteTodo(ctx *gin.Context) {
	owner, ok := callerID(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, ctx.Param("id"), owner)

	if err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			RespondNotFound(ctx, "Todo not found")
			return
		}
		RespondInternal(ctx, "Could not delete todo")
		return
	}

	h.invalidateListsFor(cctx, owner)

	ctx.Status(http.StatusNoContent)
}
