package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wekesa360/todohub/internal/cache"
	"github.com/wekesa360/todohub/internal/config"
	"github.com/wekesa360/todohub/internal/domain/todo"
	"github.com/wekesa360/todohub/internal/utils"
)

// AdminHandler serves the unrestricted todo surface. The role check
// itself lives on the route chain (RequireRole), not in here.
type AdminHandler struct {
	repo  TodoStore
	lists *cache.TodoLists
}

func NewAdminHandler(repo TodoStore, lists *cache.TodoLists) *AdminHandler {
	return &AdminHandler{repo: repo, lists: lists}
}

func (h *AdminHandler) ListAllTodos(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	key := utils.AllTodosCacheKey()

	if items, hit := h.lists.Get(cctx, key); hit {
		ctx.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
		return
	}

	items, err := h.repo.ListAll(cctx)

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

func (h *AdminHandler) GetTodo(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	t, err := h.repo.GetAny(cctx, ctx.Param("id"))

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

func (h *AdminHandler) DeleteTodo(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	// fetch first so the owner's cached listing can be dropped too
	t, err := h.repo.GetAny(cctx, ctx.Param("id"))

	if err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			RespondNotFound(ctx, "Todo not found")
			return
		}
		RespondInternal(ctx, "Could not delete todo")
		return
	}

	if err := h.repo.DeleteAny(cctx, t.ID); err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			RespondNotFound(ctx, "Todo not found")
			return
		}
		RespondInternal(ctx, "Could not delete todo")
		return
	}

	h.lists.Invalidate(cctx,
		utils.BuildOwnerTodosCacheKey(t.OwnerID),
		utils.AllTodosCacheKey(),
	)

	ctx.Status(http.StatusNoContent)
}
