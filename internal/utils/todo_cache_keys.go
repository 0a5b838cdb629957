package utils

// Cache key builders for todo listings. The version segment lets a
// format change invalidate old entries without a flush.

func BuildOwnerTodosCacheKey(ownerID string) string {
	return "todos:list:v1:owner=" + ownerID
}

func AllTodosCacheKey() string {
	return "todos:list:v1:all"
}
