package actorctx

import "context"

type ctxKey string

const identityKey ctxKey = "identity"

// Identity is the caller derived from a verified access token.
type Identity struct {
	UserID   string
	Username string
	Role     string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)

	return id, ok && id.UserID != ""
}
