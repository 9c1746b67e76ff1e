package auth

import (
	"context"

	domuser "example.com/food-storefront/internal/domain/user"
)

type identityKey struct{}

func WithIdentity(ctx context.Context, id *domuser.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFrom(ctx context.Context) *domuser.Identity {
	if id, ok := ctx.Value(identityKey{}).(*domuser.Identity); ok {
		return id
	}
	return nil
}

// ContextIdentity reads the signed-in user that the auth middleware put on
// the request context.
type ContextIdentity struct{}

func (ContextIdentity) CurrentUser(ctx context.Context) (*domuser.Identity, bool) {
	id := IdentityFrom(ctx)
	return id, id != nil
}
