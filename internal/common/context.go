package common

import (
	"context"

	"github.com/google/uuid"

	"healthhub/internal/models"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the request-scoped resolution result. It is constructed exactly
// once per request, by tenant resolution for public routes or by the composed
// RequireAdminTenant chain for admin routes, and passed down from there.
// Downstream code never re-derives tenant identity.
type Identity struct {
	TenantID models.TenantID
	UserID   uuid.UUID
	Role     models.Role
}

// Authenticated reports whether the identity carries an admin user.
func (id Identity) Authenticated() bool {
	return id.UserID != uuid.Nil
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// TenantIDFromContext extracts the resolved tenant ID from the request context.
func TenantIDFromContext(ctx context.Context) (models.TenantID, bool) {
	id, ok := IdentityFromContext(ctx)
	if !ok || id.TenantID == 0 {
		return 0, false
	}
	return id.TenantID, true
}
