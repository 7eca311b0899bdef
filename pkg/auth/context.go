package auth

import (
	"context"

	"github.com/bosun-marine/bosun-engine/pkg/apperrors"
	"github.com/bosun-marine/bosun-engine/pkg/models"
)

type contextKey string

const identityKey contextKey = "identity"

// SetIdentity stores the caller's identity in the context.
func SetIdentity(ctx context.Context, identity models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity retrieves the caller's identity from the context.
func GetIdentity(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(models.Identity)
	return identity, ok
}

// RequireIdentity retrieves the identity or fails. Use at the boundary of
// any operation that must be yacht-scoped.
func RequireIdentity(ctx context.Context) (models.Identity, error) {
	identity, ok := GetIdentity(ctx)
	if !ok || !identity.Valid() {
		return models.Identity{}, apperrors.ErrInvalidIdentity
	}
	return identity, nil
}
