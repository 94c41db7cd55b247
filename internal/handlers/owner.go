package handlers

import (
	"context"

	"github.com/serroba/shortlink/internal/shortener"
)

type ownerKey struct{}

// ContextWithOwner stores the authenticated owner id in the context.
func ContextWithOwner(ctx context.Context, owner shortener.OwnerID) context.Context {
	return context.WithValue(ctx, ownerKey{}, owner)
}

// OwnerFromContext returns the owner id set by the upstream identity layer, or "" for anonymous requests.
func OwnerFromContext(ctx context.Context) shortener.OwnerID {
	if v, ok := ctx.Value(ownerKey{}).(shortener.OwnerID); ok {
		return v
	}

	return ""
}
