package middleware

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink/internal/handlers"
	"github.com/serroba/shortlink/internal/shortener"
)

// OwnerHeader carries the owner id set by the upstream identity layer.
const OwnerHeader = "X-Owner-ID"

// Owner is a middleware that adds the owner id from OwnerHeader to the request context.
// Requests without the header are anonymous.
func Owner(_ huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		owner := strings.TrimSpace(ctx.Header(OwnerHeader))
		if owner == "" {
			next(ctx)

			return
		}

		newCtx := handlers.ContextWithOwner(ctx.Context(), shortener.OwnerID(owner))
		next(huma.WithContext(ctx, newCtx))
	}
}
