package auth

import (
	"context"

	"github.com/fdg312/meal-planner/internal/userctx"
)

// withClaims кладёт пользователя и его роль в контекст запроса
func withClaims(ctx context.Context, c *Claims) context.Context {
	ctx = userctx.WithUserID(ctx, c.UserID)
	return userctx.WithRole(ctx, c.Role)
}
