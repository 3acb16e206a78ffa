package userctx

import "context"

type contextKey string

const (
	userIDContextKey contextKey = "user_id"
	roleContextKey   contextKey = "role"
)

const RoleAdmin = "admin"

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	return userID, ok && userID != ""
}

func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleContextKey, role)
}

func GetRole(ctx context.Context) string {
	role, _ := ctx.Value(roleContextKey).(string)
	return role
}

func IsAdmin(ctx context.Context) bool {
	return GetRole(ctx) == RoleAdmin
}

// CanAccess проверяет, что текущий пользователь может читать данные userID.
// Без аутентификации в контексте проверка пропускается; админ видит всё.
func CanAccess(ctx context.Context, userID string) bool {
	current, ok := GetUserID(ctx)
	if !ok {
		return true
	}
	return IsAdmin(ctx) || current == userID
}
