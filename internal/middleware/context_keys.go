package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey  = contextKey("userID")
	tenantsKey = contextKey("tenants")
)

// AllTenants grants a token access to every tenant.
const AllTenants = "*"

// GetUserIDFromContext retrieves the authenticated user ID from the request context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

func withUser(ctx context.Context, userID string, tenants []string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, tenantsKey, tenants)
}

func tenantsFromCtx(ctx context.Context) []string {
	tenants, _ := ctx.Value(tenantsKey).([]string)
	return tenants
}
