package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// LedgerClaims are the JWT claims accepted by the API. Subject is the user ID; Tenants lists
// the business units the user may act on, AllTenants granting all of them.
type LedgerClaims struct {
	jwt.RegisteredClaims
	Tenants []string `json:"tenants,omitempty"`
}

// AuthMiddleware creates a Gin middleware handler that validates HS256 bearer tokens.
// An empty issuer disables the issuer check.
func AuthMiddleware(jwtSecret, issuer string) gin.HandlerFunc {
	parserOpts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(parserOpts...)

	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		claims := &LedgerClaims{}
		token, err := parser.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(jwtSecret), nil
		})
		if err != nil {
			logger.Warn("Invalid token", "error", err)
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}
		if !token.Valid || claims.Subject == "" {
			logger.Error("User ID (subject) missing from valid token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		ctx := withUser(c.Request.Context(), claims.Subject, claims.Tenants)
		ctx = WithLogger(ctx, logger.With(slog.String("user_id", claims.Subject)))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireTenantAccess rejects requests whose :tenant_id path parameter is not listed in the
// caller's token. It must run after AuthMiddleware.
func RequireTenantAccess(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.Param(param)
		tenants := tenantsFromCtx(c.Request.Context())
		if tenantID == "" || !(slices.Contains(tenants, AllTenants) || slices.Contains(tenants, tenantID)) {
			GetLoggerFromCtx(c.Request.Context()).Warn("Tenant access denied", slog.String("tenant_id", tenantID))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access to this tenant is not allowed"})
			return
		}
		c.Request = c.Request.WithContext(WithLogger(c.Request.Context(),
			GetLoggerFromCtx(c.Request.Context()).With(slog.String("tenant_id", tenantID))))
		c.Next()
	}
}
