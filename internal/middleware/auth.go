package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/serenityspa/wellness-api/pkg/auth"
	"github.com/serenityspa/wellness-api/pkg/errors"
	"github.com/serenityspa/wellness-api/pkg/httputil"
)

// Context keys set by the auth middleware.
const (
	ContextUserIDKey = "userID"
	ContextEmailKey  = "userEmail"
	ContextRoleKey   = "userRole"
)

// Auth validates the Bearer token and stores the caller's identity on the
// request context.
func Auth(jwtSvc auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c, jwtSvc)
		if !ok {
			httputil.RespondWithError(c, errors.Unauthorized(nil))
			c.Abort()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth records the caller's identity when a valid token is present
// but never rejects the request. Used on endpoints open to guests.
func OptionalAuth(jwtSvc auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := parseBearer(c, jwtSvc); ok {
			setIdentity(c, claims)
		}
		c.Next()
	}
}

// RequireRole allows the request through only when the authenticated role
// is one of the given roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := Role(c)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		httputil.RespondWithError(c, errors.Forbidden("insufficient permissions", nil))
		c.Abort()
	}
}

func parseBearer(c *gin.Context, jwtSvc auth.JWTService) (*auth.TokenClaims, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, false
	}

	claims, err := jwtSvc.ValidateToken(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}

func setIdentity(c *gin.Context, claims *auth.TokenClaims) {
	c.Set(ContextUserIDKey, claims.UserID)
	c.Set(ContextEmailKey, claims.Email)
	c.Set(ContextRoleKey, claims.Role)
}

// UserID returns the authenticated user's ID, or uuid.Nil when the request
// is anonymous.
func UserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(ContextUserIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// Role returns the authenticated user's role, or "" when anonymous.
func Role(c *gin.Context) string {
	if v, ok := c.Get(ContextRoleKey); ok {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}
