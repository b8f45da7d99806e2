package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"fleamarket/pkg/utils"
)

const (
	// AuthorizationHeader header carrying the bearer token
	AuthorizationHeader = "Authorization"
	// BearerPrefix token prefix
	BearerPrefix = "Bearer "
	// UserIDKey context key for the authenticated user ID
	UserIDKey = "user_id"
	// UserRoleKey context key for the authenticated role
	UserRoleKey = "user_role"
)

// UserInfo the identity extracted from a token
type UserInfo struct {
	ID   uint64 `json:"id"`
	Role string `json:"role"`
}

// TokenValidator turns a raw token into a user identity
type TokenValidator func(token string) (*UserInfo, error)

// Auth authentication middleware. The validated user ID lands in the
// context; handlers pass it into services as the explicit actor.
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			utils.Error(c, utils.CodeUnauthorized, "Missing authorization header")
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			utils.Error(c, utils.CodeUnauthorized, "Invalid authorization header format")
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, BearerPrefix)
		if token == "" {
			utils.Error(c, utils.CodeUnauthorized, "Missing token")
			c.Abort()
			return
		}

		userInfo, err := validator(token)
		if err != nil {
			utils.Error(c, utils.CodeUnauthorized, "Invalid token")
			c.Abort()
			return
		}

		c.Set(UserIDKey, userInfo.ID)
		c.Set(UserRoleKey, userInfo.Role)

		c.Next()
	}
}

// RequireRole allows only the given role through. Must run after Auth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got, ok := GetUserRole(c)
		if !ok || got != role {
			utils.Error(c, utils.CodeForbidden, "Insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID gets the authenticated user ID from the context
func GetUserID(c *gin.Context) (uint64, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}

	id, ok := v.(uint64)
	return id, ok
}

// GetUserRole gets the authenticated role from the context
func GetUserRole(c *gin.Context) (string, bool) {
	v, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}

	role, ok := v.(string)
	return role, ok
}

// MustGetUserID gets the authenticated user ID, panicking when the
// route was wired without Auth
func MustGetUserID(c *gin.Context) uint64 {
	id, ok := GetUserID(c)
	if !ok {
		panic("user ID not found in context")
	}
	return id
}
