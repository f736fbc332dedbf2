package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/societyhub/backend/internal/domain/resident"
	"github.com/societyhub/backend/internal/interfaces/http/dto"
)

// RequireRole admits society users holding one of roles. It must run after
// UserContext; the role is the stored one, not the token claim.
func RequireRole(roles ...resident.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if !slices.Contains(roles, actor.Role) {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Access denied: insufficient role")
			return
		}
		c.Next()
	}
}

// RequireSuper admits platform operators only
func RequireSuper() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if !claims.IsSuper() {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Access denied: platform operators only")
			return
		}
		c.Next()
	}
}
