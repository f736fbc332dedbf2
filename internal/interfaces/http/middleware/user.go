package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/societyhub/backend/internal/application/scope"
	"github.com/societyhub/backend/internal/domain/shared"
	"github.com/societyhub/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// ActorKey holds the scope.Actor of the request
const ActorKey = "society_actor"

// UserContext reloads the token's user from the society store so that
// deactivation and flat changes apply to tokens already issued. It must run
// after TenantConnector.
func UserContext(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		tenant, ok := GetTenant(c)
		if claims == nil || !ok {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if claims.IsSuper() {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Platform operators have no society account")
			return
		}

		userID, err := claims.UserUUID()
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeTokenInvalid, "Invalid token")
			return
		}
		user, err := tenant.Store.Users().FindByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "User no longer exists")
				return
			}
			log.Error("Failed to load user", zap.String("user_id", userID.String()), zap.Error(err))
			abortWithDomainError(c, err)
			return
		}
		if !user.IsActive {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeAccountDeactivated, "Account has been deactivated")
			return
		}

		c.Set(ActorKey, scope.Actor{UserID: user.ID, Role: user.Role, FlatID: user.FlatID})
		c.Next()
	}
}

// GetActor returns the caller set by UserContext
func GetActor(c *gin.Context) (scope.Actor, bool) {
	v, ok := c.Get(ActorKey)
	if !ok {
		return scope.Actor{}, false
	}
	a, ok := v.(scope.Actor)
	return a, ok
}
