package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/societyhub/backend/internal/application/scope"
	"github.com/societyhub/backend/internal/domain/shared"
	"github.com/societyhub/backend/internal/infrastructure/logger"
	"github.com/societyhub/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Society context keys
const (
	TenantKey        = "society_tenant"
	SocietyHeaderKey = "X-Society-ID"
)

// TenantConnector resolves the society of the request through opener and
// stores the bound tenant on the context. The society comes from the token
// claim, or from the X-Society-ID header when the token carries none.
func TenantConnector(opener scope.Opener, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		identifier := GetJWTSocietyID(c)
		source := "jwt"
		if identifier == "" {
			identifier = strings.TrimSpace(c.GetHeader(SocietyHeaderKey))
			source = "header"
		}
		if identifier == "" {
			abortWithError(c, http.StatusBadRequest, dto.ErrCodeSocietyRequired, shared.ErrSocietyRequired.Message)
			return
		}

		tenant, err := opener.Open(c.Request.Context(), identifier)
		if err != nil {
			log.Warn("Society resolution failed",
				zap.String("society", identifier),
				zap.String("source", source),
				zap.Error(err),
			)
			abortWithDomainError(c, err)
			return
		}

		c.Set(TenantKey, tenant)
		c.Request = c.Request.WithContext(logger.WithSocietyID(c.Request.Context(), tenant.Key()))
		c.Next()
	}
}

// GetTenant returns the society bound by TenantConnector
func GetTenant(c *gin.Context) (scope.Tenant, bool) {
	v, ok := c.Get(TenantKey)
	if !ok {
		return scope.Tenant{}, false
	}
	t, ok := v.(scope.Tenant)
	return t, ok
}

// abortWithDomainError maps a domain error to its status and code.
// Anything else is an internal error.
func abortWithDomainError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		abortWithError(c, dto.GetHTTPStatus(code), code, domainErr.Message)
		return
	}
	abortWithError(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}
