package middleware

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/application/scope"
	"github.com/societyhub/backend/internal/domain/resident"
	"github.com/societyhub/backend/internal/domain/shared"
	"github.com/societyhub/backend/internal/infrastructure/auth"
	"github.com/societyhub/backend/internal/interfaces/http/dto"
	"github.com/societyhub/backend/internal/testutil"
	"github.com/societyhub/backend/internal/testutil/tenanttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type unreachableOpener struct{}

func (unreachableOpener) Open(context.Context, string) (scope.Tenant, error) {
	return scope.Tenant{}, fmt.Errorf("%w: dial tcp: connection refused", shared.ErrTenantUnreachable)
}

// societyEngine wires the full chain in front of a handler that echoes the
// resolved society and actor.
func societyEngine(svc *auth.JWTService, opener scope.Opener, roles ...resident.Role) *gin.Engine {
	r := gin.New()
	chain := []gin.HandlerFunc{
		JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{JWTService: svc}),
		TenantConnector(opener, nil),
		UserContext(nil),
	}
	if len(roles) > 0 {
		chain = append(chain, RequireRole(roles...))
	}
	chain = append(chain, func(c *gin.Context) {
		tenant, _ := GetTenant(c)
		actor, _ := GetActor(c)
		c.JSON(http.StatusOK, gin.H{"society": tenant.Society.Code, "user_id": actor.UserID, "role": actor.Role, "flat_id": actor.FlatID})
	})
	r.GET("/test", chain...)
	return r
}

func tokenFor(t *testing.T, svc *auth.JWTService, u *resident.User, societyID uuid.UUID) string {
	t.Helper()
	tok, err := svc.Issue(auth.IssueInput{UserID: u.ID, Role: string(u.Role), SocietyID: societyID})
	require.NoError(t, err)
	return tok.AccessToken
}

func TestSocietyChain(t *testing.T) {
	svc := newTestJWTService()
	f := testutil.Faker(t)
	acme := tenanttest.New(t, "acme")
	globex := tenanttest.New(t, "globex")
	opener := tenanttest.NewOpener(acme, globex)

	flat := acme.Flat(t, f)
	owner := acme.User(t, f, resident.RoleOwner, flat)
	admin := acme.User(t, f, resident.RoleAdmin, nil)

	t.Run("resolves society from the claim and loads the actor", func(t *testing.T) {
		w := testutil.Do(t, societyEngine(svc, opener), http.MethodGet, "/test", nil,
			testutil.Bearer(tokenFor(t, svc, owner, acme.ID()), SocietyHeaderKey, "globex"))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		body := testutil.JSONResponse(t, w)
		assert.Equal(t, "acme", body["society"])
		assert.Equal(t, owner.ID.String(), body["user_id"])
		assert.Equal(t, flat.ID.String(), body["flat_id"])
	})

	t.Run("unknown society is 404", func(t *testing.T) {
		w := testutil.Do(t, societyEngine(svc, opener), http.MethodGet, "/test", nil,
			testutil.Bearer(tokenFor(t, svc, owner, uuid.New())))
		testutil.AssertErrorResponse(t, w, http.StatusNotFound, dto.ErrCodeTenantNotFound)
	})

	t.Run("unreachable society is 503", func(t *testing.T) {
		w := testutil.Do(t, societyEngine(svc, unreachableOpener{}), http.MethodGet, "/test", nil,
			testutil.Bearer(tokenFor(t, svc, owner, acme.ID())))
		testutil.AssertErrorResponse(t, w, http.StatusServiceUnavailable, dto.ErrCodeTenantUnreachable)
	})

	t.Run("super token without header is 400", func(t *testing.T) {
		tok, err := svc.Issue(auth.IssueInput{UserID: uuid.New(), Role: auth.RoleSuper})
		require.NoError(t, err)
		w := testutil.Do(t, societyEngine(svc, opener), http.MethodGet, "/test", nil, testutil.Bearer(tok.AccessToken))
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeSocietyRequired)
	})

	t.Run("super token with header has no society account", func(t *testing.T) {
		tok, err := svc.Issue(auth.IssueInput{UserID: uuid.New(), Role: auth.RoleSuper})
		require.NoError(t, err)
		w := testutil.Do(t, societyEngine(svc, opener), http.MethodGet, "/test", nil,
			testutil.Bearer(tok.AccessToken, SocietyHeaderKey, "acme"))
		testutil.AssertErrorResponse(t, w, http.StatusForbidden, dto.ErrCodeForbidden)
	})

	t.Run("user of another society is 401", func(t *testing.T) {
		w := testutil.Do(t, societyEngine(svc, opener), http.MethodGet, "/test", nil,
			testutil.Bearer(tokenFor(t, svc, owner, globex.ID())))
		testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, dto.ErrCodeUnauthorized)
	})

	t.Run("deactivated user is 403", func(t *testing.T) {
		gone := acme.User(t, f, resident.RoleAdmin, nil)
		gone.Deactivate()
		require.NoError(t, acme.Store.Users().Update(context.Background(), gone))

		w := testutil.Do(t, societyEngine(svc, opener), http.MethodGet, "/test", nil,
			testutil.Bearer(tokenFor(t, svc, gone, acme.ID())))
		testutil.AssertErrorResponse(t, w, http.StatusForbidden, dto.ErrCodeAccountDeactivated)
	})

	t.Run("role gate", func(t *testing.T) {
		engine := societyEngine(svc, opener, resident.RoleAdmin)

		w := testutil.Do(t, engine, http.MethodGet, "/test", nil, testutil.Bearer(tokenFor(t, svc, admin, acme.ID())))
		assert.Equal(t, http.StatusOK, w.Code)

		w = testutil.Do(t, engine, http.MethodGet, "/test", nil, testutil.Bearer(tokenFor(t, svc, owner, acme.ID())))
		testutil.AssertErrorResponse(t, w, http.StatusForbidden, dto.ErrCodeForbidden)
	})

	t.Run("stored role wins over the claim", func(t *testing.T) {
		tok, err := svc.Issue(auth.IssueInput{UserID: owner.ID, Role: string(resident.RoleAdmin), SocietyID: acme.ID()})
		require.NoError(t, err)
		w := testutil.Do(t, societyEngine(svc, opener, resident.RoleAdmin), http.MethodGet, "/test", nil, testutil.Bearer(tok.AccessToken))
		testutil.AssertErrorResponse(t, w, http.StatusForbidden, dto.ErrCodeForbidden)
	})
}

func TestRequireSuper(t *testing.T) {
	svc := newTestJWTService()
	r := gin.New()
	r.GET("/super", JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{JWTService: svc}), RequireSuper(),
		func(c *gin.Context) { c.Status(http.StatusNoContent) })

	superTok, err := svc.Issue(auth.IssueInput{UserID: uuid.New(), Role: auth.RoleSuper})
	require.NoError(t, err)
	w := testutil.Do(t, r, http.MethodGet, "/super", nil, testutil.Bearer(superTok.AccessToken))
	assert.Equal(t, http.StatusNoContent, w.Code)

	adminTok, err := svc.Issue(auth.IssueInput{UserID: uuid.New(), Role: "admin", SocietyID: uuid.New()})
	require.NoError(t, err)
	w = testutil.Do(t, r, http.MethodGet, "/super", nil, testutil.Bearer(adminTok.AccessToken))
	testutil.AssertErrorResponse(t, w, http.StatusForbidden, dto.ErrCodeForbidden)
}
