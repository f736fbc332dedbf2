package persistence

import (
	"context"

	"github.com/societyhub/backend/internal/application/scope"
	"github.com/societyhub/backend/internal/infrastructure/tenancy"
)

// ConnResolver returns the connection of a society
type ConnResolver interface {
	Resolve(ctx context.Context, identifier string) (*tenancy.Conn, error)
}

// TenantOpener implements scope.Opener over the connection router
type TenantOpener struct {
	router ConnResolver
}

// NewTenantOpener creates a new TenantOpener
func NewTenantOpener(router ConnResolver) *TenantOpener {
	return &TenantOpener{router: router}
}

// Open resolves identifier and binds repositories to its connection.
// Router errors are returned unchanged.
func (o *TenantOpener) Open(ctx context.Context, identifier string) (scope.Tenant, error) {
	conn, err := o.router.Resolve(ctx, identifier)
	if err != nil {
		return scope.Tenant{}, err
	}
	return TenantOf(conn), nil
}

// TenantOf binds repositories to an already resolved connection
func TenantOf(conn *tenancy.Conn) scope.Tenant {
	return scope.Tenant{Society: conn.Society, Store: NewGormTransactionScope(conn.DB)}
}

var _ scope.Opener = (*TenantOpener)(nil)
