package server

import (
	"context"

	"cstsite/internal/models"
)

type authContextKey struct{}

// authPrincipal is the identity attached to a request after the bearer
// guard admits it. Degraded is true when the store lookup failed and the
// guard trusted the token claims alone.
type authPrincipal struct {
	AdminID  string
	Username string
	Role     models.AdminRole
	Degraded bool
}

func (p authPrincipal) IsSuperAdmin() bool {
	return p.Role == models.RoleSuperAdmin
}

func contextWithAuthPrincipal(ctx context.Context, principal authPrincipal) context.Context {
	return context.WithValue(ctx, authContextKey{}, principal)
}

func authPrincipalFromContext(ctx context.Context) (authPrincipal, bool) {
	if ctx == nil {
		return authPrincipal{}, false
	}
	principal, ok := ctx.Value(authContextKey{}).(authPrincipal)
	return principal, ok
}
