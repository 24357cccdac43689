package shared

import (
	"context"
	"errors"
	"strings"
)

// ErrTenantRequired indicates a request arrived without a company code.
var ErrTenantRequired = errors.New("company code required")

// Tenant identifies one company. Every repository call takes it explicitly;
// the context value exists only so HTTP middleware can hand it to handlers.
type Tenant struct {
	CompanyCode string
}

// Valid reports whether the tenant carries a usable company code.
func (t Tenant) Valid() bool {
	return strings.TrimSpace(t.CompanyCode) != ""
}

type tenantContextKey struct{}

// ContextWithTenant stores the tenant in context.
func ContextWithTenant(ctx context.Context, t Tenant) context.Context {
	return context.WithValue(ctx, tenantContextKey{}, t)
}

// TenantFromContext extracts the tenant from context.
func TenantFromContext(ctx context.Context) (Tenant, bool) {
	t, ok := ctx.Value(tenantContextKey{}).(Tenant)
	return t, ok && t.Valid()
}
