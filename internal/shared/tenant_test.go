package shared

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTenantValid(t *testing.T) {
	assert.True(t, Tenant{CompanyCode: "C100"}.Valid())
	assert.False(t, Tenant{}.Valid())
	assert.False(t, Tenant{CompanyCode: "   "}.Valid())
}

func TestTenantContextRoundTrip(t *testing.T) {
	ctx := ContextWithTenant(context.Background(), Tenant{CompanyCode: "C100"})

	got, ok := TenantFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "C100", got.CompanyCode)
}

func TestTenantFromContextMissing(t *testing.T) {
	_, ok := TenantFromContext(context.Background())
	assert.False(t, ok)
}

func TestTenantFromContextInvalid(t *testing.T) {
	ctx := ContextWithTenant(context.Background(), Tenant{})
	_, ok := TenantFromContext(ctx)
	assert.False(t, ok)
}
