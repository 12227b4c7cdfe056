package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripdesk/tripdesk/internal/shared/logger"
)

func TestCurrencyEnforcer(t *testing.T) {
	enforcer, err := NewCurrencyEnforcer(logger.NewNop())
	require.NoError(t, err)

	tests := []struct {
		role     string
		resource string
		action   string
		want     bool
	}{
		{"admin", "/currency/refresh", "POST", true},
		{"admin", "/currency/refresh", "GET", false},
		{"operator", "/currency/refresh", "POST", false},
		{"", "/currency/refresh", "POST", false},
		{"admin", "/currency/rates", "GET", false},
	}

	for _, tt := range tests {
		allowed, err := enforcer.Enforce(tt.role, tt.resource, tt.action)
		require.NoError(t, err)
		assert.Equal(t, tt.want, allowed, "%s %s %s", tt.role, tt.action, tt.resource)
	}
}

func TestEnforcerRoleInheritance(t *testing.T) {
	enforcer, err := NewCurrencyEnforcer(logger.NewNop())
	require.NoError(t, err)

	require.NoError(t, enforcer.AddRoleInheritance("superadmin", "admin"))

	allowed, err := enforcer.Enforce("superadmin", "/currency/refresh", "POST")
	require.NoError(t, err)
	assert.True(t, allowed)

	perms, err := enforcer.GetPermissionsForRole("superadmin")
	require.NoError(t, err)
	assert.Contains(t, perms, []string{"admin", "/currency/refresh", "POST"})
}

func TestEnforcerPathPatterns(t *testing.T) {
	enforcer, err := NewEnforcer(logger.NewNop())
	require.NoError(t, err)

	require.NoError(t, enforcer.AddPolicy("operator", "/currency/info/:code", "GET"))

	allowed, err := enforcer.Enforce("operator", "/currency/info/EUR", "GET")
	require.NoError(t, err)
	assert.True(t, allowed)

	require.NoError(t, enforcer.RemovePolicy("operator", "/currency/info/:code", "GET"))
	allowed, err = enforcer.Enforce("operator", "/currency/info/EUR", "GET")
	require.NoError(t, err)
	assert.False(t, allowed)
}
