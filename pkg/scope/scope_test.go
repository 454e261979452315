package scope_test

import (
	"context"
	"testing"

	"github.com/premierlux/premierlux-backend/pkg/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestricted(t *testing.T) {
	tests := []struct {
		name   string
		branch string
		want   bool
	}{
		{"assigned branch", "Downtown", true},
		{"all branches", scope.AllBranches, false},
		{"empty branch", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := scope.Scope{Role: scope.RoleStaff, Branch: tt.branch}
			assert.Equal(t, tt.want, sc.Restricted())
		})
	}
}

func TestEffectiveBranch_RestrictedCallerAlwaysWins(t *testing.T) {
	sc := scope.Scope{Role: scope.RoleStaff, Branch: "Downtown"}

	// a request parameter must never widen a restricted caller's visibility
	assert.Equal(t, "Downtown", sc.EffectiveBranch("Uptown"))
	assert.Equal(t, "Downtown", sc.EffectiveBranch(scope.AllBranches))
	assert.Equal(t, "Downtown", sc.EffectiveBranch(""))
}

func TestEffectiveBranch_Unrestricted(t *testing.T) {
	sc := scope.Scope{Role: scope.RoleAdmin, Branch: scope.AllBranches}

	assert.Equal(t, "Uptown", sc.EffectiveBranch("Uptown"))
	assert.Equal(t, "", sc.EffectiveBranch(""))
	assert.Equal(t, "", sc.EffectiveBranch(scope.AllBranches))
}

func TestRoleHelpers(t *testing.T) {
	assert.True(t, scope.Scope{Role: scope.RoleOwner}.IsManagement())
	assert.True(t, scope.Scope{Role: scope.RoleAdmin}.IsManagement())
	assert.False(t, scope.Scope{Role: scope.RoleStaff}.IsManagement())

	assert.True(t, scope.Scope{Role: scope.RoleOwner}.IsOwner())
	assert.False(t, scope.Scope{Role: scope.RoleAdmin}.IsOwner())
}

func TestContextRoundTrip(t *testing.T) {
	sc := scope.Scope{UserID: "u1", Email: "a@b", Role: scope.RoleAdmin, Branch: scope.AllBranches}

	ctx := scope.WithScope(context.Background(), sc)
	got, err := scope.FromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, sc, got)
}

func TestFromContext_Missing(t *testing.T) {
	_, err := scope.FromContext(context.Background())
	assert.ErrorIs(t, err, scope.ErrNoScopeInContext)
}

func TestSystemScopeIsUnrestricted(t *testing.T) {
	sys := scope.System()
	assert.False(t, sys.Restricted())
	assert.True(t, sys.IsManagement())
}
