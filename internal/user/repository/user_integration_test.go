package repository_test

import (
	"context"
	"flag"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/premierlux/premierlux-backend/internal/user/repository"
	"github.com/premierlux/premierlux-backend/pkg/errors"
	"github.com/premierlux/premierlux-backend/pkg/scope"
	"github.com/premierlux/premierlux-backend/pkg/testutil"
)

var suite *testutil.IntegrationSuite

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()

	var err error
	suite, err = testutil.NewIntegrationSuite(ctx)
	if err != nil {
		log.Fatalf("failed to create integration suite: %v", err)
	}
	defer testutil.TerminateContainer(ctx)

	os.Exit(m.Run())
}

func requireSuite(t *testing.T) {
	t.Helper()
	if suite == nil {
		t.Skip("integration suite disabled in short mode")
	}
}

func seedUser(t *testing.T, ctx context.Context, repo *repository.UserRepository, email, role string) *repository.User {
	t.Helper()
	u := &repository.User{
		Email:        email,
		PasswordHash: "x",
		Name:         "Test User",
		Role:         role,
		Branch:       scope.AllBranches,
	}
	require.NoError(t, repo.Create(ctx, u))
	return u
}

func TestUserRepository_CreateAndLookup(t *testing.T) {
	requireSuite(t)
	ctx := context.Background()
	suite.Truncate(t, ctx, "users")

	repo := repository.NewUserRepository(suite.DB)
	created := seedUser(t, ctx, repo, "lookup@premierlux.test", scope.RoleAdmin)
	assert.False(t, created.CreatedAt.IsZero())

	byEmail, err := repo.GetByEmail(ctx, "lookup@premierlux.test")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, scope.RoleAdmin, byEmail.Role)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "lookup@premierlux.test", byID.Email)
}

func TestUserRepository_DuplicateEmailConflicts(t *testing.T) {
	requireSuite(t)
	ctx := context.Background()
	suite.Truncate(t, ctx, "users")

	repo := repository.NewUserRepository(suite.DB)
	seedUser(t, ctx, repo, "dup@premierlux.test", scope.RoleStaff)

	err := repo.Create(ctx, &repository.User{
		Email: "dup@premierlux.test", PasswordHash: "x", Name: "Dup",
		Role: scope.RoleStaff, Branch: scope.AllBranches,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConflict))
}

func TestUserRepository_UpdateMissingUser(t *testing.T) {
	requireSuite(t)
	ctx := context.Background()
	suite.Truncate(t, ctx, "users")

	repo := repository.NewUserRepository(suite.DB)

	err := repo.Update(ctx, &repository.User{
		ID: "00000000-0000-0000-0000-000000000000", Name: "Ghost",
		Role: scope.RoleStaff, Branch: scope.AllBranches,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestUserRepository_CountByRole(t *testing.T) {
	requireSuite(t)
	ctx := context.Background()
	suite.Truncate(t, ctx, "users")

	repo := repository.NewUserRepository(suite.DB)
	seedUser(t, ctx, repo, "owner@premierlux.test", scope.RoleOwner)
	seedUser(t, ctx, repo, "staff1@premierlux.test", scope.RoleStaff)
	seedUser(t, ctx, repo, "staff2@premierlux.test", scope.RoleStaff)

	owners, err := repo.CountByRole(ctx, scope.RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, 1, owners)

	staff, err := repo.CountByRole(ctx, scope.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, 2, staff)
}

func TestAuditRepository_RecordListClear(t *testing.T) {
	requireSuite(t)
	ctx := context.Background()
	suite.Truncate(t, ctx, "audit_logs")

	repo := repository.NewAuditRepository(suite.DB)

	for _, action := range []string{"Login", "Create User", "Delete User"} {
		err := repo.Record(ctx, &repository.AuditEntry{
			UserEmail: "owner@premierlux.test",
			Action:    action,
			Details:   "integration",
		})
		require.NoError(t, err)
	}

	entries, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Delete User", entries[0].Action)

	removed, err := repo.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	entries, err = repo.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSettingsRepository_LockdownRoundTrip(t *testing.T) {
	requireSuite(t)
	ctx := context.Background()
	suite.Truncate(t, ctx, "settings")

	repo := repository.NewSettingsRepository(suite.DB)

	state, err := repo.Lockdown(ctx)
	require.NoError(t, err)
	assert.False(t, state.Enabled)

	err = repo.SetLockdown(ctx, repository.LockdownState{
		Enabled:   true,
		Reason:    "maintenance",
		EnabledBy: "owner@premierlux.test",
	})
	require.NoError(t, err)

	state, err = repo.Lockdown(ctx)
	require.NoError(t, err)
	assert.True(t, state.Enabled)
	assert.Equal(t, "maintenance", state.Reason)

	err = repo.SetLockdown(ctx, repository.LockdownState{Enabled: false})
	require.NoError(t, err)

	state, err = repo.Lockdown(ctx)
	require.NoError(t, err)
	assert.False(t, state.Enabled)
}
