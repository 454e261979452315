package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	invrepo "github.com/premierlux/premierlux-backend/internal/inventory/repository"
	"github.com/premierlux/premierlux-backend/internal/user"
	"github.com/premierlux/premierlux-backend/internal/user/repository"
	"github.com/premierlux/premierlux-backend/pkg/database"
	"github.com/premierlux/premierlux-backend/pkg/errors"
	"github.com/premierlux/premierlux-backend/pkg/logger"
	"github.com/premierlux/premierlux-backend/pkg/scope"
	"github.com/premierlux/premierlux-backend/pkg/testutil"
)

var userTestColumns = []string{
	"id", "email", "password_hash", "name", "role", "branch", "created_at", "updated_at",
}

var testTime = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

func newUserService(t *testing.T) (*user.Service, *testutil.MockDB) {
	t.Helper()

	mockDB := testutil.NewMockDB(t)
	log := logger.New("user-test", "development")
	db := database.FromSqlx(mockDB.DB, log)

	svc := user.NewService(user.Deps{
		Users:    repository.NewUserRepository(db),
		Settings: repository.NewSettingsRepository(db),
		Audit:    repository.NewAuditRepository(db),
		Acks:     invrepo.NewAcknowledgementRepository(db),
		Logger:   log,
	})
	return svc, mockDB
}

func ownerScope() scope.Scope {
	return scope.Scope{UserID: "u-owner", Email: "owner@test", Role: scope.RoleOwner, Branch: scope.AllBranches}
}

func adminUserScope() scope.Scope {
	return scope.Scope{UserID: "u-admin", Email: "admin@test", Role: scope.RoleAdmin, Branch: scope.AllBranches}
}

func staffUserScope() scope.Scope {
	return scope.Scope{UserID: "u-staff", Email: "staff@test", Role: scope.RoleStaff, Branch: "Downtown"}
}

func expectAuditRecord(mockDB *testutil.MockDB, action string) {
	mockDB.ExpectQuery(`INSERT INTO audit_logs`).
		WithArgs(testutil.AnyUUID{}, sqlmock.AnyArg(), action, sqlmock.AnyArg()).
		WillReturnRows(testutil.MockRows("created_at").AddRow(testTime))
}

func TestCreate_StaffForbidden(t *testing.T) {
	svc, _ := newUserService(t)

	_, err := svc.Create(context.Background(), staffUserScope(), user.CreateInput{
		Name: "New", Email: "new@test", Password: "pass", Role: scope.RoleStaff,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrForbidden))
}

func TestCreate_AdminCannotCreateAdmin(t *testing.T) {
	svc, _ := newUserService(t)

	_, err := svc.Create(context.Background(), adminUserScope(), user.CreateInput{
		Name: "New", Email: "new@test", Password: "pass", Role: scope.RoleAdmin,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrForbidden))
}

func TestCreate_NobodyCreatesASecondOwner(t *testing.T) {
	svc, _ := newUserService(t)

	_, err := svc.Create(context.Background(), ownerScope(), user.CreateInput{
		Name: "New", Email: "new@test", Password: "pass", Role: scope.RoleOwner,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrForbidden))
}

func TestCreate_DefaultsRoleAndBranch(t *testing.T) {
	svc, mockDB := newUserService(t)

	mockDB.ExpectQuery(`INSERT INTO users`).
		WithArgs(testutil.AnyUUID{}, "new@test", sqlmock.AnyArg(), "New Staffer", scope.RoleStaff, scope.AllBranches).
		WillReturnRows(testutil.MockRows("created_at", "updated_at").
			AddRow(testTime, testTime))
	expectAuditRecord(mockDB, "Create User")

	created, err := svc.Create(context.Background(), adminUserScope(), user.CreateInput{
		Name: "New Staffer", Email: "new@test", Password: "pass",
	})

	require.NoError(t, err)
	assert.Equal(t, scope.RoleStaff, created.Role)
	assert.Equal(t, scope.AllBranches, created.Branch)
	assert.NotEmpty(t, created.PasswordHash)
	mockDB.ExpectationsWereMet(t)
}

func TestDelete_OwnerAccountIsProtected(t *testing.T) {
	svc, mockDB := newUserService(t)

	mockDB.ExpectQuery(`FROM users WHERE id = $1`).
		WithArgs("u-owner").
		WillReturnRows(testutil.MockRows(userTestColumns...).AddRow(
			"u-owner", "owner@test", "hash", "Owner", scope.RoleOwner, scope.AllBranches,
			testTime, testTime,
		))

	err := svc.Delete(context.Background(), ownerScope(), "u-owner")

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrForbidden))
	assert.Contains(t, err.Error(), "System Owner")
	mockDB.ExpectationsWereMet(t)
}

func TestDelete_AdminCannotDeleteAdmin(t *testing.T) {
	svc, mockDB := newUserService(t)

	mockDB.ExpectQuery(`FROM users WHERE id = $1`).
		WithArgs("u-other").
		WillReturnRows(testutil.MockRows(userTestColumns...).AddRow(
			"u-other", "other@test", "hash", "Other Admin", scope.RoleAdmin, scope.AllBranches,
			testTime, testTime,
		))

	err := svc.Delete(context.Background(), adminUserScope(), "u-other")

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrForbidden))
	mockDB.ExpectationsWereMet(t)
}

func TestDelete_AdminDeletesStaff(t *testing.T) {
	svc, mockDB := newUserService(t)

	mockDB.ExpectQuery(`FROM users WHERE id = $1`).
		WithArgs("u-staff").
		WillReturnRows(testutil.MockRows(userTestColumns...).AddRow(
			"u-staff", "staff@test", "hash", "Staffer", scope.RoleStaff, "Downtown",
			testTime, testTime,
		))
	mockDB.ExpectExec(`DELETE FROM users WHERE id = $1`).
		WithArgs("u-staff").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectExec(`DELETE FROM alert_acknowledgements WHERE user_id = $1`).
		WithArgs("u-staff").
		WillReturnResult(sqlmock.NewResult(0, 2))
	expectAuditRecord(mockDB, "Delete User")

	err := svc.Delete(context.Background(), adminUserScope(), "u-staff")

	require.NoError(t, err)
	mockDB.ExpectationsWereMet(t)
}

func TestUpdate_ResetsPasswordWhenProvided(t *testing.T) {
	svc, mockDB := newUserService(t)

	mockDB.ExpectQuery(`FROM users WHERE id = $1`).
		WithArgs("u-staff").
		WillReturnRows(testutil.MockRows(userTestColumns...).AddRow(
			"u-staff", "staff@test", "hash", "Staffer", scope.RoleStaff, "Downtown",
			testTime, testTime,
		))
	mockDB.ExpectExec(`UPDATE users SET name = $2`).
		WithArgs("u-staff", "Staffer", scope.RoleStaff, "Downtown").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectExec(`UPDATE users SET password_hash = $2`).
		WithArgs("u-staff", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectAuditRecord(mockDB, "Reset Password")

	err := svc.Update(context.Background(), adminUserScope(), &repository.User{
		ID: "u-staff", Name: "Staffer", Role: scope.RoleStaff, Branch: "Downtown",
	}, "fresh-password-1")

	require.NoError(t, err)
	mockDB.ExpectationsWereMet(t)
}

func TestSetLockdown_OwnerOnly(t *testing.T) {
	svc, _ := newUserService(t)

	err := svc.SetLockdown(context.Background(), adminUserScope(), true)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrForbidden))
}

func TestClearAuditLogs_ReportsRemovedCount(t *testing.T) {
	svc, mockDB := newUserService(t)

	mockDB.ExpectExec(`DELETE FROM audit_logs`).
		WillReturnResult(sqlmock.NewResult(0, 7))
	expectAuditRecord(mockDB, "Wipe Data")

	removed, err := svc.ClearAuditLogs(context.Background(), ownerScope())

	require.NoError(t, err)
	assert.Equal(t, int64(7), removed)
	mockDB.ExpectationsWereMet(t)
}

func TestBroadcast_RequiresEventBus(t *testing.T) {
	svc, _ := newUserService(t)

	err := svc.Broadcast(context.Background(), ownerScope(), "maintenance at noon")

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInternal))
}
