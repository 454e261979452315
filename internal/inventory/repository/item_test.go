package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/premierlux/premierlux-backend/internal/inventory/repository"
	"github.com/premierlux/premierlux-backend/pkg/database"
	"github.com/premierlux/premierlux-backend/pkg/errors"
	"github.com/premierlux/premierlux-backend/pkg/logger"
	"github.com/premierlux/premierlux-backend/pkg/scope"
	"github.com/premierlux/premierlux-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var itemTestColumns = []string{
	"id", "name", "category", "quantity", "unit", "branch", "supplier",
	"reorder_level", "avg_daily_usage", "lead_time_days", "safety_stock",
	"unit_cost", "expiry_date", "created_at", "updated_at",
}

func itemRow(id, name, branch string, quantity int) *sqlmock.Rows {
	now := time.Now()
	return testutil.MockRows(itemTestColumns...).
		AddRow(id, name, "Consumables", quantity, "box", branch, "Acme Dental",
			10, 1.5, 7, 5, 12.50, "", now, now)
}

func newItemRepo(t *testing.T) (*repository.ItemRepository, *testutil.MockDB) {
	mockDB := testutil.NewMockDB(t)
	db := database.FromSqlx(mockDB.DB, logger.New("test", "development"))
	return repository.NewItemRepository(db), mockDB
}

func unrestricted() scope.Scope {
	return scope.Scope{UserID: "u1", Email: "admin@test", Role: scope.RoleAdmin, Branch: scope.AllBranches}
}

func restricted(branch string) scope.Scope {
	return scope.Scope{UserID: "u2", Email: "staff@test", Role: scope.RoleStaff, Branch: branch}
}

func TestList_RestrictedScopePinsBranch(t *testing.T) {
	repo, mockDB := newItemRepo(t)
	defer mockDB.Close()

	// the caller asks for another branch; their own must win
	mockDB.ExpectQuery(`AND branch = $1`).
		WithArgs("Downtown").
		WillReturnRows(itemRow("i1", "Gloves", "Downtown", 30))

	items, err := repo.List(context.Background(), restricted("Downtown"), repository.ItemFilter{Branch: "Uptown"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Downtown", items[0].Branch)

	mockDB.ExpectationsWereMet(t)
}

func TestList_UnrestrictedHonorsFilter(t *testing.T) {
	repo, mockDB := newItemRepo(t)
	defer mockDB.Close()

	mockDB.ExpectQuery(`AND branch = $1`).
		WithArgs("Uptown").
		WillReturnRows(testutil.MockRows(itemTestColumns...))

	_, err := repo.List(context.Background(), unrestricted(), repository.ItemFilter{Branch: "Uptown"})
	require.NoError(t, err)

	mockDB.ExpectationsWereMet(t)
}

func TestAdjustQuantity_AppliesDeltaAndLogs(t *testing.T) {
	repo, mockDB := newItemRepo(t)
	defer mockDB.Close()

	mockDB.ExpectBegin()
	mockDB.ExpectQuery(`FOR UPDATE`).
		WithArgs("i1").
		WillReturnRows(itemRow("i1", "Gloves", "Downtown", 30))
	mockDB.ExpectExec(`UPDATE inventory_items SET quantity = $2`).
		WithArgs("i1", 20).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectExec(`INSERT INTO consumption_log`).
		WithArgs("Gloves", "Downtown", 10, "out", "Restock Correction", "", "admin@test").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mockDB.ExpectCommit()

	adj, err := repo.AdjustQuantity(context.Background(), unrestricted(), "i1", -10, "Restock Correction", "")
	require.NoError(t, err)
	assert.Equal(t, -10, adj.AppliedDelta)
	assert.Equal(t, "out", adj.Direction)
	assert.Equal(t, 20, adj.Item.Quantity)

	mockDB.ExpectationsWereMet(t)
}

func TestAdjustQuantity_ClampsAtZeroButLogsRequestedDelta(t *testing.T) {
	repo, mockDB := newItemRepo(t)
	defer mockDB.Close()

	mockDB.ExpectBegin()
	mockDB.ExpectQuery(`FOR UPDATE`).
		WithArgs("i1").
		WillReturnRows(itemRow("i1", "Gloves", "Downtown", 3))
	mockDB.ExpectExec(`UPDATE inventory_items SET quantity = $2`).
		WithArgs("i1", 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// quantity floors at zero but the log keeps the full requested usage
	mockDB.ExpectExec(`INSERT INTO consumption_log`).
		WithArgs("Gloves", "Downtown", 5, "out", "Manual Adjustment", "broke a box", "admin@test").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mockDB.ExpectCommit()

	adj, err := repo.AdjustQuantity(context.Background(), unrestricted(), "i1", -5, "Manual Adjustment", "broke a box")
	require.NoError(t, err)
	assert.Equal(t, -3, adj.AppliedDelta)
	assert.Equal(t, "out", adj.Direction)
	assert.Equal(t, 0, adj.Item.Quantity)

	mockDB.ExpectationsWereMet(t)
}

func TestAdjustQuantity_AlreadyAtZeroStillLogs(t *testing.T) {
	repo, mockDB := newItemRepo(t)
	defer mockDB.Close()

	mockDB.ExpectBegin()
	mockDB.ExpectQuery(`FOR UPDATE`).
		WithArgs("i1").
		WillReturnRows(itemRow("i1", "Gloves", "Downtown", 0))
	mockDB.ExpectExec(`UPDATE inventory_items SET quantity = $2`).
		WithArgs("i1", 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectExec(`INSERT INTO consumption_log`).
		WithArgs("Gloves", "Downtown", 10, "out", "Manual Adjustment", "", "admin@test").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mockDB.ExpectCommit()

	adj, err := repo.AdjustQuantity(context.Background(), unrestricted(), "i1", -10, "Manual Adjustment", "")
	require.NoError(t, err)
	assert.Equal(t, 0, adj.AppliedDelta)

	mockDB.ExpectationsWereMet(t)
}

func TestDelete_CascadesToBatches(t *testing.T) {
	repo, mockDB := newItemRepo(t)
	defer mockDB.Close()

	mockDB.ExpectBegin()
	mockDB.ExpectQuery(`DELETE FROM inventory_items WHERE id = $1 RETURNING name, branch`).
		WithArgs("i1").
		WillReturnRows(testutil.MockRows("name", "branch").AddRow("Gloves", "Downtown"))
	mockDB.ExpectExec(`DELETE FROM batches WHERE product_name = $1 AND branch = $2`).
		WithArgs("Gloves", "Downtown").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mockDB.ExpectCommit()

	err := repo.Delete(context.Background(), unrestricted(), "i1")
	require.NoError(t, err)

	mockDB.ExpectationsWereMet(t)
}

func TestDelete_MissingItemRollsBack(t *testing.T) {
	repo, mockDB := newItemRepo(t)
	defer mockDB.Close()

	mockDB.ExpectBegin()
	mockDB.ExpectQuery(`DELETE FROM inventory_items WHERE id = $1 AND branch = $2 RETURNING name, branch`).
		WithArgs("missing", "Downtown").
		WillReturnRows(testutil.MockRows("name", "branch"))
	mockDB.ExpectRollback()

	err := repo.Delete(context.Background(), restricted("Downtown"), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	mockDB.ExpectationsWereMet(t)
}

func TestAdjustQuantity_NotFoundRollsBack(t *testing.T) {
	repo, mockDB := newItemRepo(t)
	defer mockDB.Close()

	mockDB.ExpectBegin()
	mockDB.ExpectQuery(`FOR UPDATE`).
		WithArgs("missing", "Downtown").
		WillReturnRows(testutil.MockRows(itemTestColumns...))
	mockDB.ExpectRollback()

	_, err := repo.AdjustQuantity(context.Background(), restricted("Downtown"), "missing", 5, "Manual Adjustment", "")
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	mockDB.ExpectationsWereMet(t)
}
