package repository_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/premierlux/premierlux-backend/internal/inventory/repository"
	"github.com/premierlux/premierlux-backend/pkg/database"
	"github.com/premierlux/premierlux-backend/pkg/logger"
	"github.com/premierlux/premierlux-backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newAckRepo(t *testing.T) (*repository.AcknowledgementRepository, *testutil.MockDB) {
	mockDB := testutil.NewMockDB(t)
	db := database.FromSqlx(mockDB.DB, logger.New("test", "development"))
	return repository.NewAcknowledgementRepository(db), mockDB
}

func TestAcknowledge_DoubleAckIsNoOp(t *testing.T) {
	repo, mockDB := newAckRepo(t)
	defer mockDB.Close()

	mockDB.ExpectExec(`ON CONFLICT (alert_id, user_id) DO NOTHING`).
		WithArgs("low-stock-Downtown-Gloves", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Acknowledge(context.Background(), "u1", "low-stock-Downtown-Gloves")
	require.NoError(t, err)

	mockDB.ExpectationsWereMet(t)
}

func TestPruneStale_DeletesOnlyCallersRows(t *testing.T) {
	repo, mockDB := newAckRepo(t)
	defer mockDB.Close()

	active := []string{"low-stock-Downtown-Gloves", "branch-low-Downtown"}

	mockDB.ExpectExec(`WHERE user_id = $1 AND NOT (alert_id = ANY($2))`).
		WithArgs("u1", pq.Array(active)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.PruneStale(context.Background(), "u1", active)
	require.NoError(t, err)

	mockDB.ExpectationsWereMet(t)
}

func TestPruneStale_EmptyActiveSetClearsOnlyCaller(t *testing.T) {
	repo, mockDB := newAckRepo(t)
	defer mockDB.Close()

	// nothing visible to the caller is alerting; other users' rows stay
	mockDB.ExpectExec(`DELETE FROM alert_acknowledgements WHERE user_id = $1`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	err := repo.PruneStale(context.Background(), "u1", nil)
	require.NoError(t, err)

	mockDB.ExpectationsWereMet(t)
}
