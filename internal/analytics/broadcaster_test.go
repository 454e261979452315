package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/premierlux/premierlux-backend/internal/analytics"
	invrepo "github.com/premierlux/premierlux-backend/internal/inventory/repository"
	"github.com/premierlux/premierlux-backend/pkg/database"
	"github.com/premierlux/premierlux-backend/pkg/logger"
	"github.com/premierlux/premierlux-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	snapshots chan *analytics.Snapshot
}

func newCaptureSink() *captureSink {
	return &captureSink{snapshots: make(chan *analytics.Snapshot, 1)}
}

func (s *captureSink) Emit(_ context.Context, snap *analytics.Snapshot) error {
	select {
	case s.snapshots <- snap:
	default:
	}
	return nil
}

func newBroadcasterService(t *testing.T) (*analytics.Service, *testutil.MockDB) {
	mockDB := testutil.NewMockDB(t)
	log := logger.New("test", "development")
	db := database.FromSqlx(mockDB.DB, log)

	svc := analytics.NewService(analytics.NewRepository(db), invrepo.NewConsumptionRepository(db), log)
	return svc, mockDB
}

// expectSnapshotQueries queues the result set for one full snapshot build:
// overview, batch intake, weekly and monthly movements, low stock, top
// products.
func expectSnapshotQueries(mockDB *testutil.MockDB) {
	movementColumns := []string{"id", "item_name", "branch", "quantity", "direction", "recorded_by", "recorded_at"}

	mockDB.Mock.ExpectQuery("SELECT").WillReturnRows(
		testutil.MockRows("new_items", "batches_7d", "total_items", "branches").AddRow(2, 1, 40, 3))
	mockDB.Mock.ExpectQuery("SELECT").WillReturnRows(
		testutil.MockRows("received_date", "quantity"))
	mockDB.Mock.ExpectQuery("SELECT").WillReturnRows(
		testutil.MockRows(movementColumns...))
	mockDB.Mock.ExpectQuery("SELECT").WillReturnRows(
		testutil.MockRows(movementColumns...))
	mockDB.Mock.ExpectQuery("SELECT").WillReturnRows(
		testutil.MockRows("name", "quantity").AddRow("Gloves", 2))
	mockDB.Mock.ExpectQuery("SELECT").WillReturnRows(
		testutil.MockRows("name", "used", "total_cost"))
}

func TestBroadcaster_EmitsSnapshotOnTick(t *testing.T) {
	svc, mockDB := newBroadcasterService(t)
	defer mockDB.Close()
	expectSnapshotQueries(mockDB)

	sink := newCaptureSink()
	b := analytics.NewBroadcaster(svc, 10*time.Millisecond, logger.New("test", "development"), sink)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(done)
	}()

	select {
	case snap := <-sink.snapshots:
		require.NotNil(t, snap.Overview)
		assert.Equal(t, 40, snap.Overview.TotalItems)
		require.Len(t, snap.LowStock, 1)
		assert.Equal(t, "Gloves", snap.LowStock[0].Name)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot emitted")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcaster did not stop on cancel")
	}
}

func TestBroadcaster_KeepsRunningWhenBuildFails(t *testing.T) {
	// no expectations queued, so every snapshot build errors out
	svc, mockDB := newBroadcasterService(t)
	defer mockDB.Close()

	b := analytics.NewBroadcaster(svc, 5*time.Millisecond, logger.New("test", "development"), newCaptureSink())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(done)
	}()

	// let a few failing ticks elapse, then verify shutdown still works
	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcaster did not stop on cancel")
	}
}

func TestBroadcaster_DefaultsInterval(t *testing.T) {
	svc, mockDB := newBroadcasterService(t)
	defer mockDB.Close()

	// a non-positive interval must not panic the ticker
	b := analytics.NewBroadcaster(svc, 0, logger.New("test", "development"))
	require.NotNil(t, b)
}
