package analytics

import (
	"context"
	"time"

	invrepo "github.com/premierlux/premierlux-backend/internal/inventory/repository"
	"github.com/premierlux/premierlux-backend/pkg/logger"
	"github.com/premierlux/premierlux-backend/pkg/scope"
)

var weekLabels = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// MovementSeries is a bucketed stock movement chart
type MovementSeries struct {
	Labels   []string `json:"labels"`
	StockIn  []int    `json:"stock_in"`
	StockOut []int    `json:"stock_out"`
}

// Snapshot is the payload the broadcaster pushes every interval
type Snapshot struct {
	Overview        *Overview       `json:"overview"`
	Movement        *MovementSeries `json:"movement"`
	MovementMonthly *MovementSeries `json:"movement_monthly"`
	LowStock        []LowStockRow   `json:"low_stock"`
	TopProducts     []TopProduct    `json:"top_products"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

// Service computes analytics views
type Service struct {
	repo        *Repository
	consumption *invrepo.ConsumptionRepository
	logger      *logger.Logger
}

// NewService creates a new analytics service
func NewService(repo *Repository, consumption *invrepo.ConsumptionRepository, log *logger.Logger) *Service {
	return &Service{
		repo:        repo,
		consumption: consumption,
		logger:      log.WithComponent("analytics"),
	}
}

// WeekBuckets folds batch intake and consumption into day-of-week buckets
// covering the last seven days. Index 0 is Sunday. Unparseable batch dates
// are skipped.
func WeekBuckets(batches []BatchIntake, usage []invrepo.ConsumptionEntry, now time.Time) *MovementSeries {
	start := now.AddDate(0, 0, -6)
	stockIn := make([]int, 7)
	stockOut := make([]int, 7)

	for _, b := range batches {
		d, err := time.Parse("2006-01-02", b.ReceivedDate)
		if err != nil {
			continue
		}
		if d.Before(start.Truncate(24 * time.Hour)) {
			continue
		}
		stockIn[int(d.Weekday())] += b.Quantity
	}

	for _, u := range usage {
		if u.RecordedAt.Before(start) {
			continue
		}
		idx := int(u.RecordedAt.Weekday())
		if u.Direction == "in" {
			stockIn[idx] += u.Quantity
		} else {
			stockOut[idx] += u.Quantity
		}
	}

	return &MovementSeries{Labels: weekLabels, StockIn: stockIn, StockOut: stockOut}
}

// MonthBuckets folds consumption into the trailing twelve calendar months
func MonthBuckets(usage []invrepo.ConsumptionEntry, now time.Time) *MovementSeries {
	labels := make([]string, 12)
	index := make(map[string]int, 12)

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := 0; i < 12; i++ {
		month := first.AddDate(0, i-11, 0)
		key := month.Format("2006-01")
		labels[i] = month.Format("Jan 2006")
		index[key] = i
	}

	stockIn := make([]int, 12)
	stockOut := make([]int, 12)

	for _, u := range usage {
		idx, ok := index[u.RecordedAt.Format("2006-01")]
		if !ok {
			continue
		}
		if u.Direction == "in" {
			stockIn[idx] += u.Quantity
		} else {
			stockOut[idx] += u.Quantity
		}
	}

	return &MovementSeries{Labels: labels, StockIn: stockIn, StockOut: stockOut}
}

// Overview returns the headline KPIs
func (s *Service) Overview(ctx context.Context, sc scope.Scope) (*Overview, error) {
	return s.repo.Overview(ctx, sc)
}

// WeeklyMovement builds the seven day movement chart
func (s *Service) WeeklyMovement(ctx context.Context, sc scope.Scope) (*MovementSeries, error) {
	now := time.Now()
	since := now.AddDate(0, 0, -6)

	batches, err := s.repo.RecentBatchIntake(ctx, sc, since)
	if err != nil {
		return nil, err
	}

	usage, err := s.consumption.WeeklyMovements(ctx, sc, since)
	if err != nil {
		return nil, err
	}

	return WeekBuckets(batches, usage, now), nil
}

// MonthlyMovement builds the twelve month movement chart
func (s *Service) MonthlyMovement(ctx context.Context, sc scope.Scope) (*MovementSeries, error) {
	now := time.Now()
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -11, 0)

	usage, err := s.consumption.WeeklyMovements(ctx, sc, since)
	if err != nil {
		return nil, err
	}

	return MonthBuckets(usage, now), nil
}

// CategoryTotals sums quantities per category
func (s *Service) CategoryTotals(ctx context.Context, sc scope.Scope) ([]CategoryTotal, error) {
	return s.repo.CategoryTotals(ctx, sc)
}

// LowStock lists items at or below their reorder level
func (s *Service) LowStock(ctx context.Context, sc scope.Scope) ([]LowStockRow, error) {
	return s.repo.LowStock(ctx, sc)
}

// TopProducts ranks the most consumed items
func (s *Service) TopProducts(ctx context.Context, sc scope.Scope) ([]TopProduct, error) {
	return s.repo.TopProducts(ctx, sc, 5)
}

// BranchStock sums quantities per branch
func (s *Service) BranchStock(ctx context.Context, sc scope.Scope) ([]BranchTotal, error) {
	return s.repo.BranchStock(ctx, sc)
}

// BuildSnapshot assembles the full dashboard payload for one scope
func (s *Service) BuildSnapshot(ctx context.Context, sc scope.Scope) (*Snapshot, error) {
	overview, err := s.repo.Overview(ctx, sc)
	if err != nil {
		return nil, err
	}

	weekly, err := s.WeeklyMovement(ctx, sc)
	if err != nil {
		return nil, err
	}

	monthly, err := s.MonthlyMovement(ctx, sc)
	if err != nil {
		return nil, err
	}

	lowStock, err := s.repo.LowStock(ctx, sc)
	if err != nil {
		return nil, err
	}

	topProducts, err := s.repo.TopProducts(ctx, sc, 5)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Overview:        overview,
		Movement:        weekly,
		MovementMonthly: monthly,
		LowStock:        lowStock,
		TopProducts:     topProducts,
		GeneratedAt:     time.Now().UTC(),
	}, nil
}
