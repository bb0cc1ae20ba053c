package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/stagelens-backend/internal/domain"
	"github.com/simaogato/stagelens-backend/internal/usecase/trend"
	"golang.org/x/sync/errgroup"
)

// TimelineItem is one finalized snapshot in a company's history
type TimelineItem struct {
	SnapshotID      uuid.UUID
	Date            time.Time
	Stage           domain.Stage
	MonthlyRevenue  decimal.NullDecimal
	MonthlyBurn     decimal.NullDecimal
	RunwayMonths    decimal.NullDecimal
	StageTransition string // "IDEA -> PRE_SEED" when the stage changed, empty otherwise
}

// MetricValues are the values compared between two snapshots
type MetricValues struct {
	MonthlyRevenue decimal.NullDecimal
	MonthlyBurn    decimal.NullDecimal
	RunwayMonths   decimal.NullDecimal
}

// Comparison describes how a company moved between two finalized snapshots
type Comparison struct {
	FromDate     time.Time
	ToDate       time.Time
	FromStage    domain.Stage
	ToStage      domain.Stage
	StageChanged bool
	From         MetricValues
	To           MetricValues
	Delta        MetricValues // To - From, unset when either side is unset
}

// HistoryService reads finalized snapshot history. DRAFT and INVALIDATED snapshots are never included.
type HistoryService struct {
	SnapshotRepo domain.SnapshotRepository
}

// NewHistoryService creates a new HistoryService instance
func NewHistoryService(snapshotRepo domain.SnapshotRepository) *HistoryService {
	return &HistoryService{SnapshotRepo: snapshotRepo}
}

// Timeline lists a company's finalized snapshots, earliest first, marking stage transitions
func (s *HistoryService) Timeline(ctx context.Context, companyID uuid.UUID) ([]TimelineItem, error) {
	snapshots, err := s.SnapshotRepo.ListFinalizedByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return BuildTimeline(snapshots), nil
}

// BuildTimeline turns chronologically ordered finalized snapshots into timeline items
func BuildTimeline(snapshots []*domain.Snapshot) []TimelineItem {
	items := make([]TimelineItem, 0, len(snapshots))
	var previous domain.Stage

	for i, snap := range snapshots {
		stage, _ := snap.Stage()
		m := snap.Metrics()

		item := TimelineItem{
			SnapshotID:     snap.ID,
			Date:           snap.Date,
			Stage:          stage,
			MonthlyRevenue: snap.Financials().MonthlyRevenue,
			MonthlyBurn:    m.MonthlyBurn,
			RunwayMonths:   m.RunwayMonths,
		}
		if i > 0 && stage != previous {
			item.StageTransition = fmt.Sprintf("%s -> %s", previous, stage)
		}

		items = append(items, item)
		previous = stage
	}
	return items
}

// Compare loads the finalized snapshots of a company on two dates and computes deltas.
// Either snapshot missing or not FINALIZED is a not found error.
func (s *HistoryService) Compare(ctx context.Context, companyID uuid.UUID, from, to time.Time) (*Comparison, error) {
	from, to = domain.TruncateDate(from), domain.TruncateDate(to)

	var fromSnap, toSnap *domain.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		fromSnap, err = s.finalizedOn(gctx, companyID, from)
		return err
	})
	g.Go(func() error {
		var err error
		toSnap, err = s.finalizedOn(gctx, companyID, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return BuildComparison(fromSnap, toSnap), nil
}

func (s *HistoryService) finalizedOn(ctx context.Context, companyID uuid.UUID, date time.Time) (*domain.Snapshot, error) {
	snap, err := s.SnapshotRepo.GetFinalizedByCompanyAndDate(ctx, companyID, date)
	if err != nil {
		return nil, err
	}
	if snap == nil || !snap.IsFinalized() {
		return nil, domain.NewNotFoundError(fmt.Sprintf(
			"no finalized snapshot for company %s on %s", companyID, date.Format(time.DateOnly)))
	}
	return snap, nil
}

// BuildComparison compares two finalized snapshots
func BuildComparison(from, to *domain.Snapshot) *Comparison {
	fromStage, _ := from.Stage()
	toStage, _ := to.Stage()
	fv, tv := values(from), values(to)

	return &Comparison{
		FromDate:     from.Date,
		ToDate:       to.Date,
		FromStage:    fromStage,
		ToStage:      toStage,
		StageChanged: fromStage != toStage,
		From:         fv,
		To:           tv,
		Delta: MetricValues{
			MonthlyRevenue: delta(fv.MonthlyRevenue, tv.MonthlyRevenue),
			MonthlyBurn:    delta(fv.MonthlyBurn, tv.MonthlyBurn),
			RunwayMonths:   delta(fv.RunwayMonths, tv.RunwayMonths),
		},
	}
}

// Trends builds the time series and trend indicators of a company's finalized snapshots
func (s *HistoryService) Trends(ctx context.Context, companyID uuid.UUID) (trend.Series, error) {
	snapshots, err := s.SnapshotRepo.ListFinalizedByCompany(ctx, companyID)
	if err != nil {
		return trend.Series{}, err
	}
	return trend.Build(snapshots), nil
}

func values(s *domain.Snapshot) MetricValues {
	m := s.Metrics()
	return MetricValues{
		MonthlyRevenue: s.Financials().MonthlyRevenue,
		MonthlyBurn:    m.MonthlyBurn,
		RunwayMonths:   m.RunwayMonths,
	}
}

func delta(from, to decimal.NullDecimal) decimal.NullDecimal {
	if !from.Valid || !to.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(to.Decimal.Sub(from.Decimal))
}
