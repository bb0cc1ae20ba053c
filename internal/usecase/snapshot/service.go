package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/stagelens-backend/internal/domain"
	"github.com/simaogato/stagelens-backend/internal/usecase/metrics"
	"github.com/simaogato/stagelens-backend/internal/usecase/pipeline"
)

// CreateInput represents the input for creating a DRAFT snapshot
type CreateInput struct {
	CompanyID  uuid.UUID
	Date       time.Time
	Financials domain.Financials
}

// Details is a snapshot together with its persisted evaluation.
// Evaluation is nil while the snapshot is DRAFT.
type Details struct {
	Snapshot   *domain.Snapshot
	Evaluation *domain.Evaluation
}

// SnapshotService handles the snapshot lifecycle: create, update, finalize, invalidate
type SnapshotService struct {
	CompanyRepo  domain.CompanyRepository
	SnapshotRepo domain.SnapshotRepository
	Pipeline     *pipeline.Pipeline
	Logger       *slog.Logger
	Now          func() time.Time
}

// NewSnapshotService creates a new SnapshotService instance
func NewSnapshotService(companyRepo domain.CompanyRepository, snapshotRepo domain.SnapshotRepository, p *pipeline.Pipeline, logger *slog.Logger) *SnapshotService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotService{
		CompanyRepo:  companyRepo,
		SnapshotRepo: snapshotRepo,
		Pipeline:     p,
		Logger:       logger,
		Now:          func() time.Time { return time.Now().UTC() },
	}
}

// Create creates a DRAFT snapshot for a company.
// Logic:
//  1. Ensure the company exists
//  2. Validate the financial attributes
//  3. Reject a second snapshot for the same company and date
//  4. Derive draft metrics and save
func (s *SnapshotService) Create(ctx context.Context, input CreateInput) (*domain.Snapshot, error) {
	if input.Date.IsZero() {
		return nil, domain.NewInvalidInputError("snapshot_date", "snapshot date is required")
	}

	// 1. Ensure the company exists
	if _, err := s.CompanyRepo.GetByID(ctx, input.CompanyID); err != nil {
		return nil, err
	}

	// 2. Validate
	if err := s.Pipeline.Validator.Validate(input.Financials); err != nil {
		return nil, err
	}

	// 3. One snapshot per company and date
	date := domain.TruncateDate(input.Date)
	exists, err := s.SnapshotRepo.ExistsForDate(ctx, input.CompanyID, date)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.NewDuplicateError(
			fmt.Sprintf("company %s already has a snapshot on %s", input.CompanyID, date.Format(time.DateOnly)))
	}

	// 4. Derive metrics and save
	snap := domain.NewSnapshot(input.CompanyID, date, input.Financials, s.Now())
	if err := metrics.Refresh(snap); err != nil {
		return nil, err
	}

	if err := s.SnapshotRepo.Create(ctx, snap); err != nil {
		return nil, err
	}

	s.Logger.InfoContext(ctx, "snapshot created",
		slog.String("snapshot_id", snap.ID.String()),
		slog.String("company_id", snap.CompanyID.String()),
		slog.String("date", date.Format(time.DateOnly)))
	return snap, nil
}

// UpdateFinancials applies a partial update to a DRAFT snapshot and refreshes its metrics
func (s *SnapshotService) UpdateFinancials(ctx context.Context, id uuid.UUID, update domain.FinancialsUpdate) (*domain.Snapshot, error) {
	snap, err := s.SnapshotRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !snap.IsDraft() {
		return nil, domain.NewImmutabilityError(snap.ID, snap.Status(), "update financial attributes")
	}

	// Validate the merged values before touching the snapshot
	if err := s.Pipeline.Validator.Validate(update.Apply(snap.Financials())); err != nil {
		return nil, err
	}

	if err := snap.UpdateFinancials(update); err != nil {
		return nil, err
	}
	if err := metrics.Refresh(snap); err != nil {
		return nil, err
	}

	if err := s.SnapshotRepo.UpdateDraft(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// Finalize derives the stage of a DRAFT snapshot and freezes it.
// The snapshot, its signals, rule results and contributing signals are saved atomically.
func (s *SnapshotService) Finalize(ctx context.Context, id uuid.UUID) (*domain.Snapshot, *domain.FinalizeResult, error) {
	snap, err := s.SnapshotRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	result, err := s.Pipeline.Finalize(snap, s.Now())
	if err != nil {
		s.Logger.WarnContext(ctx, "snapshot finalization rejected",
			slog.String("snapshot_id", id.String()),
			slog.Any("error", err))
		return nil, nil, err
	}

	if err := s.SnapshotRepo.SaveFinalized(ctx, snap, result); err != nil {
		return nil, nil, err
	}

	s.Logger.InfoContext(ctx, "snapshot finalized",
		slog.String("snapshot_id", snap.ID.String()),
		slog.String("stage", string(result.Stage)),
		slog.String("branch", result.Branch),
		slog.Int("signals", len(result.Signals)),
		slog.Int("contributing", len(result.Contributing)))
	return snap, result, nil
}

// Invalidate marks a FINALIZED snapshot as INVALIDATED with a reason.
// Its financials, stage and evaluation stay as they were.
func (s *SnapshotService) Invalidate(ctx context.Context, id uuid.UUID, reason string) (*domain.Snapshot, error) {
	snap, err := s.SnapshotRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := snap.Invalidate(reason, s.Now()); err != nil {
		return nil, err
	}

	if err := s.SnapshotRepo.SaveInvalidated(ctx, snap); err != nil {
		return nil, err
	}

	s.Logger.InfoContext(ctx, "snapshot invalidated",
		slog.String("snapshot_id", snap.ID.String()),
		slog.String("reason", snap.InvalidationReason()))
	return snap, nil
}

// Get retrieves a snapshot and, once it has been finalized, its evaluation
func (s *SnapshotService) Get(ctx context.Context, id uuid.UUID) (*Details, error) {
	snap, err := s.SnapshotRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	d := &Details{Snapshot: snap}
	if snap.IsDraft() {
		return d, nil
	}

	d.Evaluation, err = s.SnapshotRepo.GetEvaluation(ctx, snap.ID)
	if err != nil {
		return nil, err
	}
	return d, nil
}
