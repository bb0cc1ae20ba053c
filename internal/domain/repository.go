package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CompanyRepository defines the interface for company persistence operations
type CompanyRepository interface {
	// Create creates a new company
	Create(ctx context.Context, company *Company) error

	// GetByID retrieves a company by its ID
	// Returns an ErrNotFound error if it does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*Company, error)
}

// SnapshotRepository defines the interface for snapshot persistence operations.
// Implementations are responsible for the (company, date) uniqueness constraint
// and for serializing concurrent lifecycle transitions on the same snapshot.
type SnapshotRepository interface {
	// Create inserts a new DRAFT snapshot
	// Returns an ErrDuplicate error if the company already has a snapshot on that date
	Create(ctx context.Context, snapshot *Snapshot) error

	// GetByID retrieves a snapshot in any status
	GetByID(ctx context.Context, id uuid.UUID) (*Snapshot, error)

	// ExistsForDate reports whether the company has a snapshot (any status) on that date
	ExistsForDate(ctx context.Context, companyID uuid.UUID, date time.Time) (bool, error)

	// UpdateDraft persists financials and metrics of a snapshot that is still DRAFT
	UpdateDraft(ctx context.Context, snapshot *Snapshot) error

	// SaveFinalized atomically persists the finalized snapshot with its signals,
	// rule results and contributing signals. It fails with an ErrTransition error
	// if the stored snapshot is no longer DRAFT.
	SaveFinalized(ctx context.Context, snapshot *Snapshot, result *FinalizeResult) error

	// SaveInvalidated persists the invalidation of a snapshot that is stored as FINALIZED
	SaveInvalidated(ctx context.Context, snapshot *Snapshot) error

	// GetEvaluation retrieves the signals, rule results and contributing signals of a snapshot
	GetEvaluation(ctx context.Context, snapshotID uuid.UUID) (*Evaluation, error)

	// ListFinalizedByCompany retrieves the FINALIZED snapshots of a company ordered by date ascending
	ListFinalizedByCompany(ctx context.Context, companyID uuid.UUID) ([]*Snapshot, error)

	// GetFinalizedByCompanyAndDate retrieves the FINALIZED snapshot of a company on a date
	GetFinalizedByCompanyAndDate(ctx context.Context, companyID uuid.UUID, date time.Time) (*Snapshot, error)
}

// DefinitionRepository defines the interface for the signal/rule/stage definition catalog
type DefinitionRepository interface {
	// GetByKindAndName retrieves a definition, or an ErrNotFound error
	GetByKindAndName(ctx context.Context, kind DefinitionKind, name string) (*Definition, error)

	// Create creates a new definition
	Create(ctx context.Context, def *Definition) error
}

// Evaluation is the persisted output of a finalized snapshot's derivation
type Evaluation struct {
	Signals      []Signal
	RuleResults  []RuleResult
	Contributing []ContributingSignal
}
