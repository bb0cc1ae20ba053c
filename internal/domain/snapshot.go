package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Financials holds the raw financial attributes of a snapshot.
// Each value is optional; absent values skip the computations that need them.
type Financials struct {
	CashBalance    decimal.NullDecimal
	MonthlyRevenue decimal.NullDecimal
	OperatingCosts decimal.NullDecimal
}

// Metrics holds the values derived from Financials. They are never supplied directly.
type Metrics struct {
	MonthlyBurn  decimal.NullDecimal // operating costs - monthly revenue, negative when cash-generative
	RunwayMonths decimal.NullDecimal // NULL when burn <= 0 or cash balance is unknown
}

// FinancialsUpdate carries a partial update; nil fields are left unchanged
type FinancialsUpdate struct {
	CashBalance    *decimal.Decimal
	MonthlyRevenue *decimal.Decimal
	OperatingCosts *decimal.Decimal
}

// Apply returns f with the present update values applied
func (u FinancialsUpdate) Apply(f Financials) Financials {
	if u.CashBalance != nil {
		f.CashBalance = decimal.NewNullDecimal(*u.CashBalance)
	}
	if u.MonthlyRevenue != nil {
		f.MonthlyRevenue = decimal.NewNullDecimal(*u.MonthlyRevenue)
	}
	if u.OperatingCosts != nil {
		f.OperatingCosts = decimal.NewNullDecimal(*u.OperatingCosts)
	}
	return f
}

// Snapshot is a dated record of one company's financial state and derived stage.
//
// Lifecycle: DRAFT -> FINALIZED -> INVALIDATED. While DRAFT the financials,
// metrics and stage may change; once FINALIZED every one of them is frozen.
// The lifecycle fields are unexported so they can only move through the
// guarded methods below.
type Snapshot struct {
	ID        uuid.UUID
	CompanyID uuid.UUID
	Date      time.Time // day precision, UTC
	CreatedAt time.Time

	status             SnapshotStatus
	financials         Financials
	metrics            Metrics
	stage              *Stage
	invalidationReason string
	finalizedAt        *time.Time
	invalidatedAt      *time.Time
}

// SnapshotState is the full persisted state of a snapshot
type SnapshotState struct {
	ID                 uuid.UUID
	CompanyID          uuid.UUID
	Date               time.Time
	Status             SnapshotStatus
	Financials         Financials
	Metrics            Metrics
	Stage              *Stage
	InvalidationReason string
	CreatedAt          time.Time
	FinalizedAt        *time.Time
	InvalidatedAt      *time.Time
}

// NewSnapshot creates a DRAFT snapshot for a company on the given date
func NewSnapshot(companyID uuid.UUID, date time.Time, financials Financials, now time.Time) *Snapshot {
	return &Snapshot{
		ID:         uuid.New(),
		CompanyID:  companyID,
		Date:       TruncateDate(date),
		CreatedAt:  now,
		status:     SnapshotStatusDraft,
		financials: financials,
	}
}

// RestoreSnapshot rebuilds a snapshot from persisted state
func RestoreSnapshot(st SnapshotState) *Snapshot {
	return &Snapshot{
		ID:                 st.ID,
		CompanyID:          st.CompanyID,
		Date:               TruncateDate(st.Date),
		CreatedAt:          st.CreatedAt,
		status:             st.Status,
		financials:         st.Financials,
		metrics:            st.Metrics,
		stage:              st.Stage,
		invalidationReason: st.InvalidationReason,
		finalizedAt:        st.FinalizedAt,
		invalidatedAt:      st.InvalidatedAt,
	}
}

// State returns a copy of the snapshot's full state for persistence
func (s *Snapshot) State() SnapshotState {
	var stage *Stage
	if s.stage != nil {
		st := *s.stage
		stage = &st
	}
	return SnapshotState{
		ID:                 s.ID,
		CompanyID:          s.CompanyID,
		Date:               s.Date,
		Status:             s.status,
		Financials:         s.financials,
		Metrics:            s.metrics,
		Stage:              stage,
		InvalidationReason: s.invalidationReason,
		CreatedAt:          s.CreatedAt,
		FinalizedAt:        s.finalizedAt,
		InvalidatedAt:      s.invalidatedAt,
	}
}

func (s *Snapshot) Status() SnapshotStatus { return s.status }
func (s *Snapshot) Financials() Financials { return s.financials }
func (s *Snapshot) Metrics() Metrics { return s.metrics }
func (s *Snapshot) InvalidationReason() string { return s.invalidationReason }
func (s *Snapshot) FinalizedAt() *time.Time { return s.finalizedAt }
func (s *Snapshot) InvalidatedAt() *time.Time { return s.invalidatedAt }

// Stage returns the derived stage and whether one has been assigned
func (s *Snapshot) Stage() (Stage, bool) {
	if s.stage == nil {
		return "", false
	}
	return *s.stage, true
}

func (s *Snapshot) IsDraft() bool { return s.status == SnapshotStatusDraft }
func (s *Snapshot) IsFinalized() bool { return s.status == SnapshotStatusFinalized }
func (s *Snapshot) IsInvalidated() bool { return s.status == SnapshotStatusInvalidated }

// UpdateFinancials applies a partial update to the financial attributes.
// Only allowed while DRAFT.
func (s *Snapshot) UpdateFinancials(u FinancialsUpdate) error {
	if !s.IsDraft() {
		return NewImmutabilityError(s.ID, s.status, "update financial attributes")
	}
	s.financials = u.Apply(s.financials)
	return nil
}

// ApplyMetrics stores freshly derived metrics. Only allowed while DRAFT.
func (s *Snapshot) ApplyMetrics(m Metrics) error {
	if !s.IsDraft() {
		return NewImmutabilityError(s.ID, s.status, "update derived metrics")
	}
	s.metrics = m
	return nil
}

// AssignStage records the stage produced by the stage evaluator. Only allowed while DRAFT.
func (s *Snapshot) AssignStage(stage Stage) error {
	if !s.IsDraft() {
		return NewImmutabilityError(s.ID, s.status, "set stage")
	}
	s.stage = &stage
	return nil
}

// Finalize transitions DRAFT -> FINALIZED and stamps the finalization time
func (s *Snapshot) Finalize(now time.Time) error {
	if !s.IsDraft() {
		return NewTransitionError(s.ID, s.status, "finalize", "only DRAFT snapshots can be finalized")
	}
	s.status = SnapshotStatusFinalized
	s.finalizedAt = &now
	return nil
}

// Invalidate transitions FINALIZED -> INVALIDATED with a mandatory reason
func (s *Snapshot) Invalidate(reason string, now time.Time) error {
	if !s.IsFinalized() {
		return NewTransitionError(s.ID, s.status, "invalidate", "only FINALIZED snapshots can be invalidated")
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		err := NewTransitionError(s.ID, s.status, "invalidate", "invalidation reason must be a non-empty string")
		err.Field = "reason"
		return err
	}

	s.status = SnapshotStatusInvalidated
	s.invalidationReason = reason
	s.invalidatedAt = &now
	return nil
}

// TruncateDate drops the time of day, keeping the calendar date in UTC
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
