package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/stagelens-backend/internal/domain"
)

// snapshotRepository implements domain.SnapshotRepository
type snapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *DB) domain.SnapshotRepository {
	return &snapshotRepository{db: db}
}

const snapshotColumns = `
	id, company_id, snapshot_date, status,
	cash_balance, monthly_revenue, operating_costs, monthly_burn, runway_months,
	stage, invalidation_reason, created_at, finalized_at, invalidated_at`

type snapshotRow struct {
	ID                 uuid.UUID           `db:"id"`
	CompanyID          uuid.UUID           `db:"company_id"`
	SnapshotDate       time.Time           `db:"snapshot_date"`
	Status             string              `db:"status"`
	CashBalance        decimal.NullDecimal `db:"cash_balance"`
	MonthlyRevenue     decimal.NullDecimal `db:"monthly_revenue"`
	OperatingCosts     decimal.NullDecimal `db:"operating_costs"`
	MonthlyBurn        decimal.NullDecimal `db:"monthly_burn"`
	RunwayMonths       decimal.NullDecimal `db:"runway_months"`
	Stage              sql.NullString      `db:"stage"`
	InvalidationReason sql.NullString      `db:"invalidation_reason"`
	CreatedAt          time.Time           `db:"created_at"`
	FinalizedAt        sql.NullTime        `db:"finalized_at"`
	InvalidatedAt      sql.NullTime        `db:"invalidated_at"`
}

func (row snapshotRow) toDomain() (*domain.Snapshot, error) {
	status, err := domain.ParseSnapshotStatus(row.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot status: %w", err)
	}

	st := domain.SnapshotState{
		ID:        row.ID,
		CompanyID: row.CompanyID,
		Date:      row.SnapshotDate,
		Status:    status,
		Financials: domain.Financials{
			CashBalance:    row.CashBalance,
			MonthlyRevenue: row.MonthlyRevenue,
			OperatingCosts: row.OperatingCosts,
		},
		Metrics: domain.Metrics{
			MonthlyBurn:  row.MonthlyBurn,
			RunwayMonths: row.RunwayMonths,
		},
		InvalidationReason: row.InvalidationReason.String,
		CreatedAt:          row.CreatedAt,
	}

	if row.Stage.Valid {
		stage, err := domain.ParseStage(row.Stage.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse snapshot stage: %w", err)
		}
		st.Stage = &stage
	}
	if row.FinalizedAt.Valid {
		t := row.FinalizedAt.Time
		st.FinalizedAt = &t
	}
	if row.InvalidatedAt.Valid {
		t := row.InvalidatedAt.Time
		st.InvalidatedAt = &t
	}

	return domain.RestoreSnapshot(st), nil
}

// Create inserts a new DRAFT snapshot
func (r *snapshotRepository) Create(ctx context.Context, snapshot *domain.Snapshot) error {
	query := `
		INSERT INTO snapshots (
			id, company_id, snapshot_date, status,
			cash_balance, monthly_revenue, operating_costs, monthly_burn, runway_months,
			created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	f := snapshot.Financials()
	m := snapshot.Metrics()
	_, err := r.db.ExecContext(ctx, query,
		snapshot.ID,
		snapshot.CompanyID,
		snapshot.Date,
		string(snapshot.Status()),
		f.CashBalance,
		f.MonthlyRevenue,
		f.OperatingCosts,
		m.MonthlyBurn,
		m.RunwayMonths,
		snapshot.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewDuplicateError(fmt.Sprintf("company %s already has a snapshot on %s",
				snapshot.CompanyID, snapshot.Date.Format(time.DateOnly)))
		}
		return fmt.Errorf("failed to create snapshot: %w", err)
	}

	return nil
}

// GetByID retrieves a snapshot by its ID
func (r *snapshotRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots WHERE id = $1`

	var row snapshotRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError(fmt.Sprintf("snapshot %s not found", id))
		}
		return nil, fmt.Errorf("failed to get snapshot by ID: %w", err)
	}

	return row.toDomain()
}

// ExistsForDate reports whether the company has a snapshot in any status on the date
func (r *snapshotRepository) ExistsForDate(ctx context.Context, companyID uuid.UUID, date time.Time) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM snapshots WHERE company_id = $1 AND snapshot_date = $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, companyID, domain.TruncateDate(date)); err != nil {
		return false, fmt.Errorf("failed to check snapshot date: %w", err)
	}
	return exists, nil
}

// UpdateDraft persists financials and metrics while the stored snapshot is still DRAFT
func (r *snapshotRepository) UpdateDraft(ctx context.Context, snapshot *domain.Snapshot) error {
	query := `
		UPDATE snapshots
		SET cash_balance = $2, monthly_revenue = $3, operating_costs = $4,
			monthly_burn = $5, runway_months = $6
		WHERE id = $1 AND status = 'DRAFT'
	`

	f := snapshot.Financials()
	m := snapshot.Metrics()
	res, err := r.db.ExecContext(ctx, query,
		snapshot.ID,
		f.CashBalance,
		f.MonthlyRevenue,
		f.OperatingCosts,
		m.MonthlyBurn,
		m.RunwayMonths,
	)
	if err != nil {
		return fmt.Errorf("failed to update snapshot: %w", err)
	}

	return r.expectOne(ctx, res, snapshot.ID, func(status domain.SnapshotStatus) error {
		return domain.NewImmutabilityError(snapshot.ID, status, "update financial attributes")
	})
}

// SaveFinalized persists the finalized snapshot and its evaluation in one transaction.
// The status guard makes concurrent finalizations of the same snapshot lose cleanly.
func (r *snapshotRepository) SaveFinalized(ctx context.Context, snapshot *domain.Snapshot, result *domain.FinalizeResult) error {
	// Start a database transaction
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stage, _ := snapshot.Stage()
	m := snapshot.Metrics()
	res, err := tx.ExecContext(ctx, `
		UPDATE snapshots
		SET status = $2, monthly_burn = $3, runway_months = $4, stage = $5, finalized_at = $6
		WHERE id = $1 AND status = 'DRAFT'
	`,
		snapshot.ID,
		string(snapshot.Status()),
		m.MonthlyBurn,
		m.RunwayMonths,
		string(stage),
		snapshot.FinalizedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to finalize snapshot: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	} else if n == 0 {
		return domain.NewTransitionError(snapshot.ID, "", "finalize", "snapshot is no longer DRAFT or does not exist")
	}

	for i, s := range result.Signals {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO signals (id, snapshot_id, position, name, category, value, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, s.ID, snapshot.ID, i, s.Name, string(s.Category), s.Value, s.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert signal: %w", err)
		}
	}

	for i, rr := range result.RuleResults {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO rule_results (id, snapshot_id, position, rule_name, result, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, rr.ID, snapshot.ID, i, rr.RuleName, rr.Result, rr.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert rule result: %w", err)
		}
	}

	for _, c := range result.ContributingSignals(snapshot.ID) {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO contributing_signals (snapshot_id, signal_id, reason)
			VALUES ($1, $2, $3)
		`, c.SnapshotID, c.SignalID, c.Reason)
		if err != nil {
			return fmt.Errorf("failed to insert contributing signal: %w", err)
		}
	}

	// Commit the transaction
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// SaveInvalidated persists the invalidation while the stored snapshot is still FINALIZED
func (r *snapshotRepository) SaveInvalidated(ctx context.Context, snapshot *domain.Snapshot) error {
	query := `
		UPDATE snapshots
		SET status = $2, invalidation_reason = $3, invalidated_at = $4
		WHERE id = $1 AND status = 'FINALIZED'
	`

	res, err := r.db.ExecContext(ctx, query,
		snapshot.ID,
		string(snapshot.Status()),
		snapshot.InvalidationReason(),
		snapshot.InvalidatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to invalidate snapshot: %w", err)
	}

	return r.expectOne(ctx, res, snapshot.ID, func(status domain.SnapshotStatus) error {
		return domain.NewTransitionError(snapshot.ID, status, "invalidate", "only FINALIZED snapshots can be invalidated")
	})
}

// expectOne turns a guarded update that touched no row into a not found error
// or the status error built by onStatus
func (r *snapshotRepository) expectOne(ctx context.Context, res sql.Result, id uuid.UUID, onStatus func(domain.SnapshotStatus) error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n > 0 {
		return nil
	}

	var status string
	if err := r.db.GetContext(ctx, &status, `SELECT status FROM snapshots WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewNotFoundError(fmt.Sprintf("snapshot %s not found", id))
		}
		return fmt.Errorf("failed to read snapshot status: %w", err)
	}
	return onStatus(domain.SnapshotStatus(status))
}

type signalRow struct {
	ID        uuid.UUID       `db:"id"`
	Name      string          `db:"name"`
	Category  string          `db:"category"`
	Value     decimal.Decimal `db:"value"`
	CreatedAt time.Time       `db:"created_at"`
}

type ruleResultRow struct {
	ID        uuid.UUID `db:"id"`
	RuleName  string    `db:"rule_name"`
	Result    string    `db:"result"`
	CreatedAt time.Time `db:"created_at"`
}

type contributingRow struct {
	SnapshotID uuid.UUID `db:"snapshot_id"`
	SignalID   uuid.UUID `db:"signal_id"`
	Reason     string    `db:"reason"`
}

// GetEvaluation retrieves the signals, rule results and contributing signals of a snapshot
func (r *snapshotRepository) GetEvaluation(ctx context.Context, snapshotID uuid.UUID) (*domain.Evaluation, error) {
	var signals []signalRow
	err := r.db.SelectContext(ctx, &signals, `
		SELECT id, name, category, value, created_at
		FROM signals
		WHERE snapshot_id = $1
		ORDER BY position
	`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to list signals: %w", err)
	}

	var results []ruleResultRow
	err = r.db.SelectContext(ctx, &results, `
		SELECT id, rule_name, result, created_at
		FROM rule_results
		WHERE snapshot_id = $1
		ORDER BY position
	`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rule results: %w", err)
	}

	var contributing []contributingRow
	err = r.db.SelectContext(ctx, &contributing, `
		SELECT c.snapshot_id, c.signal_id, c.reason
		FROM contributing_signals c
		JOIN signals s ON s.id = c.signal_id
		WHERE c.snapshot_id = $1
		ORDER BY s.position
	`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributing signals: %w", err)
	}

	eval := &domain.Evaluation{
		Signals:      make([]domain.Signal, 0, len(signals)),
		RuleResults:  make([]domain.RuleResult, 0, len(results)),
		Contributing: make([]domain.ContributingSignal, 0, len(contributing)),
	}
	for _, s := range signals {
		eval.Signals = append(eval.Signals, domain.Signal{
			ID:        s.ID,
			Name:      s.Name,
			Category:  domain.SignalCategory(s.Category),
			Value:     s.Value,
			CreatedAt: s.CreatedAt,
		})
	}
	for _, rr := range results {
		eval.RuleResults = append(eval.RuleResults, domain.RuleResult{
			ID:        rr.ID,
			RuleName:  rr.RuleName,
			Result:    rr.Result,
			CreatedAt: rr.CreatedAt,
		})
	}
	for _, c := range contributing {
		eval.Contributing = append(eval.Contributing, domain.ContributingSignal{
			SnapshotID: c.SnapshotID,
			SignalID:   c.SignalID,
			Reason:     c.Reason,
		})
	}

	return eval, nil
}

// ListFinalizedByCompany retrieves the FINALIZED snapshots of a company, earliest first
func (r *snapshotRepository) ListFinalizedByCompany(ctx context.Context, companyID uuid.UUID) ([]*domain.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + `
		FROM snapshots
		WHERE company_id = $1 AND status = 'FINALIZED'
		ORDER BY snapshot_date ASC
	`

	var rows []snapshotRow
	if err := r.db.SelectContext(ctx, &rows, query, companyID); err != nil {
		return nil, fmt.Errorf("failed to list finalized snapshots: %w", err)
	}

	return toDomainList(rows)
}

// GetFinalizedByCompanyAndDate retrieves the FINALIZED snapshot of a company on a date
func (r *snapshotRepository) GetFinalizedByCompanyAndDate(ctx context.Context, companyID uuid.UUID, date time.Time) (*domain.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + `
		FROM snapshots
		WHERE company_id = $1 AND snapshot_date = $2 AND status = 'FINALIZED'
	`

	var row snapshotRow
	if err := r.db.GetContext(ctx, &row, query, companyID, domain.TruncateDate(date)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError(fmt.Sprintf(
				"no finalized snapshot for company %s on %s", companyID, date.Format(time.DateOnly)))
		}
		return nil, fmt.Errorf("failed to get finalized snapshot: %w", err)
	}

	return row.toDomain()
}

func toDomainList(rows []snapshotRow) ([]*domain.Snapshot, error) {
	out := make([]*domain.Snapshot, 0, len(rows))
	for _, row := range rows {
		s, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
