package pipeline

import (
	"time"

	"github.com/simaogato/stagelens-backend/internal/domain"
	"github.com/simaogato/stagelens-backend/internal/usecase/explain"
	"github.com/simaogato/stagelens-backend/internal/usecase/metrics"
	"github.com/simaogato/stagelens-backend/internal/usecase/rules"
	"github.com/simaogato/stagelens-backend/internal/usecase/signals"
	"github.com/simaogato/stagelens-backend/internal/usecase/stage"
	"github.com/simaogato/stagelens-backend/internal/usecase/validator"
)

// Pipeline chains validation, metrics, signals, rules, stage selection and
// explanation. It holds no per-run state and can be shared.
type Pipeline struct {
	Validator *validator.FinancialValidator
	Rules     *rules.Engine
	Evaluator *stage.Evaluator
}

// New creates a pipeline from its parts
func New(v *validator.FinancialValidator, r *rules.Engine, e *stage.Evaluator) *Pipeline {
	return &Pipeline{Validator: v, Rules: r, Evaluator: e}
}

// Default creates a pipeline with the baseline validator, rules and precedence
func Default() *Pipeline {
	return New(validator.Default(), rules.DefaultEngine(), stage.Default())
}

// Run derives everything a finalized snapshot records from its financials.
// Nothing is mutated; the first failing step's error is returned as is.
func (p *Pipeline) Run(f domain.Financials, now time.Time) (*domain.FinalizeResult, error) {
	if err := p.Validator.Validate(f); err != nil {
		return nil, err
	}

	m := metrics.Calculate(f)
	sigs := signals.Compute(m, now)

	results, err := p.Rules.Evaluate(sigs, now)
	if err != nil {
		return nil, err
	}

	branch, err := p.Evaluator.Match(results)
	if err != nil {
		return nil, err
	}

	contributing, err := explain.Resolve(sigs, results, branch.Stage, p.Evaluator)
	if err != nil {
		return nil, err
	}

	return &domain.FinalizeResult{
		Metrics:      m,
		Signals:      sigs,
		RuleResults:  results,
		Stage:        branch.Stage,
		Branch:       branch.Name,
		Contributing: contributing,
	}, nil
}

// Finalize runs the pipeline over a DRAFT snapshot and, only when every step
// succeeds, stores the metrics and stage and moves it to FINALIZED.
// On any error the snapshot is left exactly as it was.
func (p *Pipeline) Finalize(s *domain.Snapshot, now time.Time) (*domain.FinalizeResult, error) {
	if !s.IsDraft() {
		return nil, domain.NewTransitionError(s.ID, s.Status(), "finalize", "only DRAFT snapshots can be finalized")
	}

	result, err := p.Run(s.Financials(), now)
	if err != nil {
		return nil, err
	}

	// The DRAFT check above guarantees these succeed
	if err := s.ApplyMetrics(result.Metrics); err != nil {
		return nil, err
	}
	if err := s.AssignStage(result.Stage); err != nil {
		return nil, err
	}
	if err := s.Finalize(now); err != nil {
		return nil, err
	}

	return result, nil
}
