package rules

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/stagelens-backend/internal/domain"
	"github.com/simaogato/stagelens-backend/internal/usecase/signals"
)

// SignalSet indexes signals by name. Rules only ever see signals, never raw financials.
type SignalSet map[string]domain.Signal

// NewSignalSet indexes the given signals; a later signal with the same name wins
func NewSignalSet(list []domain.Signal) SignalSet {
	set := make(SignalSet, len(list))
	for _, s := range list {
		set[s.Name] = s
	}
	return set
}

// Value returns the value of the named signal and whether it is present
func (s SignalSet) Value(name string) (decimal.Decimal, bool) {
	sig, ok := s[name]
	if !ok {
		return decimal.Zero, false
	}
	return sig.Value, true
}

// Rule maps signals to a labeled outcome.
// ok is false when the signals the rule needs are missing; no result is produced then.
type Rule interface {
	Name() string
	Evaluate(set SignalSet) (label string, ok bool, err error)
}

// RuleFunc adapts a plain function to the Rule interface
type RuleFunc struct {
	RuleName string
	Fn       func(set SignalSet) (string, bool, error)
}

func (r RuleFunc) Name() string { return r.RuleName }

func (r RuleFunc) Evaluate(set SignalSet) (string, bool, error) { return r.Fn(set) }

// Engine evaluates an ordered list of rules
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine that evaluates rules in the given order
func NewEngine(rules ...Rule) *Engine {
	return &Engine{rules: rules}
}

// DefaultEngine returns the baseline rules: RunwayRiskRule then ProfitabilityRule
func DefaultEngine() *Engine {
	return NewEngine(RunwayRiskRule(), ProfitabilityRule())
}

// Rules returns the names of the configured rules in evaluation order
func (e *Engine) Rules() []string {
	names := make([]string, 0, len(e.rules))
	for _, r := range e.rules {
		names = append(names, r.Name())
	}
	return names
}

// Evaluate applies every rule to the signals and returns one result per rule
// whose inputs were present, in rule order. The first rule error aborts evaluation.
func (e *Engine) Evaluate(list []domain.Signal, now time.Time) ([]domain.RuleResult, error) {
	set := NewSignalSet(list)
	results := make([]domain.RuleResult, 0, len(e.rules))

	for _, r := range e.rules {
		label, ok, err := r.Evaluate(set)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		results = append(results, domain.NewRuleResult(r.Name(), label, now))
	}

	return results, nil
}

// RunwayRiskRule labels the RunwayRisk code:
// 3 -> HIGH_RISK, 2 -> CAUTION, 1 -> HEALTHY, 0 -> PROFITABLE.
func RunwayRiskRule() Rule {
	return RuleFunc{
		RuleName: domain.RuleRunwayRisk,
		Fn: func(set SignalSet) (string, bool, error) {
			v, ok := set.Value(domain.SignalRunwayRisk)
			if !ok {
				return "", false, nil
			}

			if !v.IsInteger() {
				return "", false, domain.NewInvalidSignalError(domain.SignalRunwayRisk, v.String(), domain.RuleRunwayRisk)
			}

			switch v.IntPart() {
			case signals.RiskHighRisk:
				return domain.ResultHighRisk, true, nil
			case signals.RiskCaution:
				return domain.ResultCaution, true, nil
			case signals.RiskHealthy:
				return domain.ResultHealthy, true, nil
			case signals.RiskNone:
				return domain.ResultProfitable, true, nil
			}
			return "", false, domain.NewInvalidSignalError(domain.SignalRunwayRisk, v.String(), domain.RuleRunwayRisk)
		},
	}
}

// ProfitabilityRule labels MonthlyBurn: <= 0 -> PROFITABLE, > 0 -> BURNING
func ProfitabilityRule() Rule {
	return RuleFunc{
		RuleName: domain.RuleProfitability,
		Fn: func(set SignalSet) (string, bool, error) {
			burn, ok := set.Value(domain.SignalMonthlyBurn)
			if !ok {
				return "", false, nil
			}
			if burn.IsPositive() {
				return domain.ResultBurning, true, nil
			}
			return domain.ResultProfitable, true, nil
		},
	}
}
