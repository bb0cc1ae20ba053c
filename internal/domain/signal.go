package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SignalCategory classifies what a signal describes
type SignalCategory string

const (
	SignalCategoryFinancial   SignalCategory = "FINANCIAL"
	SignalCategoryGrowth      SignalCategory = "GROWTH"
	SignalCategoryRisk        SignalCategory = "RISK"
	SignalCategoryOperational SignalCategory = "OPERATIONAL"
	SignalCategoryMarket      SignalCategory = "MARKET"
)

// Baseline signal names
const (
	SignalMonthlyBurn  = "MonthlyBurn"
	SignalRunwayMonths = "RunwayMonths"
	SignalRunwayRisk   = "RunwayRisk"
)

// Signal is a named, categorized interpretation of snapshot data.
// It never carries a verbatim copy of a raw financial attribute.
type Signal struct {
	ID        uuid.UUID
	Name      string
	Category  SignalCategory
	Value     decimal.Decimal
	CreatedAt time.Time
}

// NewSignal creates a signal with a fresh ID
func NewSignal(name string, category SignalCategory, value decimal.Decimal, now time.Time) Signal {
	return Signal{
		ID:        uuid.New(),
		Name:      name,
		Category:  category,
		Value:     value,
		CreatedAt: now,
	}
}

// Baseline rule names and result labels
const (
	RuleRunwayRisk    = "RunwayRiskRule"
	RuleProfitability = "ProfitabilityRule"

	ResultHighRisk   = "HIGH_RISK"
	ResultCaution    = "CAUTION"
	ResultHealthy    = "HEALTHY"
	ResultProfitable = "PROFITABLE"
	ResultBurning    = "BURNING"
)

// RuleResult is the labeled outcome of one rule evaluated over signals
type RuleResult struct {
	ID        uuid.UUID
	RuleName  string
	Result    string
	CreatedAt time.Time
}

// NewRuleResult creates a rule result with a fresh ID
func NewRuleResult(ruleName, result string, now time.Time) RuleResult {
	return RuleResult{
		ID:        uuid.New(),
		RuleName:  ruleName,
		Result:    result,
		CreatedAt: now,
	}
}

// ContributingSignal links a finalized snapshot to a signal that justified its stage
type ContributingSignal struct {
	SnapshotID uuid.UUID
	SignalID   uuid.UUID
	Reason     string // name of the precedence branch that selected the stage
}

// FinalizeResult is everything the derivation pipeline produced for one snapshot
type FinalizeResult struct {
	Metrics      Metrics
	Signals      []Signal
	RuleResults  []RuleResult
	Stage        Stage
	Branch       string
	Contributing []Signal
}

// ContributingSignals builds the audit records for the contributing subset
func (r *FinalizeResult) ContributingSignals(snapshotID uuid.UUID) []ContributingSignal {
	out := make([]ContributingSignal, 0, len(r.Contributing))
	for _, s := range r.Contributing {
		out = append(out, ContributingSignal{
			SnapshotID: snapshotID,
			SignalID:   s.ID,
			Reason:     r.Branch,
		})
	}
	return out
}
