package stage

import (
	"fmt"
	"sort"
	"strings"

	"github.com/simaogato/stagelens-backend/internal/domain"
)

// Branch is one entry of the stage precedence table.
// It matches when every rule in When produced the given label.
type Branch struct {
	Name         string
	Stage        domain.Stage
	When         map[string]string // rule name -> required label
	Contributors []string          // signal names that justify the stage
}

func (b Branch) matches(results map[string]string) bool {
	for rule, label := range b.When {
		if results[rule] != label {
			return false
		}
	}
	return true
}

// Precedence is the baseline stage table, evaluated top to bottom.
//
// A CAUTION runway wins over BURNING, so a company with 6-12 months of runway
// is PRE_SEED no matter how its burn compares to revenue.
var Precedence = []Branch{
	{
		Name:         "runway-high-risk",
		Stage:        domain.StageIdea,
		When:         map[string]string{domain.RuleRunwayRisk: domain.ResultHighRisk},
		Contributors: []string{domain.SignalRunwayRisk, domain.SignalRunwayMonths},
	},
	{
		Name:         "runway-caution",
		Stage:        domain.StagePreSeed,
		When:         map[string]string{domain.RuleRunwayRisk: domain.ResultCaution},
		Contributors: []string{domain.SignalRunwayRisk, domain.SignalRunwayMonths},
	},
	{
		Name:  "healthy-burning",
		Stage: domain.StageSeed,
		When: map[string]string{
			domain.RuleRunwayRisk:    domain.ResultHealthy,
			domain.RuleProfitability: domain.ResultBurning,
		},
		Contributors: []string{domain.SignalRunwayRisk, domain.SignalRunwayMonths, domain.SignalMonthlyBurn},
	},
	{
		Name:  "healthy-profitable",
		Stage: domain.StageSeriesA,
		When: map[string]string{
			domain.RuleRunwayRisk:    domain.ResultHealthy,
			domain.RuleProfitability: domain.ResultProfitable,
		},
		Contributors: []string{domain.SignalRunwayRisk, domain.SignalRunwayMonths, domain.SignalMonthlyBurn},
	},
	{
		Name:  "profitable",
		Stage: domain.StageSeriesA,
		When: map[string]string{
			domain.RuleRunwayRisk:    domain.ResultProfitable,
			domain.RuleProfitability: domain.ResultProfitable,
		},
		Contributors: []string{domain.SignalRunwayRisk, domain.SignalMonthlyBurn},
	},
}

// Evaluator picks a stage from rule results using an ordered branch table
type Evaluator struct {
	Branches []Branch
}

// Default returns an evaluator over the baseline Precedence table
func Default() *Evaluator {
	return &Evaluator{Branches: Precedence}
}

// Match returns the first branch satisfied by the rule results.
// It never falls back to a default stage.
func (e *Evaluator) Match(results []domain.RuleResult) (Branch, error) {
	byRule := make(map[string]string, len(results))
	for _, r := range results {
		byRule[r.RuleName] = r.Result
	}

	for _, b := range e.Branches {
		if b.matches(byRule) {
			return b, nil
		}
	}

	return Branch{}, domain.NewInsufficientDataError(
		fmt.Sprintf("no stage rule matched rule results [%s]", describe(byRule)))
}

// Determine returns the stage selected by the rule results
func (e *Evaluator) Determine(results []domain.RuleResult) (domain.Stage, error) {
	b, err := e.Match(results)
	if err != nil {
		return "", err
	}
	return b.Stage, nil
}

func describe(byRule map[string]string) string {
	if len(byRule) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(byRule))
	for rule, label := range byRule {
		parts = append(parts, rule+"="+label)
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
