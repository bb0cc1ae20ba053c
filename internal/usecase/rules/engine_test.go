package rules

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"
	"github.com/simaogato/stagelens-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func signal(name, value string) domain.Signal {
	return domain.NewSignal(name, domain.SignalCategoryFinancial, decimal.RequireFromString(value), testNow)
}

var ignoreIdentity = cmpopts.IgnoreFields(domain.RuleResult{}, "ID", "CreatedAt")

func TestEngine_Evaluate(t *testing.T) {
	tests := []struct {
		name    string
		signals []domain.Signal
		want    []domain.RuleResult
	}{
		{
			name:    "High risk and burning",
			signals: []domain.Signal{signal(domain.SignalMonthlyBurn, "20000"), signal(domain.SignalRunwayMonths, "5"), signal(domain.SignalRunwayRisk, "3")},
			want: []domain.RuleResult{
				{RuleName: domain.RuleRunwayRisk, Result: domain.ResultHighRisk},
				{RuleName: domain.RuleProfitability, Result: domain.ResultBurning},
			},
		},
		{
			name:    "Caution",
			signals: []domain.Signal{signal(domain.SignalMonthlyBurn, "1"), signal(domain.SignalRunwayRisk, "2")},
			want: []domain.RuleResult{
				{RuleName: domain.RuleRunwayRisk, Result: domain.ResultCaution},
				{RuleName: domain.RuleProfitability, Result: domain.ResultBurning},
			},
		},
		{
			name:    "Healthy",
			signals: []domain.Signal{signal(domain.SignalMonthlyBurn, "1000"), signal(domain.SignalRunwayRisk, "1")},
			want: []domain.RuleResult{
				{RuleName: domain.RuleRunwayRisk, Result: domain.ResultHealthy},
				{RuleName: domain.RuleProfitability, Result: domain.ResultBurning},
			},
		},
		{
			name:    "Break-even is profitable",
			signals: []domain.Signal{signal(domain.SignalMonthlyBurn, "0"), signal(domain.SignalRunwayRisk, "0")},
			want: []domain.RuleResult{
				{RuleName: domain.RuleRunwayRisk, Result: domain.ResultProfitable},
				{RuleName: domain.RuleProfitability, Result: domain.ResultProfitable},
			},
		},
		{
			name:    "Missing risk signal skips the runway rule",
			signals: []domain.Signal{signal(domain.SignalMonthlyBurn, "500")},
			want: []domain.RuleResult{
				{RuleName: domain.RuleProfitability, Result: domain.ResultBurning},
			},
		},
		{
			name:    "No signals",
			signals: nil,
			want:    []domain.RuleResult{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DefaultEngine().Evaluate(tt.signals, testNow)

			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got, ignoreIdentity); diff != "" {
				t.Errorf("Evaluate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEngine_Evaluate_UnknownRiskCode(t *testing.T) {
	for _, code := range []string{"4", "-1", "2.5"} {
		t.Run(code, func(t *testing.T) {
			results, err := DefaultEngine().Evaluate([]domain.Signal{signal(domain.SignalRunwayRisk, code)}, testNow)

			assert.Nil(t, results)
			require.ErrorIs(t, err, domain.ErrInvalidSignal)
			assert.Contains(t, err.Error(), domain.SignalRunwayRisk)
		})
	}
}

func TestEngine_CustomRule(t *testing.T) {
	scale := RuleFunc{
		RuleName: "ScaleRule",
		Fn: func(set SignalSet) (string, bool, error) {
			burn, ok := set.Value(domain.SignalMonthlyBurn)
			if !ok {
				return "", false, nil
			}
			if burn.GreaterThan(decimal.NewFromInt(100000)) {
				return "LARGE", true, nil
			}
			return "SMALL", true, nil
		},
	}
	engine := NewEngine(ProfitabilityRule(), scale)

	got, err := engine.Evaluate([]domain.Signal{signal(domain.SignalMonthlyBurn, "250000")}, testNow)

	require.NoError(t, err)
	assert.Equal(t, []string{domain.RuleProfitability, "ScaleRule"}, engine.Rules())
	require.Len(t, got, 2)
	assert.Equal(t, "LARGE", got[1].Result)
}
