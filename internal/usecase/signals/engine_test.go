package signals

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

func present(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestClassifyRunway(t *testing.T) {
	tests := []struct {
		name   string
		runway decimal.NullDecimal
		want   int
	}{
		{"Unset runway", decimal.NullDecimal{}, RiskNone},
		{"Zero runway", present("0"), RiskHighRisk},
		{"Just under six months", present("5.9999"), RiskHighRisk},
		{"Exactly six months", present("6"), RiskCaution},
		{"Between six and twelve", present("7.5"), RiskCaution},
		{"Exactly twelve months", present("12"), RiskCaution},
		{"Just over twelve months", present("12.0001"), RiskHealthy},
		{"Long runway", present("48"), RiskHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyRunway(tt.runway))
		})
	}
}

func TestClassifyRunway_Monotonic(t *testing.T) {
	prev := ClassifyRunway(present("0"))
	for i := 1; i <= 400; i++ {
		runway := decimal.NewFromInt(int64(i)).Div(decimal.NewFromInt(10))
		code := ClassifyRunway(decimal.NewNullDecimal(runway))
		assert.LessOrEqual(t, code, prev, "risk increased at runway %s", runway)
		prev = code
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name    string
		metrics domain.Metrics
		want    []domain.Signal
	}{
		{
			name:    "Burning with runway",
			metrics: domain.Metrics{MonthlyBurn: present("20000"), RunwayMonths: present("6")},
			want: []domain.Signal{
				{Name: domain.SignalMonthlyBurn, Category: domain.SignalCategoryFinancial, Value: decimal.NewFromInt(20000)},
				{Name: domain.SignalRunwayMonths, Category: domain.SignalCategoryFinancial, Value: decimal.NewFromInt(6)},
				{Name: domain.SignalRunwayRisk, Category: domain.SignalCategoryRisk, Value: decimal.NewFromInt(RiskCaution)},
			},
		},
		{
			name:    "Cash-generative",
			metrics: domain.Metrics{MonthlyBurn: present("-20000")},
			want: []domain.Signal{
				{Name: domain.SignalMonthlyBurn, Category: domain.SignalCategoryFinancial, Value: decimal.NewFromInt(-20000)},
				{Name: domain.SignalRunwayRisk, Category: domain.SignalCategoryRisk, Value: decimal.NewFromInt(RiskNone)},
			},
		},
		{
			name:    "Burning with unknown cash has no risk",
			metrics: domain.Metrics{MonthlyBurn: present("5000")},
			want: []domain.Signal{
				{Name: domain.SignalMonthlyBurn, Category: domain.SignalCategoryFinancial, Value: decimal.NewFromInt(5000)},
			},
		},
		{
			name:    "Nothing derived",
			metrics: domain.Metrics{},
			want:    []domain.Signal{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.metrics, testNow)

			if diff := cmp.Diff(tt.want, got, cmpopts.IgnoreFields(domain.Signal{}, "ID", "CreatedAt")); diff != "" {
				t.Errorf("Compute() mismatch (-want +got):\n%s", diff)
			}
			for _, s := range got {
				assert.Equal(t, testNow, s.CreatedAt)
			}
		})
	}
}

func TestCompute_Deterministic(t *testing.T) {
	m := domain.Metrics{MonthlyBurn: present("20000"), RunwayMonths: present("7.5")}
	first := Compute(m, testNow)
	require.Len(t, first, 3)

	for i := 0; i < 5; i++ {
		again := Compute(m, testNow.Add(time.Duration(i)*time.Minute))
		if diff := cmp.Diff(first, again, cmpopts.IgnoreFields(domain.Signal{}, "ID", "CreatedAt")); diff != "" {
			t.Fatalf("run %d differs (-first +again):\n%s", i, diff)
		}
	}
}
