package signals

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/stagelens-backend/internal/domain"
)

// Runway risk codes carried by the RunwayRisk signal
const (
	RiskNone     = 0 // not burning
	RiskHealthy  = 1 // runway > 12 months
	RiskCaution  = 2 // 6 <= runway <= 12 months
	RiskHighRisk = 3 // runway < 6 months
)

var (
	sixMonths    = decimal.NewFromInt(6)
	twelveMonths = decimal.NewFromInt(12)
)

// ClassifyRunway maps a runway in months to a risk code.
// An unset runway means the company is not burning cash.
func ClassifyRunway(runway decimal.NullDecimal) int {
	if !runway.Valid {
		return RiskNone
	}

	switch r := runway.Decimal; {
	case r.LessThan(sixMonths):
		return RiskHighRisk
	case r.LessThanOrEqual(twelveMonths):
		return RiskCaution
	default:
		return RiskHealthy
	}
}

// Compute derives the baseline signals from metrics, in the fixed order
// MonthlyBurn, RunwayMonths, RunwayRisk.
//
// Signals are only emitted for values that exist. RunwayRisk needs a known
// burn, and when the company is burning it also needs a known runway;
// otherwise the risk cannot be answered and the signal is left out.
func Compute(m domain.Metrics, now time.Time) []domain.Signal {
	out := make([]domain.Signal, 0, 3)

	if m.MonthlyBurn.Valid {
		out = append(out, domain.NewSignal(domain.SignalMonthlyBurn, domain.SignalCategoryFinancial, m.MonthlyBurn.Decimal, now))
	}

	if m.RunwayMonths.Valid {
		out = append(out, domain.NewSignal(domain.SignalRunwayMonths, domain.SignalCategoryFinancial, m.RunwayMonths.Decimal, now))
	}

	if riskAnswerable(m) {
		risk := ClassifyRunway(m.RunwayMonths)
		out = append(out, domain.NewSignal(domain.SignalRunwayRisk, domain.SignalCategoryRisk, decimal.NewFromInt(int64(risk)), now))
	}

	return out
}

func riskAnswerable(m domain.Metrics) bool {
	if !m.MonthlyBurn.Valid {
		return false
	}
	if !m.MonthlyBurn.Decimal.IsPositive() {
		return true
	}
	return m.RunwayMonths.Valid
}
