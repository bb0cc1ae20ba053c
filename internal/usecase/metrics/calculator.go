package metrics

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/stagelens-backend/internal/domain"
)

// Calculate derives monthly burn and runway from raw financial attributes.
//
// Logic:
//   - If operating costs or monthly revenue is absent, nothing is derived
//   - MonthlyBurn = OperatingCosts - MonthlyRevenue (negative = cash-generative)
//   - RunwayMonths = CashBalance / MonthlyBurn, only when cash is present and burn > 0
//
// Decimal arithmetic keeps repeated calls bit-identical.
func Calculate(f domain.Financials) domain.Metrics {
	if !f.OperatingCosts.Valid || !f.MonthlyRevenue.Valid {
		return domain.Metrics{}
	}

	burn := f.OperatingCosts.Decimal.Sub(f.MonthlyRevenue.Decimal)
	m := domain.Metrics{MonthlyBurn: decimal.NewNullDecimal(burn)}

	// Profitable or break-even companies have no runway concern
	if !f.CashBalance.Valid || !burn.IsPositive() {
		return m
	}

	m.RunwayMonths = decimal.NewNullDecimal(f.CashBalance.Decimal.Div(burn))
	return m
}

// Refresh recomputes and stores the derived metrics of a DRAFT snapshot
func Refresh(s *domain.Snapshot) error {
	return s.ApplyMetrics(Calculate(s.Financials()))
}
