package validator

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/simaogato/stagelens-backend/internal/domain"
)

// DefaultCeiling is the extreme-value guard applied to every financial field (10^12)
var DefaultCeiling = decimal.New(1, 12)

// Violated rule tokens carried by sanity errors
const (
	RuleNegative       = "negative"
	RuleExceedsCeiling = "exceeds_ceiling"
)

// FinancialValidator rejects financially nonsensical input before any computation
type FinancialValidator struct {
	Ceiling decimal.Decimal
}

// New creates a validator with the given extreme-value ceiling
func New(ceiling decimal.Decimal) *FinancialValidator {
	return &FinancialValidator{Ceiling: ceiling}
}

// Default creates a validator with DefaultCeiling
func Default() *FinancialValidator {
	return New(DefaultCeiling)
}

// Validate checks every present financial value.
// Rules:
//   - value must be >= 0
//   - value must not exceed the ceiling
//
// Absent values are always valid. Fields are checked in the order
// cash_balance, monthly_revenue, operating_costs and the first violation is returned.
func (v *FinancialValidator) Validate(f domain.Financials) error {
	fields := []struct {
		name  string
		label string
		value decimal.NullDecimal
	}{
		{"cash_balance", "Cash balance", f.CashBalance},
		{"monthly_revenue", "Monthly revenue", f.MonthlyRevenue},
		{"operating_costs", "Operating costs", f.OperatingCosts},
	}

	for _, field := range fields {
		if !field.value.Valid {
			continue
		}
		value := field.value.Decimal

		if value.IsNegative() {
			return domain.NewSanityError(field.name, value.String(), RuleNegative,
				fmt.Sprintf("%s cannot be negative", field.label))
		}

		if value.GreaterThan(v.Ceiling) {
			return domain.NewSanityError(field.name, value.String(), RuleExceedsCeiling,
				fmt.Sprintf("%s exceeds realistic threshold (%s)", field.label, v.Ceiling.String()))
		}
	}

	return nil
}
