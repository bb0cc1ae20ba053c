package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/simaogato/stagelens-backend/internal/domain"
)

// Series is the YAML input of the evaluate command
type Series struct {
	Company   string        `yaml:"company"`
	Snapshots []SeriesEntry `yaml:"snapshots"`
}

// SeriesEntry is one dated snapshot. Omitted values are treated as unknown.
type SeriesEntry struct {
	Date           string  `yaml:"date"`
	CashBalance    *string `yaml:"cash_balance,omitempty"`
	MonthlyRevenue *string `yaml:"monthly_revenue,omitempty"`
	OperatingCosts *string `yaml:"operating_costs,omitempty"`
}

// DatedFinancials is a parsed series entry
type DatedFinancials struct {
	Date       time.Time
	Financials domain.Financials
}

// decodeSeries reads a series and returns its entries in date order
func decodeSeries(r io.Reader) (*Series, []DatedFinancials, error) {
	var s Series
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, nil, fmt.Errorf("parse series: %w", err)
	}

	if strings.TrimSpace(s.Company) == "" {
		return nil, nil, fmt.Errorf("parse series: company is required")
	}
	if len(s.Snapshots) == 0 {
		return nil, nil, fmt.Errorf("parse series: at least one snapshot is required")
	}

	seen := make(map[time.Time]bool, len(s.Snapshots))
	out := make([]DatedFinancials, 0, len(s.Snapshots))
	for i, e := range s.Snapshots {
		date, err := time.Parse(time.DateOnly, strings.TrimSpace(e.Date))
		if err != nil {
			return nil, nil, fmt.Errorf("snapshot %d: invalid date %q, want YYYY-MM-DD", i+1, e.Date)
		}
		if seen[date] {
			return nil, nil, fmt.Errorf("snapshot %d: duplicate date %s", i+1, e.Date)
		}
		seen[date] = true

		f, err := e.financials()
		if err != nil {
			return nil, nil, fmt.Errorf("snapshot %d (%s): %w", i+1, e.Date, err)
		}
		out = append(out, DatedFinancials{Date: date, Financials: f})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return &s, out, nil
}

func (e SeriesEntry) financials() (domain.Financials, error) {
	var f domain.Financials
	fields := []struct {
		name  string
		value *string
		dest  *decimal.NullDecimal
	}{
		{"cash_balance", e.CashBalance, &f.CashBalance},
		{"monthly_revenue", e.MonthlyRevenue, &f.MonthlyRevenue},
		{"operating_costs", e.OperatingCosts, &f.OperatingCosts},
	}

	for _, field := range fields {
		if field.value == nil {
			continue
		}
		d, err := decimal.NewFromString(strings.TrimSpace(*field.value))
		if err != nil {
			return domain.Financials{}, fmt.Errorf("invalid %s %q", field.name, *field.value)
		}
		*field.dest = decimal.NewNullDecimal(d)
	}
	return f, nil
}
