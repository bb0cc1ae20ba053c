package trend

import (
	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
	"github.com/simaogato/stagelens-backend/internal/domain"
)

// Direction of a metric over the most recent points
type Direction string

const (
	DirectionUp   Direction = "UP"
	DirectionDown Direction = "DOWN"
	DirectionFlat Direction = "FLAT"
	// DirectionNone means fewer than two values were available
	DirectionNone Direction = ""
)

// window is the number of trailing points the indicators look at
const window = 3

var hundred = decimal.NewFromInt(100)

// Point is one snapshot's values in a time series
type Point struct {
	Date           string // YYYY-MM-DD
	RunwayMonths   decimal.NullDecimal
	MonthlyBurn    decimal.NullDecimal
	MonthlyRevenue decimal.NullDecimal
	RevenueGrowth  decimal.NullDecimal // percent vs previous point, 2 decimal places
}

// Indicators summarize the direction of each metric
type Indicators struct {
	Revenue Direction
	Burn    Direction
	Runway  Direction
}

// Series is the trend analysis of a company's finalized snapshots
type Series struct {
	Points            []Point
	Indicators        Indicators
	SnapshotCount     int
	MeanRevenueGrowth decimal.NullDecimal
}

// Build turns chronologically ordered finalized snapshots into a time series.
// Linear in the number of snapshots; the same input always yields the same series.
func Build(snapshots []*domain.Snapshot) Series {
	series := Series{
		Points:        make([]Point, 0, len(snapshots)),
		SnapshotCount: len(snapshots),
	}

	var previous decimal.NullDecimal
	var growths stats.Float64Data

	for _, s := range snapshots {
		f := s.Financials()
		m := s.Metrics()

		p := Point{
			Date:           s.Date.Format("2006-01-02"),
			RunwayMonths:   m.RunwayMonths,
			MonthlyBurn:    m.MonthlyBurn,
			MonthlyRevenue: f.MonthlyRevenue,
			RevenueGrowth:  Growth(f.MonthlyRevenue, previous),
		}
		if p.RevenueGrowth.Valid {
			growths = append(growths, p.RevenueGrowth.Decimal.InexactFloat64())
		}

		series.Points = append(series.Points, p)
		previous = f.MonthlyRevenue
	}

	series.Indicators = indicators(series.Points)

	if mean, err := stats.Mean(growths); err == nil {
		series.MeanRevenueGrowth = decimal.NewNullDecimal(decimal.NewFromFloat(mean).Round(2))
	}

	return series
}

// Growth returns (current - previous) / previous * 100 rounded to 2 places.
// It is unset when either value is unset or previous is zero.
func Growth(current, previous decimal.NullDecimal) decimal.NullDecimal {
	if !current.Valid || !previous.Valid || previous.Decimal.IsZero() {
		return decimal.NullDecimal{}
	}
	g := current.Decimal.Sub(previous.Decimal).Div(previous.Decimal).Mul(hundred).Round(2)
	return decimal.NewNullDecimal(g)
}

func indicators(points []Point) Indicators {
	if len(points) < 2 {
		return Indicators{}
	}

	recent := points
	if len(recent) > window {
		recent = recent[len(recent)-window:]
	}

	var revenues, burns, runways []decimal.Decimal
	for _, p := range recent {
		if p.MonthlyRevenue.Valid {
			revenues = append(revenues, p.MonthlyRevenue.Decimal)
		}
		if p.MonthlyBurn.Valid {
			burns = append(burns, p.MonthlyBurn.Decimal)
		}
		if p.RunwayMonths.Valid {
			runways = append(runways, p.RunwayMonths.Decimal)
		}
	}

	return Indicators{
		Revenue: direction(revenues),
		Burn:    direction(burns),
		Runway:  direction(runways),
	}
}

// direction is UP when strictly increasing, DOWN when strictly decreasing, FLAT otherwise
func direction(values []decimal.Decimal) Direction {
	if len(values) < 2 {
		return DirectionNone
	}

	up, down := true, true
	for i := 1; i < len(values); i++ {
		if !values[i].GreaterThan(values[i-1]) {
			up = false
		}
		if !values[i].LessThan(values[i-1]) {
			down = false
		}
	}

	switch {
	case up:
		return DirectionUp
	case down:
		return DirectionDown
	default:
		return DirectionFlat
	}
}
