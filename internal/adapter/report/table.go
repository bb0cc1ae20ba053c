// Package report renders evaluations, timelines and trends as terminal
// tables and as an xlsx workbook.
package report

import (
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"

	"github.com/simaogato/stagelens-backend/internal/domain"
	"github.com/simaogato/stagelens-backend/internal/usecase/history"
	"github.com/simaogato/stagelens-backend/internal/usecase/trend"
)

// Mode controls the table output format
type Mode int

const (
	ASCII    Mode = iota // fixed-width terminal tables
	Markdown             // GitHub-flavoured Markdown tables
)

// Evaluation is the outcome of running the pipeline on one dated snapshot.
// Exactly one of Result and Err is set.
type Evaluation struct {
	Date       time.Time
	Financials domain.Financials
	Result     *domain.FinalizeResult
	Err        error
}

var (
	evaluationHeader = []string{"Date", "Cash", "Revenue", "Costs", "Burn", "Runway", "Stage", "Branch", "Error"}
	timelineHeader   = []string{"Date", "Stage", "Revenue", "Burn", "Runway", "Transition"}
	trendHeader      = []string{"Date", "Revenue", "Burn", "Runway", "Revenue Growth %"}
)

// EvaluationRows flattens evaluations into string cells, one row per evaluation
func EvaluationRows(evals []Evaluation) [][]string {
	rows := make([][]string, 0, len(evals))
	for _, e := range evals {
		row := []string{
			e.Date.Format(time.DateOnly),
			cell(e.Financials.CashBalance),
			cell(e.Financials.MonthlyRevenue),
			cell(e.Financials.OperatingCosts),
			"", "", "", "", "",
		}
		if e.Err != nil {
			row[8] = e.Err.Error()
		} else if e.Result != nil {
			row[4] = cell(e.Result.Metrics.MonthlyBurn)
			row[5] = cell(e.Result.Metrics.RunwayMonths)
			row[6] = string(e.Result.Stage)
			row[7] = e.Result.Branch
		}
		rows = append(rows, row)
	}
	return rows
}

// TimelineRows flattens timeline items into string cells
func TimelineRows(items []history.TimelineItem) [][]string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			it.Date.Format(time.DateOnly),
			string(it.Stage),
			cell(it.MonthlyRevenue),
			cell(it.MonthlyBurn),
			cell(it.RunwayMonths),
			it.StageTransition,
		})
	}
	return rows
}

// TrendRows flattens the points of a trend series into string cells
func TrendRows(series trend.Series) [][]string {
	rows := make([][]string, 0, len(series.Points))
	for _, p := range series.Points {
		rows = append(rows, []string{
			p.Date,
			cell(p.MonthlyRevenue),
			cell(p.MonthlyBurn),
			cell(p.RunwayMonths),
			cell(p.RevenueGrowth),
		})
	}
	return rows
}

// EvaluationTable renders evaluations as a table
func EvaluationTable(evals []Evaluation, m Mode) string {
	return render(m, evaluationHeader, EvaluationRows(evals), nil, 2, 3, 4, 5, 6)
}

// TimelineTable renders a timeline as a table
func TimelineTable(items []history.TimelineItem, m Mode) string {
	return render(m, timelineHeader, TimelineRows(items), nil, 3, 4, 5)
}

// TrendTable renders a trend series with its indicators in the footer
func TrendTable(series trend.Series, m Mode) string {
	footer := []string{
		"trend",
		direction(series.Indicators.Revenue),
		direction(series.Indicators.Burn),
		direction(series.Indicators.Runway),
		"mean " + cell(series.MeanRevenueGrowth),
	}
	return render(m, trendHeader, TrendRows(series), footer, 2, 3, 4, 5)
}

// render builds a go-pretty table; rightAligned lists 1-based numeric columns
func render(m Mode, header []string, rows [][]string, footer []string, rightAligned ...int) string {
	w := table.NewWriter()
	if m == ASCII {
		w.SetStyle(table.StyleLight)
	}

	w.AppendHeader(toRow(header))
	for _, r := range rows {
		w.AppendRow(toRow(r))
	}
	if footer != nil {
		w.AppendFooter(toRow(footer))
	}

	cfgs := make([]table.ColumnConfig, 0, len(rightAligned))
	for _, n := range rightAligned {
		cfgs = append(cfgs, table.ColumnConfig{Number: n, Align: text.AlignRight})
	}
	w.SetColumnConfigs(cfgs)

	if m == Markdown {
		return w.RenderMarkdown()
	}
	return w.Render()
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

func cell(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.StringFixedBank(2)
}

func direction(d trend.Direction) string {
	if d == trend.DirectionNone {
		return "-"
	}
	return string(d)
}
