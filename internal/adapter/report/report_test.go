package report

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/simaogato/stagelens-backend/internal/domain"
	"github.com/simaogato/stagelens-backend/internal/usecase/history"
	"github.com/simaogato/stagelens-backend/internal/usecase/pipeline"
	"github.com/simaogato/stagelens-backend/internal/usecase/trend"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func present(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

// fixture evaluates two dated snapshots and one that fails sanity
func fixture(t *testing.T) ([]Evaluation, []history.TimelineItem, trend.Series) {
	t.Helper()
	p := pipeline.Default()
	companyID := uuid.New()

	inputs := []struct {
		date time.Time
		f    domain.Financials
	}{
		{time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), domain.Financials{CashBalance: present(120000), MonthlyRevenue: present(20000), OperatingCosts: present(40000)}},
		{time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), domain.Financials{CashBalance: present(500000), MonthlyRevenue: present(100000), OperatingCosts: present(80000)}},
		{time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), domain.Financials{CashBalance: present(-1)}},
	}

	var evals []Evaluation
	var finalized []*domain.Snapshot
	for _, in := range inputs {
		s := domain.NewSnapshot(companyID, in.date, in.f, testNow)
		result, err := p.Finalize(s, testNow)
		evals = append(evals, Evaluation{Date: in.date, Financials: in.f, Result: result, Err: err})
		if err == nil {
			finalized = append(finalized, s)
		}
	}
	require.Len(t, finalized, 2)
	return evals, history.BuildTimeline(finalized), trend.Build(finalized)
}

func TestEvaluationRows(t *testing.T) {
	evals, _, _ := fixture(t)

	rows := EvaluationRows(evals)

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2026-01-01", "120000.00", "20000.00", "40000.00", "20000.00", "6.00", "PRE_SEED", "runway-caution", ""}, rows[0])
	assert.Equal(t, "-20000.00", rows[1][4])
	assert.Equal(t, "-", rows[1][5])
	assert.Equal(t, "SERIES_A", rows[1][6])
	assert.Equal(t, "", rows[2][6])
	assert.Contains(t, rows[2][8], "cash_balance")
}

func TestTables(t *testing.T) {
	evals, items, series := fixture(t)

	ascii := EvaluationTable(evals, ASCII)
	assert.Contains(t, ascii, "PRE_SEED")
	assert.Contains(t, ascii, "SERIES_A")
	assert.Contains(t, ascii, "┌")

	md := TimelineTable(items, Markdown)
	assert.True(t, strings.HasPrefix(md, "|"))
	assert.Contains(t, md, "PRE_SEED -> SERIES_A")

	trends := TrendTable(series, ASCII)
	assert.Contains(t, trends, "400.00")
	assert.Contains(t, trends, "UP")
}

func TestWriteWorkbook(t *testing.T) {
	evals, items, series := fixture(t)
	path := filepath.Join(t.TempDir(), "evaluation.xlsx")

	require.NoError(t, WriteWorkbook(path, evals, items, series))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetEvaluations, SheetTimeline, SheetTrends}, f.GetSheetList())

	rows, err := f.GetRows(SheetEvaluations)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, evaluationHeader, rows[0])
	assert.Equal(t, "PRE_SEED", rows[1][6])

	rows, err = f.GetRows(SheetTimeline)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "PRE_SEED -> SERIES_A", rows[2][5])

	rows, err = f.GetRows(SheetTrends)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "400.00", rows[2][4])
}

func TestWorkbook_EmptyInputs(t *testing.T) {
	f, err := Workbook(nil, nil, trend.Series{})
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetTrends)
	require.NoError(t, err)
	assert.Equal(t, [][]string{trendHeader}, rows)
}
