package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/simaogato/stagelens-backend/internal/usecase/history"
	"github.com/simaogato/stagelens-backend/internal/usecase/trend"
)

// Workbook sheet names
const (
	SheetEvaluations = "Evaluations"
	SheetTimeline    = "Timeline"
	SheetTrends      = "Trends"
)

// Workbook builds a workbook with one sheet per report
func Workbook(evals []Evaluation, items []history.TimelineItem, series trend.Series) (*excelize.File, error) {
	f := excelize.NewFile()

	sheets := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{SheetEvaluations, evaluationHeader, EvaluationRows(evals)},
		{SheetTimeline, timelineHeader, TimelineRows(items)},
		{SheetTrends, trendHeader, TrendRows(series)},
	}

	for i, s := range sheets {
		if i == 0 {
			// Rename the default sheet instead of leaving an empty one behind
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", s.name, err)
		}

		if err := writeSheet(f, s.name, s.header, s.rows); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// WriteWorkbook builds the workbook and saves it to path
func WriteWorkbook(path string, evals []Evaluation, items []history.TimelineItem, series trend.Series) error {
	f, err := Workbook(evals, items, series)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]string) error {
	for i, h := range header {
		c, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, c, h); err != nil {
			return fmt.Errorf("failed to write %s header: %w", sheet, err)
		}
	}

	for r, row := range rows {
		for col, v := range row {
			c, _ := excelize.CoordinatesToCellName(col+1, r+2)
			if err := f.SetCellValue(sheet, c, v); err != nil {
				return fmt.Errorf("failed to write %s row %d: %w", sheet, r+1, err)
			}
		}
	}
	return nil
}
