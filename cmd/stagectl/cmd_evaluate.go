package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/simaogato/stagelens-backend/internal/adapter/report"
	"github.com/simaogato/stagelens-backend/internal/domain"
	"github.com/simaogato/stagelens-backend/internal/usecase/history"
	"github.com/simaogato/stagelens-backend/internal/usecase/pipeline"
	"github.com/simaogato/stagelens-backend/internal/usecase/rules"
	"github.com/simaogato/stagelens-backend/internal/usecase/stage"
	"github.com/simaogato/stagelens-backend/internal/usecase/trend"
	"github.com/simaogato/stagelens-backend/internal/usecase/validator"
)

var evaluateFlags struct {
	file     string
	xlsx     string
	ceiling  string
	markdown bool
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Finalize every snapshot of a series and report stages, timeline and trends",
	RunE:  runEvaluate,
}

func init() {
	f := evaluateCmd.Flags()
	f.StringVarP(&evaluateFlags.file, "file", "f", "", "Series YAML file, - for stdin (required)")
	f.StringVar(&evaluateFlags.xlsx, "xlsx", "", "Also write the reports to this workbook")
	f.StringVar(&evaluateFlags.ceiling, "ceiling", validator.DefaultCeiling.String(), "Largest accepted financial value")
	f.BoolVar(&evaluateFlags.markdown, "markdown", false, "Render Markdown tables instead of terminal tables")

	_ = evaluateCmd.MarkFlagRequired("file")
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	ceiling, err := decimal.NewFromString(evaluateFlags.ceiling)
	if err != nil || ceiling.IsNegative() {
		return fmt.Errorf("invalid --ceiling %q", evaluateFlags.ceiling)
	}

	var in io.Reader = cmd.InOrStdin()
	if evaluateFlags.file != "-" {
		fh, err := os.Open(evaluateFlags.file)
		if err != nil {
			return fmt.Errorf("open series: %w", err)
		}
		defer fh.Close()
		in = fh
	}

	series, entries, err := decodeSeries(in)
	if err != nil {
		return err
	}

	p := pipeline.New(validator.New(ceiling), rules.DefaultEngine(), stage.Default())
	evals, finalized := evaluate(p, entries, time.Now().UTC())

	mode := report.ASCII
	if evaluateFlags.markdown {
		mode = report.Markdown
	}

	timeline := history.BuildTimeline(finalized)
	trends := trend.Build(finalized)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Company: %s\n\n", series.Company)
	fmt.Fprintln(out, report.EvaluationTable(evals, mode))
	fmt.Fprintf(out, "\nTimeline (%d finalized)\n", len(timeline))
	fmt.Fprintln(out, report.TimelineTable(timeline, mode))
	fmt.Fprintln(out, "\nTrends")
	fmt.Fprintln(out, report.TrendTable(trends, mode))

	if evaluateFlags.xlsx != "" {
		if err := report.WriteWorkbook(evaluateFlags.xlsx, evals, timeline, trends); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nWorkbook: %s\n", evaluateFlags.xlsx)
	}

	if failed := len(evals) - len(finalized); failed > 0 {
		return fmt.Errorf("%d of %d snapshots could not be finalized", failed, len(evals))
	}
	return nil
}

// evaluate finalizes each entry as its own DRAFT snapshot of one company.
// Failed entries are reported and left out of the finalized list.
func evaluate(p *pipeline.Pipeline, entries []DatedFinancials, now time.Time) ([]report.Evaluation, []*domain.Snapshot) {
	companyID := uuid.New()
	evals := make([]report.Evaluation, 0, len(entries))
	finalized := make([]*domain.Snapshot, 0, len(entries))
	for _, e := range entries {
		snap := domain.NewSnapshot(companyID, e.Date, e.Financials, now)
		result, err := p.Finalize(snap, now)
		evals = append(evals, report.Evaluation{
			Date:       e.Date,
			Financials: e.Financials,
			Result:     result,
			Err:        err,
		})
		if err == nil {
			finalized = append(finalized, snap)
		}
	}
	return evals, finalized
}
