package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/analyzer/internal/contract"
	"github.com/huangsam/analyzer/schema"
	"github.com/olekukonko/tablewriter"
)

// WriteCheckResult prints the outcome of a threshold check.
func WriteCheckResult(result schema.CheckResult, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			rows := make([][]string, len(result.Failed))
			for i, f := range result.Failed {
				rows[i] = []string{strconv.Itoa(f.Rank), f.Name, fmtFloat(f.Score), fmtFloat(result.Threshold)}
			}
			return writeCSV(w, []string{"rank", "name", "score", "threshold"}, rows)
		}, "Wrote CSV")
	case schema.ParquetOut, schema.XLSXOut:
		return fmt.Errorf("output format %s is only supported for rankings", cfg.Output)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCheckText(w, result, fmtFloat)
		}, "Wrote text")
	}
}

func writeCheckText(w io.Writer, result schema.CheckResult, fmtFloat func(float64) string) error {
	if result.ScoredCount == 0 {
		_, err := fmt.Fprintf(w, "⚠️  %s has no scored specimens (%d total); nothing to check\n", result.Project, result.TotalSpecimens)
		return err
	}
	if result.Passed {
		_, err := fmt.Fprintf(w, "✅ All %d scored specimens of %s reach %s (min %s, avg %s)\n",
			result.ScoredCount, result.Project, fmtFloat(result.Threshold), fmtFloat(result.MinScore), fmtFloat(result.AvgScore))
		return err
	}

	if _, err := fmt.Fprintf(w, "❌ %d of %d scored specimens of %s are below %s\n",
		len(result.Failed), result.ScoredCount, result.Project, fmtFloat(result.Threshold)); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Name", "Score"})
	var data [][]string
	for _, f := range result.Failed {
		data = append(data, []string{strconv.Itoa(f.Rank), f.Name, fmtFloat(f.Score)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
