package outwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/analyzer/internal/contract"
	"github.com/huangsam/analyzer/schema"
	"github.com/olekukonko/tablewriter"
)

// WriteMetricsDefinitions displays every normalization curve with sample points.
func WriteMetricsDefinitions(model schema.MetricsRenderModel, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, model)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header, rows := metricsRecords(model, fmtFloat)
			return writeCSV(w, header, rows)
		}, "Wrote CSV")
	case schema.XLSXOut:
		if err := fileOnly(cfg); err != nil {
			return err
		}
		header := metricsHeader(model, fmtFloat)
		cells := make([][]any, len(model.Curves))
		for i, c := range model.Curves {
			row := []any{string(c.Strategy), c.Formula, c.Purpose}
			for _, s := range c.Samples {
				row = append(row, s)
			}
			cells[i] = row
		}
		return writeXLSX(cfg.OutputFile, "Curves", header, cells)
	case schema.ParquetOut:
		return fmt.Errorf("output format %s is only supported for rankings", cfg.Output)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMetricsText(w, model, fmtFloat)
		}, "Wrote text")
	}
}

func metricsHeader(model schema.MetricsRenderModel, fmtFloat func(float64) string) []string {
	header := []string{"strategy", "formula", "purpose"}
	for _, pos := range model.Positions {
		header = append(header, "at_"+fmtFloat(pos))
	}
	return header
}

func metricsRecords(model schema.MetricsRenderModel, fmtFloat func(float64) string) ([]string, [][]string) {
	rows := make([][]string, len(model.Curves))
	for i, c := range model.Curves {
		row := []string{string(c.Strategy), c.Formula, c.Purpose}
		for _, s := range c.Samples {
			row = append(row, fmtFloat(s))
		}
		rows[i] = row
	}
	return metricsHeader(model, fmtFloat), rows
}

// writeMetricsText displays the curves in human-readable form.
func writeMetricsText(w io.Writer, model schema.MetricsRenderModel, fmtFloat func(float64) string) error {
	if _, err := fmt.Fprintf(w, "📈 %s\n%s\n\n%s\n\n", model.Title, strings.Repeat("=", len(model.Title)+3), model.Description); err != nil {
		return err
	}
	for _, c := range model.Curves {
		if _, err := fmt.Fprintf(w, "%s: %s\n   Formula: n = %s\n\n", c.Strategy, c.Purpose, c.Formula); err != nil {
			return err
		}
	}

	header := []string{"Strategy"}
	for _, pos := range model.Positions {
		header = append(header, "x="+fmtFloat(pos))
	}
	var data [][]string
	for _, c := range model.Curves {
		row := []string{string(c.Strategy)}
		for _, s := range c.Samples {
			row = append(row, fmtFloat(s))
		}
		data = append(data, row)
	}
	table := tablewriter.NewWriter(w)
	table.Header(header)
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
