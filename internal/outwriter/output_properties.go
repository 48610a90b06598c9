package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/analyzer/internal/contract"
	"github.com/huangsam/analyzer/schema"
	"github.com/olekukonko/tablewriter"
)

// WritePropertyDefinitions prints the properties of a project.
func WritePropertyDefinitions(result schema.RankingResult, cfg *contract.Config) error {
	header := []string{"name", "type", "weight", "strategy", "scores"}
	records := make([][]string, len(result.Properties))
	for i, p := range result.Properties {
		records[i] = []string{p.Name, string(p.Type), strconv.Itoa(p.Weight), string(p.Strategy), strconv.FormatBool(p.Type.Scores())}
	}

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, struct {
				Project    string            `json:"project"`
				Path       string            `json:"path"`
				WeightSum  int               `json:"weight_sum"`
				Specimens  int               `json:"specimens"`
				Properties []schema.Property `json:"properties"`
			}{result.Project, result.Path, result.WeightSum, result.Total, result.Properties})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSV(w, header, records)
		}, "Wrote CSV")
	case schema.XLSXOut:
		if err := fileOnly(cfg); err != nil {
			return err
		}
		cells := make([][]any, len(result.Properties))
		for i, p := range result.Properties {
			cells[i] = []any{p.Name, string(p.Type), p.Weight, string(p.Strategy), p.Type.Scores()}
		}
		return writeXLSX(cfg.OutputFile, "Properties", header, cells)
	case schema.ParquetOut:
		return fmt.Errorf("output format %s is only supported for rankings", cfg.Output)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePropertiesTable(w, result, records)
		}, "Wrote table")
	}
}

func writePropertiesTable(w io.Writer, result schema.RankingResult, records [][]string) error {
	if _, err := fmt.Fprintf(w, "%s (%s)\n", result.Project, result.Path); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Name", "Type", "Weight", "Strategy", "Scores"})
	if err := table.Bulk(records); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d properties, %d specimens, weight sum %d\n", len(result.Properties), result.Total, result.WeightSum)
	return err
}
