package outwriter

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/analyzer/internal/contract"
	"github.com/huangsam/analyzer/internal/parquet"
	"github.com/huangsam/analyzer/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// explainTop is how many contributors the explain column lists.
const explainTop = 3

// WriteRankingResults outputs a ranking, dispatching on the configured format.
func WriteRankingResults(result schema.RankingResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header, rows := rankingRecords(result, cfg, fmtFloat)
			return writeCSV(w, header, rows)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if err := fileOnly(cfg); err != nil {
			return err
		}
		return parquet.WriteRankingParquet(parquet.ConvertRankedSpecimens(result.Rows), cfg.OutputFile)
	case schema.XLSXOut:
		if err := fileOnly(cfg); err != nil {
			return err
		}
		header, rows := rankingCells(result, cfg)
		return writeXLSX(cfg.OutputFile, "Ranking", header, rows)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRankingTable(w, result, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
}

// scoringProperties returns the properties that take part in scoring, in project order.
func scoringProperties(props []schema.Property) []schema.Property {
	var out []schema.Property
	for _, p := range props {
		if p.Type.Scores() {
			out = append(out, p)
		}
	}
	return out
}

// writeRankingTable renders the human-readable table.
func writeRankingTable(w io.Writer, result schema.RankingResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	detail := scoringProperties(result.Properties)
	showDelta := result.PreviousAt != nil

	headers := []string{"Rank", "Name", "Score", "Label"}
	if showDelta {
		headers = append(headers, "Move")
	}
	if cfg.Detail {
		for _, p := range detail {
			headers = append(headers, p.Name)
		}
	}
	if cfg.Explain {
		headers = append(headers, "Explain")
	}

	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTableNameWidth(cfg, len(detail))
	var data [][]string
	for _, r := range result.Rows {
		row := []string{
			strconv.Itoa(r.Rank),
			contract.TruncatePath(r.Name, nameWidth),
			formatScore(r.Value, fmtFloat),
			labelFor(r, cfg.UseColors),
		}
		if showDelta {
			row = append(row, FormatRankDelta(r))
		}
		if cfg.Detail {
			for _, p := range detail {
				if v, ok := r.Normalized[p.Name]; ok {
					row = append(row, fmtFloat(v))
				} else {
					row = append(row, "-")
				}
			}
		}
		if cfg.Explain {
			row = append(row, FormatTopContributors(r, result.Properties, explainTop))
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Showing %d of %d specimens in %s (weight sum: %d)\n", len(result.Rows), result.Total, result.Project, result.WeightSum); err != nil {
		return err
	}
	if result.WeightSum == 0 && len(result.Rows) > 0 {
		if _, err := fmt.Fprintln(w, "No property carries weight, so every specimen is unscored."); err != nil {
			return err
		}
	}
	if showDelta {
		if _, err := fmt.Fprintf(w, "Moves are relative to the ranking of %s\n", result.PreviousAt.Format(contract.DateTimeFormat)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Ranking completed in %v\n", duration)
	return err
}

// rankingRecords flattens rows for CSV.
func rankingRecords(result schema.RankingResult, cfg *contract.Config, fmtFloat func(float64) string) ([]string, [][]string) {
	cells := rankingCellsWith(result, cfg, func(v float64) any { return fmtFloat(v) })
	header := cells.header
	rows := make([][]string, len(cells.rows))
	for i, row := range cells.rows {
		rec := make([]string, len(row))
		for j, c := range row {
			rec[j] = fmt.Sprint(c)
		}
		rows[i] = rec
	}
	return header, rows
}

// rankingCells flattens rows for spreadsheets, keeping numbers numeric.
func rankingCells(result schema.RankingResult, cfg *contract.Config) ([]string, [][]any) {
	cells := rankingCellsWith(result, cfg, func(v float64) any { return v })
	return cells.header, cells.rows
}

type cellGrid struct {
	header []string
	rows   [][]any
}

// rankingCellsWith builds the machine-readable grid: rank, id, name, score,
// label, delta, then one raw value column per property and, with detail, one
// normalized column per scoring property.
func rankingCellsWith(result schema.RankingResult, cfg *contract.Config, num func(float64) any) cellGrid {
	detail := scoringProperties(result.Properties)
	grid := cellGrid{header: []string{"rank", "id", "name", "score", "label", "rank_delta"}}
	for _, p := range result.Properties {
		grid.header = append(grid.header, p.Name)
	}
	if cfg.Detail {
		for _, p := range detail {
			grid.header = append(grid.header, "norm_"+p.Name)
		}
	}

	for _, r := range result.Rows {
		row := []any{r.Rank, r.ID, r.Name, "", string(r.Label), ""}
		if r.Value != nil {
			row[3] = num(*r.Value)
		}
		if r.RankDelta != nil {
			row[5] = *r.RankDelta
		}
		for _, p := range result.Properties {
			v, ok := r.Properties[p.Name]
			switch {
			case !ok:
				row = append(row, "")
			case v.Kind() == schema.DoubleType:
				row = append(row, num(v.Number()))
			case v.Kind() == schema.BooleanType:
				row = append(row, v.Bool())
			default:
				row = append(row, v.Text())
			}
		}
		if cfg.Detail {
			for _, p := range detail {
				if n, ok := r.Normalized[p.Name]; ok {
					row = append(row, num(n))
				} else {
					row = append(row, "")
				}
			}
		}
		grid.rows = append(grid.rows, row)
	}
	return grid
}

// formatScore renders a score or "-" when the specimen is unscored.
func formatScore(v *float64, fmtFloat func(float64) string) string {
	if v == nil {
		return "-"
	}
	return fmtFloat(*v)
}

// labelFor returns the plain or colored label of a row.
func labelFor(r schema.RankedSpecimen, useColors bool) string {
	if !useColors {
		return string(r.Label)
	}
	score := 0.0
	if r.Value != nil {
		score = *r.Value
	}
	return contract.GetColorLabel(score, r.Value != nil)
}

// FormatRankDelta renders a rank movement: "+2" for up, "-1" for down, "=" for
// unchanged, "?" when the name was ranked but is shared, and "new" otherwise.
func FormatRankDelta(r schema.RankedSpecimen) string {
	delta := r.RankDelta
	switch {
	case delta == nil && r.Ambiguous:
		return "?"
	case delta == nil:
		return "new"
	case *delta > 0:
		return "+" + strconv.Itoa(*delta)
	case *delta < 0:
		return strconv.Itoa(*delta)
	default:
		return "="
	}
}

// FormatTopContributors lists the properties adding the most to a score as
// "name share%" pairs, where share is the part of the final score.
func FormatTopContributors(r schema.RankedSpecimen, props []schema.Property, n int) string {
	if r.Value == nil || len(r.Normalized) == 0 {
		return ""
	}
	weights := make(map[string]int, len(props))
	weightSum := 0
	for _, p := range props {
		if _, ok := r.Normalized[p.Name]; ok {
			weights[p.Name] = p.Weight
			weightSum += p.Weight
		}
	}
	if weightSum == 0 {
		return ""
	}

	type share struct {
		name  string
		value float64
	}
	var shares []share
	for name, normalized := range r.Normalized {
		v := normalized * float64(weights[name]) / float64(weightSum)
		if v <= 0 {
			continue
		}
		shares = append(shares, share{name, v})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].value != shares[j].value {
			return shares[i].value > shares[j].value
		}
		return shares[i].name < shares[j].name
	})
	if len(shares) > n {
		shares = shares[:n]
	}

	parts := make([]string, len(shares))
	for i, s := range shares {
		parts[i] = fmt.Sprintf("%s %.0f%%", s.name, s.value*100)
	}
	return strings.Join(parts, ", ")
}
