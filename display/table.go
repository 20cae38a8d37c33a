package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	"github.com/teranos/typeinfer/profile"
	"github.com/teranos/typeinfer/stats"
)

// MaxTableSamples is how many samples a table cell shows
const MaxTableSamples = 3

// ConversionRow is one converted value as shown by the convert command
type ConversionRow struct {
	Input string      `json:"input" yaml:"input" toml:"input"`
	Tag   string      `json:"tag" yaml:"tag" toml:"tag"`
	Value interface{} `json:"value" yaml:"value" toml:"value"`
	Type  string      `json:"type" yaml:"type" toml:"type"`
}

// RenderConversions prints one line per converted value
func RenderConversions(w io.Writer, rows []ConversionRow) error {
	data := pterm.TableData{{"Input", "Tag", "Value", "Go type"}}
	for _, r := range rows {
		data = append(data, []string{r.Input, tagCell(r.Tag), fmt.Sprint(r.Value), r.Type})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(w).Render()
}

// RenderTypes prints a series summary, most common tag first
func RenderTypes(w io.Writer, title string, summary stats.Summary) error {
	if title != "" {
		fmt.Fprintf(w, "%s %s\n", pterm.LightCyan(title), pterm.Gray(fmt.Sprintf("(%d values)", summary.Total)))
	}

	data := pterm.TableData{{"Tag", "Count", "Frequency", "Samples"}}
	for _, info := range summary.Types {
		data = append(data, []string{
			tagCell(info.Tag),
			fmt.Sprintf("%d", info.Count),
			percent(info.Frequency),
			samplesCell(info.Sample),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(w).Render()
}

// RenderReport prints a profile report as a header line and one row per column
func RenderReport(w io.Writer, report *profile.Report) error {
	fmt.Fprintf(w, "%s %s\n",
		pterm.LightCyan(report.Source),
		pterm.Gray(fmt.Sprintf("(%d rows, %d columns, %dms, report %s)",
			report.Rows, len(report.Columns), report.DurationMS, shortID(report.ID))))

	data := pterm.TableData{{"#", "Column", "Type", "Breakdown", "Samples"}}
	for _, col := range report.Columns {
		dominant := tagCell(col.Dominant)
		if col.Mixed {
			dominant += " (mixed)"
		}

		var samples []stats.Sample
		for _, info := range col.Summary.Types {
			if info.Tag == col.Dominant {
				samples = info.Sample
			}
		}

		data = append(data, []string{
			fmt.Sprintf("%d", col.Index+1),
			col.Name,
			dominant,
			breakdown(col.Summary),
			samplesCell(samples),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(w).Render()
}

// breakdown renders "int 75%, unknown 25%"
func breakdown(s stats.Summary) string {
	parts := make([]string, 0, len(s.Types))
	for _, info := range s.Types {
		parts = append(parts, fmt.Sprintf("%s %s", info.Tag, percent(info.Frequency)))
	}
	return strings.Join(parts, ", ")
}

func samplesCell(samples []stats.Sample) string {
	n := len(samples)
	if n > MaxTableSamples {
		samples = samples[:MaxTableSamples]
	}
	values := make([]string, len(samples))
	for i, s := range samples {
		values[i] = fmt.Sprintf("%q", s.Value)
	}
	cell := strings.Join(values, ", ")
	if n > MaxTableSamples {
		cell += fmt.Sprintf(" +%d", n-MaxTableSamples)
	}
	return cell
}

func tagCell(tag string) string {
	if tag == "" || tag == stats.Unknown {
		return pterm.Gray(stats.Unknown)
	}
	return pterm.Green(tag)
}

func percent(f float64) string {
	return fmt.Sprintf("%.0f%%", f*100)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// RenderSchema prints column names with their dominant tag
func RenderSchema(w io.Writer, fields []profile.Field) error {
	data := pterm.TableData{{"Column", "Type"}}
	for _, f := range fields {
		data = append(data, []string{f.Name, tagCell(f.Tag)})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(w).Render()
}

// ConverterRow is one registry entry as shown by the converters command
type ConverterRow struct {
	Priority int    `json:"priority" yaml:"priority" toml:"priority"`
	Tag      string `json:"tag" yaml:"tag" toml:"tag"`
	Type     string `json:"type" yaml:"type" toml:"type"`
}

// RenderConverters prints the try-order, first tried first
func RenderConverters(w io.Writer, rows []ConverterRow) error {
	data := pterm.TableData{{"#", "Tag", "Go type"}}
	for _, r := range rows {
		data = append(data, []string{fmt.Sprintf("%d", r.Priority), pterm.Green(r.Tag), r.Type})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(w).Render()
}
