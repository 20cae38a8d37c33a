package display

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/teranos/typeinfer/converters"
	"github.com/teranos/typeinfer/errors"
	"github.com/teranos/typeinfer/ingest"
	"github.com/teranos/typeinfer/profile"
	"github.com/teranos/typeinfer/stats"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	os.Exit(m.Run())
}

func sampleReport(t *testing.T) *profile.Report {
	t.Helper()
	engine, err := converters.NewEngine(converters.DefaultOptions(), nil)
	require.NoError(t, err)

	table := ingest.NewReader(strings.NewReader("id,when\n1,2013-03-01\n2,n/a\n3,3/20/2013\n4,2013-3-4\n5,x\n"),
		ingest.ReaderOptions{Header: true})
	report, err := profile.NewProfiler(engine, nil).Profile(context.Background(), table,
		profile.Options{Source: "events.csv", SampleSize: 10})
	require.NoError(t, err)
	return report
}

func TestEncodeJSON(t *testing.T) {
	report := sampleReport(t)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatJSON, "report", report))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "events.csv", decoded["source"])
	assert.EqualValues(t, 5, decoded["rows"])

	columns := decoded["columns"].([]interface{})
	require.Len(t, columns, 2)
	when := columns[1].(map[string]interface{})
	assert.Equal(t, "when", when["name"])
	assert.Equal(t, "date", when["dominant"])
}

func TestEncodeYAML(t *testing.T) {
	report := sampleReport(t)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatYAML, "report", report))

	var decoded struct {
		Source  string `yaml:"source"`
		Columns []struct {
			Name     string        `yaml:"name"`
			Dominant string        `yaml:"dominant"`
			Summary  stats.Summary `yaml:"summary"`
		} `yaml:"columns"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "events.csv", decoded.Source)
	require.Len(t, decoded.Columns, 2)
	assert.Equal(t, "int", decoded.Columns[0].Dominant)
	assert.Equal(t, 5, decoded.Columns[0].Summary.Total)
}

func TestEncodeTOMLWrapsSlices(t *testing.T) {
	rows := []ConversionRow{
		{Input: "3", Tag: "int", Value: int64(3), Type: "int64"},
		{Input: "2013-03-01", Tag: "date", Value: civil.Date{Year: 2013, Month: time.March, Day: 1}, Type: "civil.Date"},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatTOML, "conversions", rows))

	var decoded struct {
		Conversions []struct {
			Input string `toml:"input"`
			Tag   string `toml:"tag"`
		} `toml:"conversions"`
	}
	require.NoError(t, toml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Conversions, 2)
	assert.Equal(t, "date", decoded.Conversions[1].Tag)
}

func TestEncodeJSONCivilValues(t *testing.T) {
	rows := []ConversionRow{
		{Input: "5:40 PM", Tag: "time", Value: civil.Time{Hour: 17, Minute: 40}, Type: "civil.Time"},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatJSON, "conversions", rows))
	assert.Contains(t, buf.String(), `"value": "17:40:00"`)
}

func TestEncodeUnknownFormat(t *testing.T) {
	err := Encode(&bytes.Buffer{}, "xml", "x", 1)
	require.Error(t, err)
}

func TestRenderReport(t *testing.T) {
	report := sampleReport(t)

	var buf bytes.Buffer
	require.NoError(t, RenderReport(&buf, report))
	out := buf.String()

	assert.Contains(t, out, "events.csv")
	assert.Contains(t, out, "5 rows, 2 columns")
	assert.Contains(t, out, "when")
	assert.Contains(t, out, "date")
	assert.Contains(t, out, "unknown 40%")
	assert.Contains(t, out, `"1", "2", "3" +2`)
}

func TestRenderTypes(t *testing.T) {
	types := stats.New(2)
	require.NoError(t, types.Record("int", 0, "1"))
	require.NoError(t, types.Record("int", 1, "2"))
	require.NoError(t, types.Record("", 2, "x"))
	require.NoError(t, types.Finalize(3))

	var buf bytes.Buffer
	require.NoError(t, RenderTypes(&buf, "series", types.Summary()))
	out := buf.String()

	assert.Contains(t, out, "series")
	assert.Contains(t, out, "(3 values)")
	assert.Contains(t, out, "67%")
	assert.Contains(t, out, "33%")
	assert.Contains(t, out, `"x"`)
}

func TestRenderConversions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderConversions(&buf, []ConversionRow{
		{Input: "-3", Tag: "int", Value: int64(-3), Type: "int64"},
		{Input: "hello", Value: "hello", Type: "string"},
	}))
	out := buf.String()

	assert.Contains(t, out, "int64")
	assert.Contains(t, out, "unknown")
	assert.Contains(t, out, "hello")
}

func TestRenderSchema(t *testing.T) {
	report := sampleReport(t)

	var buf bytes.Buffer
	require.NoError(t, RenderSchema(&buf, report.Schema()))
	out := buf.String()

	assert.Contains(t, out, "id")
	assert.Contains(t, out, "int")
	assert.Contains(t, out, "when")
	assert.Contains(t, out, "date")
}

func TestRenderConverters(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderConverters(&buf, []ConverterRow{
		{Priority: 0, Tag: "int", Type: "int64"},
		{Priority: 1, Tag: "date", Type: "civil.Date"},
	}))
	out := buf.String()

	assert.Contains(t, out, "int64")
	assert.Contains(t, out, "civil.Date")
}

func TestOutputFormat(t *testing.T) {
	newCmd := func() *cobra.Command {
		cmd := &cobra.Command{Use: "x"}
		cmd.Flags().Bool("json", false, "")
		cmd.Flags().String("format", "table", "")
		return cmd
	}

	assert.Equal(t, "yaml", OutputFormat(nil, "yaml"))

	cmd := newCmd()
	assert.Equal(t, "toml", OutputFormat(cmd, "toml"), "config default when flag untouched")
	assert.Equal(t, FormatTable, OutputFormat(cmd, ""))

	cmd = newCmd()
	require.NoError(t, cmd.Flags().Set("format", "yaml"))
	assert.Equal(t, "yaml", OutputFormat(cmd, "toml"))

	require.NoError(t, cmd.Flags().Set("json", "true"))
	assert.Equal(t, FormatJSON, OutputFormat(cmd, "toml"))
}

func TestEmitter(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(0).WithWriter(&buf)

	e.Info("hidden at verbosity 0")
	e.Stage("profile", "reading data.csv")
	e.Warning("careful")
	e.Error("profile", errors.New("boom"))
	e.Success("done")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "profile: reading data.csv")
	assert.Contains(t, out, "careful")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "done")
}
