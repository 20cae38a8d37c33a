// Package display renders typeinfer results as terminal tables or as
// JSON, YAML and TOML documents.
package display

import (
	"bytes"
	"encoding/json"
	"io"
	"reflect"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/typeinfer/errors"
)

// Formats accepted by Render
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTOML  = "toml"
)

// Formats lists every supported output format
var Formats = []string{FormatTable, FormatJSON, FormatYAML, FormatTOML}

// OutputFormat returns the effective format for cmd: --json wins, then
// --format, then fallback.
func OutputFormat(cmd *cobra.Command, fallback string) string {
	if cmd == nil {
		return fallback
	}

	if jsonFlag, err := cmd.Flags().GetBool("json"); err == nil && jsonFlag {
		return FormatJSON
	}
	if f := cmd.Flags().Lookup("format"); f != nil && f.Changed {
		return f.Value.String()
	}
	if fallback == "" {
		return FormatTable
	}
	return fallback
}

// MarshalJSON marshals JSON with pretty formatting
func MarshalJSON(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// MarshalYAML marshals YAML with two-space indentation
func MarshalYAML(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalTOML marshals TOML. A TOML document must be a table, so slices
// are wrapped under key.
func MarshalTOML(v interface{}, key string) ([]byte, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		v = map[string]interface{}{key: v}
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes v to w as a JSON, YAML or TOML document. Slices are
// wrapped under key for TOML.
func Encode(w io.Writer, format string, key string, v interface{}) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatJSON:
		data, err = MarshalJSON(v)
		data = append(data, '\n')
	case FormatYAML:
		data, err = MarshalYAML(v)
	case FormatTOML:
		data, err = MarshalTOML(v, key)
	default:
		return errors.WithHintf(
			errors.NewInvalidConfigError("unsupported output format %q", format),
			"use one of %v", Formats)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to marshal %s", format)
	}

	_, err = w.Write(data)
	return err
}
