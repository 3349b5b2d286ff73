package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/gsanchezu/elasticbox-plugin/internal/errors"
)

type format string

const (
	formatTable format = "table"
	formatJSON  format = "json"
	formatYAML  format = "yaml"
)

func validateOutputFormat() error {
	switch format(outputFormat) {
	case formatTable, formatJSON, formatYAML:
		return nil
	default:
		return errors.ValidationError(fmt.Sprintf("unknown output format %q (want table, json or yaml)", outputFormat))
	}
}

// structured reports whether output is machine readable.
func structured() bool {
	return format(outputFormat) != formatTable
}

// printData writes v as JSON or YAML, or calls table with a tabwriter.
func printData(w io.Writer, v any, table func(tw *tabwriter.Writer)) error {
	switch format(outputFormat) {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	}
}
