package main

import (
	"fmt"
	"strings"
)

// outputFormat selects how command results are printed.
type outputFormat string

const (
	formatText  outputFormat = "text"
	formatTable outputFormat = "table"
	formatRaw   outputFormat = "raw"
	formatJSON  outputFormat = "json"
	formatYAML  outputFormat = "yaml"
)

func parseOutputFormat(s string, allowed ...outputFormat) (outputFormat, error) {
	names := make([]string, len(allowed))
	for i, f := range allowed {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
		names[i] = string(f)
	}
	return "", fmt.Errorf("unsupported format %q (want %s)", s, strings.Join(names, "|"))
}
