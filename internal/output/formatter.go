// Package output formats analyzer diagnostics as human-readable text
// or JSON.
package output

import (
	"fmt"
	"strings"

	"sqlsift/internal/diag"
)

// Format is an enum of the supported diagnostic output formats.
type Format string

const (
	FormatHuman Format = "human"
	FormatJSON  Format = "json"
)

// Formatter renders a batch of diagnostics as a string.
type Formatter interface {
	Format(diags []diag.Diagnostic) (string, error)
}

// NewFormatter selects a Formatter by name, defaulting to human when
// name is empty.
func NewFormatter(name string) (Formatter, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	switch format {
	case "", FormatHuman:
		return humanFormatter{}, nil
	case FormatJSON:
		return jsonFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s; use 'human' or 'json'", name)
	}
}
