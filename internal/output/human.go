package output

import (
	"fmt"
	"strings"

	"sqlsift/internal/diag"
)

type humanFormatter struct{}

// Format renders one line per diagnostic as
// `file:line:col: CODE severity: message`, with the help text (when
// present) on an indented continuation line, matching §6's human
// format convention.
func (humanFormatter) Format(diags []diag.Diagnostic) (string, error) {
	if len(diags) == 0 {
		return "no issues found\n", nil
	}

	var sb strings.Builder
	for _, d := range diags {
		file := d.File
		if file == "" {
			file = "<query>"
		}
		fmt.Fprintf(&sb, "%s:%d:%d: %s %s: %s\n", file, d.Span.Line, d.Span.Column, d.Code(), d.Severity, d.Message)
		if d.Help != "" {
			fmt.Fprintf(&sb, "  help: %s\n", d.Help)
		}
	}
	return sb.String(), nil
}
