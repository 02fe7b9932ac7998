package output

import (
	"encoding/json"

	"sqlsift/internal/diag"
)

type jsonFormatter struct{}

type diagnosticPayload struct {
	File     string `json:"file,omitempty"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Help     string `json:"help,omitempty"`
}

type payload struct {
	Diagnostics []diagnosticPayload `json:"diagnostics"`
	Errors      int                 `json:"errors"`
	Warnings    int                 `json:"warnings"`
}

// Format renders diags as a single JSON object with a stable field
// order: a summary count plus the diagnostic list, one object per
// entry, fields in the same order for every diagnostic.
func (jsonFormatter) Format(diags []diag.Diagnostic) (string, error) {
	out := payload{Diagnostics: make([]diagnosticPayload, len(diags))}
	for i, d := range diags {
		out.Diagnostics[i] = diagnosticPayload{
			File:     d.File,
			Line:     d.Span.Line,
			Column:   d.Span.Column,
			Code:     string(d.Code()),
			Severity: d.Severity.String(),
			Message:  d.Message,
			Help:     d.Help,
		}
		if d.Severity == diag.SeverityWarning {
			out.Warnings++
		} else {
			out.Errors++
		}
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}
