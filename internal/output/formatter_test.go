package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlsift/internal/diag"
)

func sampleDiags() []diag.Diagnostic {
	return []diag.Diagnostic{
		diag.New(diag.KindTableNotFound, diag.SeverityError, diag.Span{Line: 1, Column: 15, Length: 5}, `table "bogus" is not defined`).WithFile("query.sql"),
	}
}

func TestNewFormatterDefaultsToHuman(t *testing.T) {
	f, err := NewFormatter("")
	require.NoError(t, err)
	assert.IsType(t, humanFormatter{}, f)
}

func TestNewFormatterRejectsUnknown(t *testing.T) {
	_, err := NewFormatter("yaml")
	assert.Error(t, err)
}

func TestHumanFormatNoIssues(t *testing.T) {
	f := humanFormatter{}
	out, err := f.Format(nil)
	require.NoError(t, err)
	assert.Equal(t, "no issues found\n", out)
}

func TestHumanFormatOneLinePerDiagnostic(t *testing.T) {
	f := humanFormatter{}
	out, err := f.Format(sampleDiags())
	require.NoError(t, err)
	assert.Contains(t, out, "query.sql:1:15: E0001 error:")
}

func TestJSONFormatCountsSeverities(t *testing.T) {
	f := jsonFormatter{}
	out, err := f.Format(sampleDiags())
	require.NoError(t, err)
	assert.Contains(t, out, `"errors": 1`)
	assert.Contains(t, out, `"code": "E0001"`)
}
