package analyzer

import (
	"fmt"

	"github.com/pingcap/tidb/pkg/parser/ast"

	"sqlsift/internal/diag"
	"sqlsift/internal/types"
)

// spanFor locates n within the statement text currently being
// analyzed. TiDB's parser records each node's origin offset into the
// text it parsed; spanFor converts that byte offset into a 1-based
// line/column pair and shifts the line by the statement's position in
// the overall input so diagnostics point at the right place in a
// multi-statement file.
func (a *analysis) spanFor(n ast.Node) diag.Span {
	offset := n.OriginTextPosition()
	line, col := lineCol(a.text, offset)
	length := len(n.Text())
	if length == 0 {
		length = 1
	}
	return diag.Span{Line: a.baseLine + line - 1, Column: col, Length: length}
}

func lineCol(text string, offset int) (line, col int) {
	line, col = 1, 1
	if offset < 0 || offset > len(text) {
		return 1, 1
	}
	for i := 0; i < offset; i++ {
		if text[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

func newDiagTableNotFound(span diag.Span, name string) diag.Diagnostic {
	return diag.New(diag.KindTableNotFound, diag.SeverityError, span,
		fmt.Sprintf("table %q is not defined in the schema", name))
}

func newDiagColumnNotFound(span diag.Span, name string) diag.Diagnostic {
	return diag.New(diag.KindColumnNotFound, diag.SeverityError, span,
		fmt.Sprintf("column %q is not defined", name))
}

func newDiagAmbiguousColumn(span diag.Span, name string) diag.Diagnostic {
	return diag.New(diag.KindAmbiguousColumn, diag.SeverityError, span,
		fmt.Sprintf("column reference %q is ambiguous", name))
}

func newDiagTypeMismatch(span diag.Span, want, got types.Type) diag.Diagnostic {
	return diag.New(diag.KindTypeMismatch, diag.SeverityError, span,
		fmt.Sprintf("type mismatch: expected %s but found %s", want, got))
}

func newDiagColumnCountMismatch(span diag.Span, want, got int) diag.Diagnostic {
	return diag.New(diag.KindColumnCountMismatch, diag.SeverityError, span,
		fmt.Sprintf("expected %d columns but found %d", want, got))
}
