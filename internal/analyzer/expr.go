package analyzer

import (
	"fmt"
	"regexp"

	"github.com/pingcap/tidb/pkg/parser/ast"
	"github.com/pingcap/tidb/pkg/parser/opcode"

	"sqlsift/internal/catalog"
	"sqlsift/internal/scope"
	"sqlsift/internal/types"
)

// typed is the analyzer's internal expression result: a Type plus,
// for string literals, the raw value. The raw value is needed because
// a bare string literal compared against a Uuid column is treated as
// Uuid only when it actually parses as one (§4.4) — a fact the type
// lattice alone can't express.
type typed struct {
	Type            types.Type
	IsStringLiteral bool
	StringValue     string
}

var uuidLiteralRe = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

func isUUIDLiteral(s string) bool {
	return uuidLiteralRe.MatchString(s)
}

// compatibleTyped applies the type lattice's Compatible relation with
// two additions: a string literal is compatible with a Uuid-typed peer
// when, and only when, it parses as a canonical UUID; and a string
// literal is compatible with an Enum-typed peer whatever its value
// (the enum's labels are not checked).
func compatibleTyped(a, b typed) bool {
	if a.Type.Kind == types.UUID && b.IsStringLiteral {
		return isUUIDLiteral(b.StringValue)
	}
	if b.Type.Kind == types.UUID && a.IsStringLiteral {
		return isUUIDLiteral(a.StringValue)
	}
	if (a.Type.Kind == types.Enum && b.IsStringLiteral) || (b.Type.Kind == types.Enum && a.IsStringLiteral) {
		return true
	}
	return types.Compatible(a.Type, b.Type)
}

func columnTyped(c *catalog.Column) typed {
	if c == nil {
		return typed{Type: types.T(types.Unknown)}
	}
	return typed{Type: c.DataType}
}

// resolveExpr walks an expression tree, resolving column references
// against the current scope stack and recursing into subexpressions
// so every nested column reference is checked, not just the
// top-level one. It returns the inferred type of expr.
func (a *analysis) resolveExpr(expr ast.ExprNode) typed {
	switch e := expr.(type) {
	case nil:
		return typed{Type: types.T(types.Unknown)}
	case *ast.ColumnNameExpr:
		return a.resolveColumnNameExpr(e)
	case *ast.BinaryOperationExpr:
		return a.resolveBinaryOp(e)
	case *ast.UnaryOperationExpr:
		return a.resolveExpr(e.V)
	case *ast.ParenthesesExpr:
		return a.resolveExpr(e.Expr)
	case *ast.FuncCallExpr:
		return a.resolveFuncCall(e)
	case *ast.AggregateFuncExpr:
		return a.resolveAggFuncCall(e)
	case *ast.FuncCastExpr:
		a.resolveExpr(e.Expr)
		if e.Tp != nil {
			base := catalog.NormalizeRawTypeBase(e.Tp.String())
			return typed{Type: types.FromRawType(base)}
		}
		return typed{Type: types.T(types.Unknown)}
	case *ast.SubqueryExpr:
		cols := a.analyzeSubquery(e)
		if len(cols) == 1 {
			return typed{Type: cols[0].Type}
		}
		return typed{Type: types.T(types.Unknown)}
	case *ast.ExistsSubqueryExpr:
		a.resolveExpr(e.Sel)
		return typed{Type: types.T(types.Boolean)}
	case *ast.PatternInExpr:
		a.resolveExpr(e.Expr)
		for _, item := range e.List {
			a.resolveExpr(item)
		}
		if e.Sel != nil {
			a.resolveExpr(e.Sel)
		}
		return typed{Type: types.T(types.Boolean)}
	case *ast.IsNullExpr:
		a.resolveExpr(e.Expr)
		return typed{Type: types.T(types.Boolean)}
	case *ast.BetweenExpr:
		a.resolveExpr(e.Expr)
		a.resolveExpr(e.Left)
		a.resolveExpr(e.Right)
		return typed{Type: types.T(types.Boolean)}
	case ast.ValueExpr:
		return a.resolveLiteral(e)
	default:
		return typed{Type: types.T(types.Unknown)}
	}
}

func (a *analysis) resolveColumnNameExpr(e *ast.ColumnNameExpr) typed {
	name := e.Name
	if name.Table.O != "" {
		binding, ok := a.scope.LookupQualified(name.Table.O)
		if !ok {
			a.emitTableNotFound(e, name.Table.O)
			return typed{Type: types.T(types.Unknown)}
		}
		col, ok := binding.FindColumn(name.Name.O)
		if !ok {
			a.emitColumnNotFound(e, name.Name.O, columnNames(binding.Columns))
			return typed{Type: types.T(types.Unknown)}
		}
		return typed{Type: col.Type}
	}

	hits, found := a.scope.LookupUnqualified(name.Name.O)
	if !found {
		a.emitColumnNotFound(e, name.Name.O, a.scope.AllColumnNames())
		return typed{Type: types.T(types.Unknown)}
	}
	if len(hits) > 1 {
		a.emitAmbiguousColumn(e, name.Name.O)
	}
	col, _ := hits[0].FindColumn(name.Name.O)
	return typed{Type: col.Type}
}

func (a *analysis) resolveBinaryOp(e *ast.BinaryOperationExpr) typed {
	l := a.resolveExpr(e.L)
	r := a.resolveExpr(e.R)
	switch e.Op {
	case opcode.EQ, opcode.NE, opcode.LT, opcode.LE, opcode.GT, opcode.GE:
		if !compatibleTyped(l, r) {
			a.emitTypeMismatch(e, l.Type, r.Type)
		}
		return typed{Type: types.T(types.Boolean)}
	case opcode.LogicAnd, opcode.LogicOr, opcode.LogicXor:
		return typed{Type: types.T(types.Boolean)}
	case opcode.Plus, opcode.Minus, opcode.Mul, opcode.Div, opcode.Mod, opcode.IntDiv:
		return typed{Type: widerNumeric(l.Type, r.Type)}
	default:
		return typed{Type: types.T(types.Unknown)}
	}
}

func (a *analysis) resolveFuncCall(e *ast.FuncCallExpr) typed {
	args := make([]types.Type, len(e.Args))
	for i, arg := range e.Args {
		args[i] = a.resolveExpr(arg).Type
	}
	return typed{Type: types.FuncReturn(e.FnName.O, args)}
}

func (a *analysis) resolveAggFuncCall(e *ast.AggregateFuncExpr) typed {
	args := make([]types.Type, len(e.Args))
	for i, arg := range e.Args {
		args[i] = a.resolveExpr(arg).Type
	}
	return typed{Type: types.FuncReturn(e.F, args)}
}

func (a *analysis) resolveLiteral(ve ast.ValueExpr) typed {
	switch v := ve.GetValue().(type) {
	case nil:
		return typed{Type: types.T(types.Null)}
	case string:
		return typed{Type: types.T(types.Text), IsStringLiteral: true, StringValue: v}
	case []byte:
		return typed{Type: types.T(types.Text), IsStringLiteral: true, StringValue: string(v)}
	case int64:
		return typed{Type: types.T(types.Integer)}
	case uint64:
		return typed{Type: types.T(types.Integer)}
	case float64:
		return typed{Type: types.T(types.Double)}
	default:
		return typed{Type: types.T(types.Unknown)}
	}
}

func widerNumeric(a, b types.Type) types.Type {
	rank := func(k types.Kind) int {
		switch k {
		case types.Integer:
			return 1
		case types.BigInt:
			return 2
		case types.Decimal:
			return 3
		case types.Double:
			return 4
		default:
			return 0
		}
	}
	ra, rb := rank(a.Kind), rank(b.Kind)
	if ra == 0 && rb == 0 {
		return types.T(types.Unknown)
	}
	if ra >= rb {
		if ra == 0 {
			return b
		}
		return a
	}
	return b
}

func columnNames(cols []scope.Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

func (a *analysis) emitTableNotFound(n ast.Node, name string) {
	d := newDiagTableNotFound(a.spanFor(n), name)
	if s := nearest(name, a.tableCandidateNames()); s != "" {
		d = d.WithHelp(fmt.Sprintf("did you mean %q?", s))
	}
	a.diags = append(a.diags, d)
}

func (a *analysis) emitColumnNotFound(n ast.Node, name string, candidates []string) {
	d := newDiagColumnNotFound(a.spanFor(n), name)
	if s := nearest(name, candidates); s != "" {
		d = d.WithHelp(fmt.Sprintf("did you mean %q?", s))
	}
	a.diags = append(a.diags, d)
}

func (a *analysis) emitAmbiguousColumn(n ast.Node, name string) {
	a.diags = append(a.diags, newDiagAmbiguousColumn(a.spanFor(n), name))
}

func (a *analysis) emitTypeMismatch(n ast.Node, want, got types.Type) {
	a.diags = append(a.diags, newDiagTypeMismatch(a.spanFor(n), want, got))
}

func (a *analysis) emitColumnCountMismatch(n ast.Node, want, got int) {
	a.diags = append(a.diags, newDiagColumnCountMismatch(a.spanFor(n), want, got))
}

func (a *analysis) tableCandidateNames() []string {
	var names []string
	for _, qn := range a.catalog.TableNames() {
		names = append(names, qn.Name)
	}
	for key := range a.ctes {
		names = append(names, key)
	}
	return names
}
