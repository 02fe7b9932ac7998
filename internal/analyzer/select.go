package analyzer

import (
	"strconv"
	"strings"

	"github.com/pingcap/tidb/pkg/parser/ast"

	"sqlsift/internal/catalog"
	"sqlsift/internal/scope"
	"sqlsift/internal/types"
)

// analyzeSelect pushes a fresh frame for one query block, resolves its
// FROM list, WHERE/GROUP BY/HAVING/ORDER BY clauses, and its
// projection list, and returns the block's output columns — used both
// as a SELECT statement's own result and to infer a derived table's or
// a CTE's exposed column set.
func (a *analysis) analyzeSelect(sel *ast.SelectStmt) []scope.Column {
	var savedCTEs map[string]*scope.Binding
	if sel.With != nil {
		savedCTEs = a.pushCTEs(sel.With)
		defer a.popCTEs(savedCTEs)
	}

	frame := a.scope.Push()
	defer a.scope.Pop()

	if sel.From != nil {
		a.resolveResultSetNode(sel.From.TableRefs, frame)
	}
	if sel.Where != nil {
		a.resolveExpr(sel.Where)
	}
	if sel.GroupBy != nil {
		for _, item := range sel.GroupBy.Items {
			if item.Expr != nil {
				a.resolveExpr(item.Expr)
			}
		}
	}
	if sel.Having != nil && sel.Having.Expr != nil {
		a.resolveExpr(sel.Having.Expr)
	}
	if sel.OrderBy != nil {
		for _, item := range sel.OrderBy.Items {
			if item.Expr != nil {
				a.resolveExpr(item.Expr)
			}
		}
	}

	return a.resolveProjection(sel.Fields, frame)
}

func (a *analysis) resolveProjection(fields *ast.FieldList, frame *scope.Frame) []scope.Column {
	if fields == nil {
		return nil
	}
	var out []scope.Column
	for i, f := range fields.Fields {
		if f.WildCard != nil {
			out = append(out, a.expandWildcard(f.WildCard, frame)...)
			continue
		}
		t := a.resolveExpr(f.Expr)
		out = append(out, scope.Column{Name: projectionName(f, i), Type: t.Type})
	}
	return out
}

func (a *analysis) expandWildcard(wc *ast.WildCardField, frame *scope.Frame) []scope.Column {
	if wc.Table.O != "" {
		if b, ok := frame.Lookup(wc.Table.O); ok {
			return append([]scope.Column(nil), b.Columns...)
		}
		return nil
	}
	var cols []scope.Column
	for _, b := range frame.Bindings() {
		cols = append(cols, b.Columns...)
	}
	return cols
}

func projectionName(f *ast.SelectField, position int) string {
	if f.AsName.O != "" {
		return f.AsName.O
	}
	if ref, ok := f.Expr.(*ast.ColumnNameExpr); ok {
		return ref.Name.Name.O
	}
	return syntheticProjectionName(position)
}

func syntheticProjectionName(position int) string {
	return "column" + strconv.Itoa(position+1)
}

// resolveResultSetNode walks a FROM clause's join tree, registering
// every table/derived-table/CTE/UNNEST source it finds into frame.
func (a *analysis) resolveResultSetNode(node ast.ResultSetNode, frame *scope.Frame) {
	switch n := node.(type) {
	case nil:
		return
	case *ast.Join:
		a.resolveResultSetNode(n.Left, frame)
		if n.Right != nil {
			a.resolveResultSetNode(n.Right, frame)
		}
		if n.On != nil && n.On.Expr != nil {
			a.resolveExpr(n.On.Expr)
		}
	case *ast.TableSource:
		a.resolveTableSource(n, frame)
	}
}

func (a *analysis) resolveTableSource(ts *ast.TableSource, frame *scope.Frame) {
	alias := ts.AsName.O
	switch src := ts.Source.(type) {
	case *ast.TableName:
		name := src.Name.O
		if alias == "" {
			alias = name
		}
		a.bindFromName(catalog.QualifiedName{Schema: src.Schema.O, Name: name}, alias, frame, ts)
	case *ast.SelectStmt:
		cols := a.analyzeSelect(src)
		if explicit, ok := a.derivedAliasCols[strings.ToLower(alias)]; ok {
			if len(explicit) != len(cols) {
				a.emitColumnCountMismatch(ts, len(explicit), len(cols))
			}
			// The alias exposes the explicit names even on an arity
			// mismatch, so references to them are not reported a second
			// time as missing columns.
			renamed := make([]scope.Column, len(explicit))
			for i, name := range explicit {
				t := types.T(types.Unknown)
				if i < len(cols) {
					t = cols[i].Type
				}
				renamed[i] = scope.Column{Name: name, Type: t}
			}
			cols = renamed
		}
		frame.Add(&scope.Binding{Alias: alias, Kind: scope.DerivedBinding, Columns: cols})
	case *ast.Join:
		a.resolveResultSetNode(src, frame)
	}
}

// bindFromName resolves one FROM-item name against, in order: the
// ambient CTE map, the UNNEST-with-ordinality alias map, the catalog's
// views, and the catalog's tables (§4.3's resolution order) — emitting
// TableNotFound with a nearest-name suggestion if none match.
func (a *analysis) bindFromName(qn catalog.QualifiedName, alias string, frame *scope.Frame, node ast.Node) {
	key := strings.ToLower(qn.Name)
	if cte, ok := a.ctes[key]; ok {
		frame.Add(&scope.Binding{Alias: alias, Kind: scope.CteBinding, Columns: cte.Columns})
		return
	}
	if un, ok := a.unnestBindings[key]; ok {
		frame.Add(&scope.Binding{Alias: alias, Kind: scope.UnnestBinding, Columns: un.Columns})
		return
	}
	if v := a.catalog.View(qn, a.dialect); v != nil {
		cols := make([]scope.Column, len(v.Columns))
		for i, c := range v.Columns {
			cols[i] = scope.Column{Name: c, Type: types.T(types.Unknown)}
		}
		frame.Add(&scope.Binding{Alias: alias, Kind: scope.TableBinding, Columns: cols})
		return
	}
	if t := a.catalog.Table(qn, a.dialect); t != nil {
		cols := make([]scope.Column, len(t.Columns))
		for i, c := range t.Columns {
			cols[i] = scope.Column{Name: c.Name, Type: c.DataType}
		}
		frame.Add(&scope.Binding{Alias: alias, Kind: scope.TableBinding, Columns: cols})
		return
	}
	a.emitTableNotFound(node, qn.Name)
}

// analyzeSubquery analyzes a scalar/row subquery's inner SELECT in its
// own isolated frame and returns its projected columns.
func (a *analysis) analyzeSubquery(e *ast.SubqueryExpr) []scope.Column {
	if sel, ok := e.Query.(*ast.SelectStmt); ok {
		return a.analyzeSelect(sel)
	}
	return nil
}

// pushCTEs analyzes each CTE in an ordinary WITH clause (one backed by
// a ragular SELECT; DML-backed CTEs were already pulled out textually
// by sqltext.ExtractDMLCTEs before the parser ever saw this statement)
// and registers its exposed columns into the ambient CTE map, saving
// any shadowed entry so popCTEs can restore it.
func (a *analysis) pushCTEs(w *ast.WithClause) map[string]*scope.Binding {
	saved := make(map[string]*scope.Binding)
	for _, cte := range w.CTEs {
		key := strings.ToLower(cte.Name.O)
		saved[key] = a.ctes[key]
		names := a.analyzeCTEBody(cte)
		a.ctes[key] = columnsBinding(names)
	}
	return saved
}

func (a *analysis) popCTEs(saved map[string]*scope.Binding) {
	for k, v := range saved {
		if v == nil {
			delete(a.ctes, k)
		} else {
			a.ctes[k] = v
		}
	}
}

func (a *analysis) analyzeCTEBody(cte *ast.CommonTableExpression) []string {
	sel, ok := cte.Query.Query.(*ast.SelectStmt)
	if !ok {
		return nil
	}
	cols := a.analyzeSelect(sel)
	if len(cte.ColNameList) > 0 {
		names := make([]string, 0, len(cte.ColNameList))
		for i, c := range cte.ColNameList {
			if i >= len(cols) {
				break
			}
			names = append(names, c.O)
		}
		return names
	}
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}
