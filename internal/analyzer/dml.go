package analyzer

import (
	"github.com/pingcap/tidb/pkg/parser/ast"

	"sqlsift/internal/catalog"
	"sqlsift/internal/scope"
)

// singleTableName extracts the lone table a DML statement targets.
// INSERT/UPDATE/DELETE all wrap their target in the same TableRefsClause
// shape a SELECT's FROM uses, even though there's exactly one table.
func singleTableName(refs *ast.TableRefsClause) *ast.TableName {
	if refs == nil {
		return nil
	}
	return firstTableName(refs.TableRefs)
}

func firstTableName(node ast.ResultSetNode) *ast.TableName {
	switch n := node.(type) {
	case *ast.Join:
		if tn := firstTableName(n.Left); tn != nil {
			return tn
		}
		if n.Right != nil {
			return firstTableName(n.Right)
		}
		return nil
	case *ast.TableSource:
		if tn, ok := n.Source.(*ast.TableName); ok {
			return tn
		}
		return nil
	case *ast.TableName:
		return n
	}
	return nil
}

func (a *analysis) bindSingleTable(tn *ast.TableName, frame *scope.Frame) *catalog.Table {
	qn := catalog.QualifiedName{Schema: tn.Schema.O, Name: tn.Name.O}
	table := a.catalog.Table(qn, a.dialect)
	if table == nil {
		a.emitTableNotFound(tn, tn.Name.O)
		return nil
	}
	cols := make([]scope.Column, len(table.Columns))
	for i, c := range table.Columns {
		cols[i] = scope.Column{Name: c.Name, Type: c.DataType}
	}
	frame.Add(&scope.Binding{Alias: tn.Name.O, Kind: scope.TableBinding, Columns: cols})
	return table
}

// analyzeInsert checks the target table and column list exist, that
// each VALUES row's arity matches the column list (ColumnCountMismatch
// otherwise), and that each value's type is compatible with its target
// column (TypeMismatch otherwise). An INSERT ... SELECT analyzes its
// SELECT source in its own isolated frame.
func (a *analysis) analyzeInsert(stmt *ast.InsertStmt) {
	tn := singleTableName(stmt.Table)
	if tn == nil {
		return
	}

	frame := a.scope.Push()
	table := a.bindSingleTable(tn, frame)
	a.scope.Pop()
	if table == nil {
		return
	}

	var targets []*catalog.Column
	if len(stmt.Columns) > 0 {
		for _, c := range stmt.Columns {
			col := table.FindColumn(c.Name.O)
			if col == nil {
				a.emitColumnNotFound(c, c.Name.O, table.ColumnNames())
			}
			targets = append(targets, col)
		}
	} else {
		targets = append(targets, table.Columns...)
	}

	for _, row := range stmt.Lists {
		if len(row) != len(targets) {
			a.emitColumnCountMismatch(stmt, len(targets), len(row))
			continue
		}
		for i, expr := range row {
			val := a.resolveExpr(expr)
			if targets[i] == nil {
				continue
			}
			if !compatibleTyped(columnTyped(targets[i]), val) {
				a.emitTypeMismatch(expr, targets[i].DataType, val.Type)
			}
		}
	}

	if stmt.Select != nil {
		if sel, ok := stmt.Select.(*ast.SelectStmt); ok {
			a.analyzeSelect(sel)
		}
	}
}

// analyzeUpdate checks the target table, that each SET target column
// exists, that each assigned value is type-compatible with it, and
// resolves the WHERE clause against a frame scoped to just the target
// table (§4.3).
func (a *analysis) analyzeUpdate(stmt *ast.UpdateStmt) {
	tn := singleTableName(stmt.TableRefs)
	if tn == nil {
		return
	}

	frame := a.scope.Push()
	defer a.scope.Pop()
	table := a.bindSingleTable(tn, frame)
	if table == nil {
		return
	}

	for _, asn := range stmt.List {
		col := table.FindColumn(asn.Column.Name.O)
		if col == nil {
			a.emitColumnNotFound(asn.Column, asn.Column.Name.O, table.ColumnNames())
			continue
		}
		val := a.resolveExpr(asn.Expr)
		if !compatibleTyped(columnTyped(col), val) {
			a.emitTypeMismatch(asn.Expr, col.DataType, val.Type)
		}
	}

	if stmt.Where != nil {
		a.resolveExpr(stmt.Where)
	}
}

// analyzeDelete checks the target table exists and resolves the WHERE
// clause against a frame scoped to just that table.
func (a *analysis) analyzeDelete(stmt *ast.DeleteStmt) {
	tn := singleTableName(stmt.TableRefs)
	if tn == nil {
		return
	}

	frame := a.scope.Push()
	defer a.scope.Pop()
	table := a.bindSingleTable(tn, frame)
	if table == nil {
		return
	}

	if stmt.Where != nil {
		a.resolveExpr(stmt.Where)
	}
}
