package catalog

import (
	"strconv"
	"strings"

	"github.com/pingcap/tidb/pkg/parser/ast"
)

// applyCreateView converts a parsed CREATE [MATERIALIZED] VIEW into a
// View and inserts it into the catalog. Column exposure (§4.2): an
// explicit `(cols...)` list wins; otherwise the body's projection is
// analyzed once here and the inferred names are stored verbatim — a
// later reference to this view never re-enters its body.
func (b *builder) applyCreateView(stmt *ast.CreateViewStmt, materialized bool, line int) {
	name := qualifiedFromTableName(stmt.ViewName)
	schema := b.catalog.schema(schemaOrDefault(name.Schema, b.dialect))

	view := &View{Name: name, Materialized: materialized}

	if len(stmt.Cols) > 0 {
		for _, c := range stmt.Cols {
			view.Columns = append(view.Columns, c.O)
		}
	} else if sel, ok := stmt.Select.(*ast.SelectStmt); ok {
		view.Columns = inferProjectionColumns(sel)
	}

	if _, exists := schema.views[strings.ToLower(name.Name)]; exists {
		b.warnf(line, "view %q is already defined; later definition replaces the earlier one", name)
	}
	schema.views[strings.ToLower(name.Name)] = view
}

// inferProjectionColumns derives exposed column names from a SELECT's
// projection list following §4.2: explicit alias, else the final
// identifier of a qualified column reference, else a synthetic name.
func inferProjectionColumns(sel *ast.SelectStmt) []string {
	if sel.Fields == nil {
		return nil
	}
	cols := make([]string, 0, len(sel.Fields.Fields))
	for i, field := range sel.Fields.Fields {
		cols = append(cols, projectionFieldName(field, i))
	}
	return cols
}

func projectionFieldName(field *ast.SelectField, position int) string {
	if field.AsName.O != "" {
		return field.AsName.O
	}
	if colExpr, ok := field.Expr.(*ast.ColumnNameExpr); ok {
		return colExpr.Name.Name.O
	}
	return syntheticViewColumnName(position)
}

func syntheticViewColumnName(position int) string {
	return "column" + strconv.Itoa(position+1)
}
