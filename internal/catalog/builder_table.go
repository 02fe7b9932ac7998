package catalog

import (
	"strings"

	"github.com/pingcap/tidb/pkg/parser/ast"
	"github.com/pingcap/tidb/pkg/parser/format"

	"sqlsift/internal/sqltext"
	"sqlsift/internal/types"
)

// applyCreateTable converts a parsed CREATE TABLE into a Table and
// inserts it into the catalog. idents carries the column names whose
// GENERATED ... AS IDENTITY clause sqltext stripped before parsing,
// keyed by lower-cased column name.
func (b *builder) applyCreateTable(stmt *ast.CreateTableStmt, idents map[string]sqltext.IdentityKind, line int) {
	name := qualifiedFromTableName(stmt.Table)
	schema := b.catalog.schema(schemaOrDefault(name.Schema, b.dialect))

	if _, exists := schema.tables[strings.ToLower(name.Name)]; exists {
		b.warnf(line, "table %q is already defined; later definition replaces the earlier one", name)
	}

	table := newTable(name)

	for _, colDef := range stmt.Cols {
		table.addColumn(b.convertColumn(colDef, idents, line))
	}
	for _, constraint := range stmt.Constraints {
		b.applyTableConstraint(table, constraint, line)
	}

	schema.tables[strings.ToLower(name.Name)] = table
}

func (b *builder) convertColumn(colDef *ast.ColumnDef, idents map[string]sqltext.IdentityKind, line int) *Column {
	rawType := colDef.Tp.String()
	base := NormalizeRawTypeBase(rawType)
	dataType := types.FromRawType(base)
	enum := b.catalog.Enum(base)
	if enum != nil {
		dataType = types.EnumType(enum.Name)
	}
	col := &Column{
		Name:     colDef.Name.Name.O,
		RawType:  rawType,
		DataType: dataType,
		Nullable: true,
	}

	if enum == nil && !ValidateRawType(rawType, b.dialect) {
		b.warnf(line, "column %q has an unrecognized type %q for dialect %s", col.Name, rawType, b.dialect)
	}

	if kind, ok := idents[strings.ToLower(col.Name)]; ok {
		col.Nullable = false
		if kind == sqltext.IdentityAlways {
			col.Identity = IdentityAlways
		} else {
			col.Identity = IdentityByDefault
		}
	}

	for _, opt := range colDef.Options {
		switch opt.Tp {
		case ast.ColumnOptionNotNull:
			col.Nullable = false
		case ast.ColumnOptionNull:
			col.Nullable = true
		case ast.ColumnOptionPrimaryKey:
			col.PrimaryKey = true
			col.Nullable = false
		case ast.ColumnOptionAutoIncrement:
			col.Nullable = false
			if col.Identity == IdentityNone {
				col.Identity = IdentityByDefault
			}
		case ast.ColumnOptionDefaultValue:
			if s := exprToString(opt.Expr); s != "" {
				col.DefaultExpr = s
			}
		case ast.ColumnOptionGenerated:
			if opt.Expr != nil {
				if s := exprToString(opt.Expr); s != "" {
					col.DefaultExpr = s
				}
			}
			if col.Identity == IdentityNone {
				col.Identity = IdentityAlways
			}
		}
	}

	return col
}

func (b *builder) applyTableConstraint(table *Table, constraint *ast.Constraint, line int) {
	columns := make([]string, 0, len(constraint.Keys))
	for _, key := range constraint.Keys {
		columns = append(columns, key.Column.Name.O)
	}

	switch constraint.Tp {
	case ast.ConstraintPrimaryKey:
		for _, colName := range columns {
			if col := table.FindColumn(colName); col != nil {
				col.PrimaryKey = true
				col.Nullable = false
			}
		}
	case ast.ConstraintForeignKey:
		fk := ForeignKey{
			Name:            constraint.Name,
			LocalColumns:    columns,
			ReferencedTable: QualifiedName{Schema: constraint.Refer.Table.Schema.O, Name: constraint.Refer.Table.Name.O},
		}
		for _, spec := range constraint.Refer.IndexPartSpecifications {
			if spec.Column != nil {
				fk.ReferencedColumns = append(fk.ReferencedColumns, spec.Column.Name.O)
			}
		}
		table.ForeignKeys = append(table.ForeignKeys, fk)
	case ast.ConstraintCheck:
		check := CheckConstraint{Name: constraint.Name}
		if constraint.Expr != nil {
			check.Expression = exprToString(constraint.Expr)
		}
		table.Checks = append(table.Checks, check)
	default:
		// Plain indexes (KEY/INDEX/UNIQUE/FULLTEXT without an FK or
		// CHECK) carry no information the spec's Table model tracks.
	}
}

func exprToString(expr ast.ExprNode) string {
	if expr == nil {
		return ""
	}
	var sb strings.Builder
	ctx := format.NewRestoreCtx(format.DefaultRestoreFlags, &sb)
	if err := expr.Restore(ctx); err != nil {
		return ""
	}
	return strings.TrimSpace(sb.String())
}

func schemaOrDefault(schema string, d interface{ DefaultSchema() string }) string {
	if schema != "" {
		return schema
	}
	return d.DefaultSchema()
}
