package catalog

import (
	"strings"

	"github.com/pingcap/tidb/pkg/parser/ast"

	"sqlsift/internal/sqltext"
)

// applyAlterTable applies one ALTER TABLE statement's specs to the
// catalog in order. A missing target table produces a warning and
// that spec is skipped; the batch never aborts (§4.1).
func (b *builder) applyAlterTable(stmt *ast.AlterTableStmt, line int) {
	name := qualifiedFromTableName(stmt.Table)

	for _, spec := range stmt.Specs {
		if spec.Tp == ast.AlterTableRenameTable {
			b.applyRenameTable(name, spec, line)
			continue
		}

		schema := b.catalog.schema(schemaOrDefault(name.Schema, b.dialect))
		table, ok := schema.tables[strings.ToLower(name.Name)]
		if !ok {
			b.warnf(line, "ALTER TABLE target %q does not exist", name)
			continue
		}

		switch spec.Tp {
		case ast.AlterTableAddColumns:
			for _, colDef := range spec.NewColumns {
				table.addColumn(b.convertColumn(colDef, map[string]sqltext.IdentityKind{}, line))
			}
		case ast.AlterTableDropColumn:
			colName := spec.OldColumnName.Name.O
			if !table.dropColumn(colName) {
				b.warnf(line, "ALTER TABLE DROP COLUMN: column %q does not exist on table %q", colName, name)
			}
		case ast.AlterTableRenameColumn:
			from := spec.OldColumnName.Name.O
			to := spec.NewColumnName.Name.O
			if !table.renameColumn(from, to) {
				b.warnf(line, "ALTER TABLE RENAME COLUMN: column %q does not exist on table %q", from, name)
			}
		case ast.AlterTableAddConstraint:
			if spec.Constraint != nil {
				b.applyTableConstraint(table, spec.Constraint, line)
			}
		default:
			// Other spec kinds (MODIFY COLUMN, CHANGE COLUMN, table
			// option changes, partitioning, ...) don't affect the
			// column/constraint model this catalog tracks.
		}
	}
}

func (b *builder) applyRenameTable(oldName QualifiedName, spec *ast.AlterTableSpec, line int) {
	if spec.NewTable == nil {
		return
	}
	newName := qualifiedFromTableName(spec.NewTable)

	oldSchemaName := schemaOrDefault(oldName.Schema, b.dialect)
	schema := b.catalog.schema(oldSchemaName)
	table, ok := schema.tables[strings.ToLower(oldName.Name)]
	if !ok {
		b.warnf(line, "ALTER TABLE RENAME target %q does not exist", oldName)
		return
	}

	delete(schema.tables, strings.ToLower(oldName.Name))
	table.Name = newName
	newSchemaName := schemaOrDefault(newName.Schema, b.dialect)
	b.catalog.schema(newSchemaName).tables[strings.ToLower(newName.Name)] = table
}
