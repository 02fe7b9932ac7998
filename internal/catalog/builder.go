package catalog

import (
	"fmt"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"

	"sqlsift/internal/diag"
	"sqlsift/internal/dialect"
	"sqlsift/internal/sqltext"
)

// builder accumulates a Catalog and the schema-level diagnostics
// produced while consuming a batch of DDL statements. It is
// single-use: construct one per Build call.
type builder struct {
	dialect dialect.Profile
	parser  *parser.Parser
	catalog *Catalog
	diags   []diag.Diagnostic
}

// Build parses ddlText as a batch of DDL statements under dialect d
// and returns the resulting Catalog together with any schema-level
// diagnostics (duplicate definitions, missing ALTER targets,
// per-statement parse failures). A statement this builder doesn't
// recognize as schema-bearing DDL is accepted silently; an
// unparseable statement yields one warning-class ParseError and the
// batch continues with the next statement.
func Build(d dialect.Profile, ddlText string) (*Catalog, []diag.Diagnostic) {
	b := &builder{dialect: d, parser: parser.New(), catalog: newCatalog()}
	for _, stmt := range sqltext.SplitStatements(ddlText) {
		b.processStatement(stmt)
	}
	return b.catalog, b.diags
}

func (b *builder) processStatement(stmt sqltext.Statement) {
	if def, ok := sqltext.MatchEnum(stmt.Original); ok {
		b.applyEnum(def)
		return
	}

	text := stmt.Text
	materialized := false
	if rewritten, changed := sqltext.RewriteMaterializedView(text); changed {
		text = rewritten
		materialized = true
	}

	text, idents := sqltext.RewriteIdentityColumns(text)

	stmtNodes, _, err := b.parser.Parse(text, "", "")
	if err != nil {
		b.warnf(stmt.Line, "could not parse statement: %v", err)
		return
	}

	for _, node := range stmtNodes {
		switch n := node.(type) {
		case *ast.CreateTableStmt:
			b.applyCreateTable(n, idents, stmt.Line)
		case *ast.CreateViewStmt:
			b.applyCreateView(n, materialized, stmt.Line)
		case *ast.AlterTableStmt:
			b.applyAlterTable(n, stmt.Line)
		default:
			// Statements outside the catalog's scope (GRANT, CREATE
			// INDEX, COMMENT ON, ...) carry no schema information this
			// analyzer models and are accepted without effect.
		}
	}
}

func (b *builder) warnf(line int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	b.diags = append(b.diags, diag.New(diag.KindParseError, diag.SeverityWarning, diag.Span{Line: line, Column: 1, Length: 1}, msg))
}

func qualifiedFromTableName(tn *ast.TableName) QualifiedName {
	return QualifiedName{Schema: tn.Schema.O, Name: tn.Name.O}
}
