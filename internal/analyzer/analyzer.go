// Package analyzer is the main Resolver/Analyzer traversal: given a
// built Catalog, a dialect, and a SQL string, it returns the sequence
// of diagnostics produced by walking the statement's DML/DQL tree
// under a lexical scope stack, filtered by any inline
// `-- sqlsift:disable` directives found in the same text.
package analyzer

import (
	"fmt"
	"strings"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"

	"sqlsift/internal/catalog"
	"sqlsift/internal/diag"
	"sqlsift/internal/dialect"
	"sqlsift/internal/directive"
	"sqlsift/internal/scope"
	"sqlsift/internal/sqltext"
	"sqlsift/internal/types"
)

// analysis holds the mutable state of one statement's traversal. A
// fresh analysis is created per statement in the input batch so that
// one statement's CTE/UNNEST/derived-table bookkeeping never leaks
// into the next.
type analysis struct {
	catalog *catalog.Catalog
	dialect dialect.Profile

	scope *scope.Stack

	// ctes is the ambient CTE map (§4.3): populated up front from any
	// DML-backed CTE sqltext extracted textually, and incrementally
	// from ordinary WITH-clause CTEs as their bodies are analyzed.
	ctes map[string]*scope.Binding

	// unnestBindings maps an UNNEST(...) WITH ORDINALITY alias (after
	// sqltext's rewrite reduced it to a bare table reference) to the
	// binding the analyzer should use in its place.
	unnestBindings map[string]*scope.Binding

	// derivedAliasCols holds explicit column-rename lists for derived
	// tables (`AS alias(cols...)`), stripped from the text sqltext
	// handed the parser.
	derivedAliasCols map[string][]string

	text     string
	baseLine int

	diags []diag.Diagnostic
}

// Analyze is the analyzer's public entry point: build_catalog's
// counterpart from §6's consumer-facing API.
func Analyze(cat *catalog.Catalog, d dialect.Profile, sql string) []diag.Diagnostic {
	directives := directive.Parse(sql)

	var all []diag.Diagnostic
	for _, stmt := range sqltext.SplitStatements(sql) {
		all = append(all, analyzeStatement(cat, d, stmt)...)
	}

	diag.Sort(all)
	return filterSuppressed(all, directives)
}

func filterSuppressed(diags []diag.Diagnostic, directives *directive.InlineDirectives) []diag.Diagnostic {
	out := diags[:0]
	for _, d := range diags {
		if directives.IsSuppressed(string(d.Code()), d.Span.Line) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func columnsBinding(names []string) *scope.Binding {
	b := &scope.Binding{}
	for _, n := range names {
		b.Columns = append(b.Columns, scope.Column{Name: n, Type: types.T(types.Unknown)})
	}
	return b
}

// analyzeStatement applies the sqltext bridging rewrites to one
// statement, parses the result with TiDB's parser, and dispatches to
// the matching per-statement analyzer. A parse failure on this single
// statement yields one ParseError and aborts analysis of that
// statement only — sibling statements in the same batch are
// unaffected, mirroring the catalog builder's per-statement recovery.
func analyzeStatement(cat *catalog.Catalog, d dialect.Profile, stmt sqltext.Statement) []diag.Diagnostic {
	a := &analysis{
		catalog:          cat,
		dialect:          d,
		scope:            scope.New(),
		ctes:             make(map[string]*scope.Binding),
		unnestBindings:   make(map[string]*scope.Binding),
		derivedAliasCols: make(map[string][]string),
		baseLine:         stmt.Line,
	}

	text, dmlCTEs := sqltext.ExtractDMLCTEs(stmt.Text)
	text, unnestMatches := sqltext.FindUnnestWithOrdinality(text)
	text, derivedCols := sqltext.FindDerivedTableAliasColumns(text)
	a.text = text
	a.derivedAliasCols = derivedCols

	for name, cols := range dmlCTEs {
		a.ctes[name] = columnsBinding(cols)
	}
	for _, m := range unnestMatches {
		a.unnestBindings[strings.ToLower(m.Alias)] = columnsBinding(m.Columns)
	}

	p := parser.New()
	nodes, _, err := p.Parse(text, "", "")
	if err != nil {
		return []diag.Diagnostic{
			diag.New(diag.KindParseError, diag.SeverityError,
				diag.Span{Line: stmt.Line, Column: 1, Length: 1},
				fmt.Sprintf("could not parse statement: %v", err)),
		}
	}

	for _, node := range nodes {
		switch n := node.(type) {
		case *ast.SelectStmt:
			a.analyzeSelect(n)
		case *ast.InsertStmt:
			a.analyzeInsert(n)
		case *ast.UpdateStmt:
			a.analyzeUpdate(n)
		case *ast.DeleteStmt:
			a.analyzeDelete(n)
		default:
			// DDL and other statement kinds are the catalog builder's
			// concern, not the analyzer's.
		}
	}
	return a.diags
}
