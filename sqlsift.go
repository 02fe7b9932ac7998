// Package sqlsift is the public facade over the analyzer pipeline:
// build a Catalog from schema DDL, then validate query text against
// it. This is exactly §6's consumer-facing core API; everything else
// in this module (config loading, output formatting, the CLI) is
// built on top of these two functions.
package sqlsift

import (
	"sqlsift/internal/analyzer"
	"sqlsift/internal/catalog"
	"sqlsift/internal/diag"
	"sqlsift/internal/dialect"
)

// Catalog is the schema model produced by BuildCatalog and consumed
// by Analyze.
type Catalog = catalog.Catalog

// Dialect selects which SQL dialect's rules (default schema, type
// keyword set) govern a BuildCatalog/Analyze pair.
type Dialect = dialect.Profile

// Diagnostic is one analyzer finding.
type Diagnostic = diag.Diagnostic

const (
	PostgreSQL = dialect.PostgreSQL
	MySQL      = dialect.MySQL
	SQLite     = dialect.SQLite
)

// ParseDialect parses a dialect name ("postgres", "mysql", "sqlite",
// and their common aliases).
func ParseDialect(name string) (Dialect, error) {
	return dialect.FromString(name)
}

// BuildCatalog parses ddlText (one or more CREATE TABLE / CREATE VIEW /
// CREATE TYPE ... AS ENUM / ALTER TABLE statements) under d and returns
// the resulting schema model plus any schema-level diagnostics
// (malformed statements never abort the build; they are reported and
// skipped, while parseable statements that carry no schema
// information, such as CREATE INDEX, are skipped without a
// diagnostic).
func BuildCatalog(d Dialect, ddlText string) (*Catalog, []Diagnostic) {
	return catalog.Build(d, ddlText)
}

// Analyze validates sqlText against cat under dialect d and returns
// every diagnostic found, sorted deterministically by (line, column,
// code, discovery order) and filtered by any inline
// `-- sqlsift:disable` directives present in sqlText.
func Analyze(cat *Catalog, d Dialect, sqlText string) []Diagnostic {
	return analyzer.Analyze(cat, d, sqlText)
}
