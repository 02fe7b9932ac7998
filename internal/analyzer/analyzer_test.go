package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlsift/internal/catalog"
	"sqlsift/internal/diag"
	"sqlsift/internal/dialect"
)

func mustCatalog(t *testing.T, ddl string) *catalog.Catalog {
	t.Helper()
	cat, diags := catalog.Build(dialect.PostgreSQL, ddl)
	require.Empty(t, diags)
	return cat
}

func TestAnalyzeWildcardExpansion(t *testing.T) {
	cat := mustCatalog(t, `CREATE TABLE users (id INT, name TEXT);`)
	diags := Analyze(cat, dialect.PostgreSQL, `SELECT * FROM users`)
	assert.Empty(t, diags)
}

func TestAnalyzeScopeIsolation(t *testing.T) {
	cat := mustCatalog(t, `CREATE TABLE users (id INT);`)
	sql := `SELECT id FROM users WHERE id IN (SELECT inner_only FROM users)`
	diags := Analyze(cat, dialect.PostgreSQL, sql)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CodeColumnNotFound, diags[0].Code())

	// The same missing column in the outer query instead of the
	// subquery is reported once too, and the subquery's own valid
	// reference adds nothing.
	sql = `SELECT inner_only FROM users WHERE id IN (SELECT id FROM users)`
	diags = Analyze(cat, dialect.PostgreSQL, sql)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CodeColumnNotFound, diags[0].Code())
}

func TestAnalyzeFunctionCallTypeMismatch(t *testing.T) {
	cat := mustCatalog(t, `CREATE TABLE users (id INT, name TEXT);`)
	diags := Analyze(cat, dialect.PostgreSQL, `SELECT * FROM users WHERE id = UPPER(name)`)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CodeTypeMismatch, diags[0].Code())
}

func TestAnalyzeParseErrorDoesNotAbortBatch(t *testing.T) {
	cat := mustCatalog(t, `CREATE TABLE users (id INT);`)
	sql := "SELECT * FROM users;\nNOT EVEN SQL HERE;\nSELECT missing FROM users"
	diags := Analyze(cat, dialect.PostgreSQL, sql)

	var codes []diag.Code
	for _, d := range diags {
		codes = append(codes, d.Code())
	}
	assert.Contains(t, codes, diag.CodeParseError)
	assert.Contains(t, codes, diag.CodeColumnNotFound)
}

func TestAnalyzeCrossEnumTypeMismatch(t *testing.T) {
	cat := mustCatalog(t, `
		CREATE TYPE mood AS ENUM ('sad', 'ok', 'happy');
		CREATE TYPE color AS ENUM ('red', 'green', 'blue');
		CREATE TABLE things (mood_col mood, color_col color);
	`)
	diags := Analyze(cat, dialect.PostgreSQL, `SELECT * FROM things WHERE mood_col = color_col`)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CodeTypeMismatch, diags[0].Code())
}

func TestAnalyzeCTEQualifiedColumn(t *testing.T) {
	cat := mustCatalog(t, `CREATE TABLE orders (id INT, user_id INT, total INT);`)
	sql := `WITH big_orders AS (SELECT id, total FROM orders WHERE total > 100)
		SELECT big_orders.id FROM big_orders`
	diags := Analyze(cat, dialect.PostgreSQL, sql)
	assert.Empty(t, diags)
}
