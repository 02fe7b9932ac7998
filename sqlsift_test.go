package sqlsift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlsift/internal/diag"
)

func mustCatalog(t *testing.T, d Dialect, ddl string) *Catalog {
	t.Helper()
	cat, warnings := BuildCatalog(d, ddl)
	require.Empty(t, warnings, "unexpected schema warnings: %v", warnings)
	return cat
}

func codes(diags []Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = string(d.Code())
	}
	return out
}

// Scenario 1: undefined table.
func TestScenarioUndefinedTable(t *testing.T) {
	cat := mustCatalog(t, PostgreSQL, `CREATE TABLE users(id INT);`)
	diags := Analyze(cat, PostgreSQL, `SELECT * FROM nonexistent`)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CodeTableNotFound, diags[0].Code())
	assert.Equal(t, 1, diags[0].Span.Line)
}

// Scenario 2: ambiguous column.
func TestScenarioAmbiguousColumn(t *testing.T) {
	cat := mustCatalog(t, PostgreSQL, `
		CREATE TABLE users(id INT);
		CREATE TABLE orders(id INT, user_id INT);
	`)
	diags := Analyze(cat, PostgreSQL, `SELECT id FROM users JOIN orders ON users.id = orders.user_id`)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CodeAmbiguousColumn, diags[0].Code())
	assert.Contains(t, diags[0].Message, "ambiguous")
	assert.Contains(t, diags[0].Message, "id")
}

// Scenario 3: inline suppression.
func TestScenarioInlineSuppression(t *testing.T) {
	cat := mustCatalog(t, PostgreSQL, `CREATE TABLE users(id INT);`)
	sql := "-- sqlsift:disable E0002\nSELECT bad FROM users;\nSELECT worse FROM users"
	diags := Analyze(cat, PostgreSQL, sql)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CodeColumnNotFound, diags[0].Code())
	assert.Equal(t, 3, diags[0].Span.Line)
	assert.Contains(t, diags[0].Message, "worse")
}

// Scenario 4: CTE with RETURNING.
func TestScenarioCTEWithReturning(t *testing.T) {
	cat := mustCatalog(t, PostgreSQL, `CREATE TABLE users(id INT, name TEXT, email TEXT);`)
	sql := `WITH nu AS (INSERT INTO users(name,email) VALUES('a','b') RETURNING id,name) SELECT nu.id,nu.name FROM nu`
	diags := Analyze(cat, PostgreSQL, sql)
	assert.Empty(t, diags)
}

// Scenario 5: UUID literal promotion.
func TestScenarioUUIDLiteral(t *testing.T) {
	cat := mustCatalog(t, PostgreSQL, `CREATE TABLE users(id UUID PRIMARY KEY);`)

	diags := Analyze(cat, PostgreSQL, `SELECT * FROM users WHERE id = '123e4567-e89b-12d3-a456-426614174000'`)
	assert.Empty(t, diags)

	diags = Analyze(cat, PostgreSQL, `SELECT * FROM users WHERE id = 42`)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CodeTypeMismatch, diags[0].Code())
}

// Scenario 6: derived-table arity.
func TestScenarioDerivedTableArity(t *testing.T) {
	cat := mustCatalog(t, PostgreSQL, `CREATE TABLE users(id INT, name TEXT);`)

	diags := Analyze(cat, PostgreSQL, `SELECT sub.x FROM (SELECT id, name FROM users) AS sub(x)`)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CodeColumnCountMismatch, diags[0].Code())

	diags = Analyze(cat, PostgreSQL, `SELECT sub.x, sub.y FROM (SELECT id, name FROM users) AS sub(x, y)`)
	assert.Empty(t, diags)
}

// Determinism: repeated calls against the same catalog/query produce
// identical diagnostics, and ordering never depends on traversal order.
func TestDeterminism(t *testing.T) {
	cat := mustCatalog(t, PostgreSQL, `CREATE TABLE users(id INT);`)
	sql := `SELECT missing_a, missing_b FROM users`

	first := Analyze(cat, PostgreSQL, sql)
	second := Analyze(cat, PostgreSQL, sql)
	require.Equal(t, codes(first), codes(second))
	require.Len(t, first, 2)
	assert.True(t, first[0].Span.Column <= first[1].Span.Column)
}
