package sqltext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchEnum(t *testing.T) {
	def, ok := MatchEnum(`CREATE TYPE mood AS ENUM ('sad', 'ok', 'happy')`)
	require.True(t, ok)
	assert.Equal(t, "mood", def.Name)
	assert.Equal(t, []string{"sad", "ok", "happy"}, def.Labels)
}

func TestMatchEnumRejectsOtherStatements(t *testing.T) {
	_, ok := MatchEnum(`CREATE TABLE t (id INT)`)
	assert.False(t, ok)
}

func TestRewriteMaterializedView(t *testing.T) {
	out, changed := RewriteMaterializedView(`CREATE MATERIALIZED VIEW mv AS SELECT 1`)
	require.True(t, changed)
	assert.Contains(t, out, "CREATE VIEW")
	assert.NotContains(t, out, "MATERIALIZED")
}

func TestRewriteMaterializedViewNoOp(t *testing.T) {
	out, changed := RewriteMaterializedView(`CREATE VIEW v AS SELECT 1`)
	assert.False(t, changed)
	assert.Equal(t, `CREATE VIEW v AS SELECT 1`, out)
}

func TestFindUnnestWithOrdinality(t *testing.T) {
	stmt := `SELECT * FROM UNNEST(ARRAY[1,2]) WITH ORDINALITY AS t(val, idx)`
	rewritten, matches := FindUnnestWithOrdinality(stmt)
	require.Len(t, matches, 1)
	assert.Equal(t, "t", matches[0].Alias)
	assert.Equal(t, []string{"val", "idx"}, matches[0].Columns)
	assert.Equal(t, `SELECT * FROM t`, rewritten)
}

func TestFindUnnestWithOrdinalityNoColumnList(t *testing.T) {
	stmt := `SELECT * FROM UNNEST(ARRAY[1,2]) WITH ORDINALITY AS t`
	rewritten, matches := FindUnnestWithOrdinality(stmt)
	require.Len(t, matches, 1)
	assert.Equal(t, "t", matches[0].Alias)
	assert.Empty(t, matches[0].Columns)
	assert.Equal(t, `SELECT * FROM t`, rewritten)
}

func TestStripReturning(t *testing.T) {
	stmt := `INSERT INTO users(name,email) VALUES('a','b') RETURNING id,name`
	rewritten, items, ok := StripReturning(stmt)
	require.True(t, ok)
	assert.Equal(t, "id,name", items)
	assert.NotContains(t, rewritten, "RETURNING")
	assert.Equal(t, []string{"id", "name"}, ReturningItemNames(items))
}

func TestReturningItemNamesWithAlias(t *testing.T) {
	names := ReturningItemNames("id AS new_id, name")
	assert.Equal(t, []string{"new_id", "name"}, names)
}

func TestFindDerivedTableAliasColumns(t *testing.T) {
	stmt := `SELECT sub.x FROM (SELECT id, name FROM users) AS sub(x)`
	rewritten, aliasCols := FindDerivedTableAliasColumns(stmt)
	require.Contains(t, aliasCols, "sub")
	assert.Equal(t, []string{"x"}, aliasCols["sub"])
	assert.Equal(t, `SELECT sub.x FROM (SELECT id, name FROM users) AS sub`, rewritten)
}

func TestExtractDMLCTEs(t *testing.T) {
	stmt := `WITH nu AS (INSERT INTO users(name,email) VALUES('a','b') RETURNING id,name) SELECT nu.id,nu.name FROM nu`
	rewritten, ctes := ExtractDMLCTEs(stmt)
	require.Contains(t, ctes, "nu")
	assert.Equal(t, []string{"id", "name"}, ctes["nu"])
	assert.Equal(t, `SELECT nu.id,nu.name FROM nu`, rewritten)
}

func TestSplitStatementsIgnoresSemicolonInString(t *testing.T) {
	sql := `CREATE TABLE t (id INT, note TEXT DEFAULT 'a;b');
CREATE TABLE u (id INT);`
	stmts := SplitStatements(sql)
	require.Len(t, stmts, 2)
	assert.Equal(t, 1, stmts[0].Line)
	assert.Equal(t, 2, stmts[1].Line)
}

func TestSplitStatementsTracksLineNumbers(t *testing.T) {
	sql := "CREATE TABLE t (\n  id INT\n);\n\nCREATE TABLE u (id INT);"
	stmts := SplitStatements(sql)
	require.Len(t, stmts, 2)
	assert.Equal(t, 1, stmts[0].Line)
	assert.Equal(t, 5, stmts[1].Line)
}
