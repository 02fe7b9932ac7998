package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlsift/internal/dialect"
	"sqlsift/internal/types"
)

func TestBuildCreateTable(t *testing.T) {
	cat, diags := Build(dialect.PostgreSQL, `CREATE TABLE users (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		age INT
	);`)
	require.Empty(t, diags)

	table := cat.Table(QualifiedName{Name: "users"}, dialect.PostgreSQL)
	require.NotNil(t, table)
	assert.Equal(t, []string{"id", "name", "age"}, table.ColumnNames())

	id := table.FindColumn("id")
	require.NotNil(t, id)
	assert.True(t, id.PrimaryKey)
	assert.Equal(t, types.T(types.UUID), id.DataType)

	name := table.FindColumn("name")
	require.NotNil(t, name)
	assert.False(t, name.Nullable)
}

func TestBuildCreateView(t *testing.T) {
	cat, diags := Build(dialect.PostgreSQL, `
		CREATE TABLE users (id INT, name TEXT);
		CREATE VIEW active_users AS SELECT id, name FROM users;
	`)
	require.Empty(t, diags)

	view := cat.View(QualifiedName{Name: "active_users"}, dialect.PostgreSQL)
	require.NotNil(t, view)
	assert.Equal(t, []string{"id", "name"}, view.Columns)
	assert.False(t, view.Materialized)
}

func TestBuildMaterializedView(t *testing.T) {
	cat, diags := Build(dialect.PostgreSQL, `
		CREATE TABLE users (id INT);
		CREATE MATERIALIZED VIEW mv AS SELECT id FROM users;
	`)
	require.Empty(t, diags)

	view := cat.View(QualifiedName{Name: "mv"}, dialect.PostgreSQL)
	require.NotNil(t, view)
	assert.True(t, view.Materialized)
}

func TestBuildEnumType(t *testing.T) {
	cat, diags := Build(dialect.PostgreSQL, `CREATE TYPE mood AS ENUM ('sad', 'ok', 'happy');`)
	require.Empty(t, diags)

	enum := cat.Enum("mood")
	require.NotNil(t, enum)
	assert.Equal(t, []string{"sad", "ok", "happy"}, enum.Labels)
}

func TestBuildEnumColumnTypesAsEnum(t *testing.T) {
	cat, diags := Build(dialect.PostgreSQL, `
		CREATE TYPE mood AS ENUM ('sad', 'ok', 'happy');
		CREATE TABLE people (id INT, mood_col mood);
	`)
	require.Empty(t, diags)

	table := cat.Table(QualifiedName{Name: "people"}, dialect.PostgreSQL)
	require.NotNil(t, table)

	col := table.FindColumn("mood_col")
	require.NotNil(t, col)
	assert.Equal(t, types.EnumType("mood"), col.DataType)
}

func TestBuildAlterTableRoundTrip(t *testing.T) {
	cat, diags := Build(dialect.PostgreSQL, `
		CREATE TABLE users (id INT, c INT);
		ALTER TABLE users ADD COLUMN c2 TEXT;
		ALTER TABLE users RENAME COLUMN c TO d;
		ALTER TABLE users DROP COLUMN d;
	`)
	require.Empty(t, diags)

	table := cat.Table(QualifiedName{Name: "users"}, dialect.PostgreSQL)
	require.NotNil(t, table)
	assert.Equal(t, []string{"id", "c2"}, table.ColumnNames())
}

func TestBuildAlterMissingTableWarns(t *testing.T) {
	_, diags := Build(dialect.PostgreSQL, `ALTER TABLE missing ADD COLUMN x INT;`)
	require.Len(t, diags, 1)
}

func TestBuildUnparseableStatementWarnsAndContinues(t *testing.T) {
	cat, diags := Build(dialect.PostgreSQL, `
		CREATE TABLE users (id INT);
		THIS IS NOT SQL;
		CREATE TABLE orders (id INT);
	`)
	require.Len(t, diags, 1)
	assert.NotNil(t, cat.Table(QualifiedName{Name: "users"}, dialect.PostgreSQL))
	assert.NotNil(t, cat.Table(QualifiedName{Name: "orders"}, dialect.PostgreSQL))
}
