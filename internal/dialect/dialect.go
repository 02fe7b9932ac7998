// Package dialect identifies the SQL dialect an analysis runs under and
// the handful of facts that vary by dialect: the default schema used when
// a name carries none, and the set of type keywords the catalog builder
// accepts for that dialect.
package dialect

import (
	"fmt"
	"strings"
)

// Profile is a tagged value, not an interface — there is no per-dialect
// object to allocate, only a small fixed set of facts to branch on.
type Profile int

const (
	PostgreSQL Profile = iota
	MySQL
	SQLite
)

// FromString parses a dialect name, accepting the common aliases.
func FromString(s string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgresql", "postgres", "pg", "":
		return PostgreSQL, nil
	case "mysql", "mysql8":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return PostgreSQL, fmt.Errorf("unknown dialect %q; supported dialects: postgresql, mysql, sqlite", s)
	}
}

func (p Profile) String() string {
	switch p {
	case MySQL:
		return "mysql"
	case SQLite:
		return "sqlite"
	default:
		return "postgresql"
	}
}

// DefaultSchema is the schema a Qualified Name resolves to when it
// carries none: "public" for PostgreSQL, empty for MySQL and SQLite.
func (p Profile) DefaultSchema() string {
	if p == PostgreSQL {
		return "public"
	}
	return ""
}

// TypeKeywords returns the set of base type names (upper-cased) this
// dialect's catalog builder recognizes as valid column types. Extra,
// dialect-specific keywords layer on top of a common core so that e.g.
// MySQL's MEDIUMINT/TINYTEXT and PostgreSQL's UUID/JSONB are each only
// valid where they belong.
func (p Profile) TypeKeywords() map[string]bool {
	set := make(map[string]bool, len(commonTypes)+16)
	for _, t := range commonTypes {
		set[t] = true
	}
	switch p {
	case PostgreSQL:
		addAll(set, postgresExtra)
	case MySQL:
		addAll(set, mysqlExtra)
	case SQLite:
		addAll(set, sqliteExtra)
	}
	return set
}

func addAll(set map[string]bool, names []string) {
	for _, n := range names {
		set[n] = true
	}
}

var commonTypes = []string{
	"SMALLINT", "INTEGER", "INT", "BIGINT",
	"DECIMAL", "NUMERIC", "REAL", "FLOAT", "DOUBLE", "DOUBLE PRECISION",
	"CHAR", "VARCHAR", "TEXT",
	"DATE", "TIME", "TIMESTAMP",
	"BOOLEAN", "BOOL",
	"BLOB", "JSON",
}

var postgresExtra = []string{
	"SERIAL", "BIGSERIAL", "SMALLSERIAL",
	"TIMESTAMPTZ", "TIMESTAMP WITH TIME ZONE", "TIMESTAMP WITHOUT TIME ZONE",
	"TIMETZ", "INTERVAL",
	"UUID", "BYTEA", "JSONB",
	"CHARACTER VARYING", "CHARACTER",
}

var mysqlExtra = []string{
	"TINYINT", "MEDIUMINT",
	"TINYTEXT", "MEDIUMTEXT", "LONGTEXT",
	"TINYBLOB", "MEDIUMBLOB", "LONGBLOB",
	"DATETIME", "YEAR",
	"ENUM", "SET",
	"BINARY", "VARBINARY",
}

var sqliteExtra = []string{
	"TINYINT", "MEDIUMINT",
	"DATETIME",
	"NCHAR", "NVARCHAR", "CLOB",
}
