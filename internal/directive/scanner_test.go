package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInlineSameLine(t *testing.T) {
	d := Parse("SELECT bad_col FROM users -- sqlsift:disable E0002")
	assert.True(t, d.IsSuppressed("E0002", 1))
	assert.False(t, d.IsSuppressed("E0001", 1))
}

func TestStandaloneNextLine(t *testing.T) {
	sql := "-- sqlsift:disable E0002\nSELECT bad_col FROM users"
	d := Parse(sql)
	assert.True(t, d.IsSuppressed("E0002", 2))
	assert.False(t, d.IsSuppressed("E0002", 1))
}

func TestMultipleCodes(t *testing.T) {
	sql := "SELECT * FROM t -- sqlsift:disable E0001, E0002"
	d := Parse(sql)
	assert.True(t, d.IsSuppressed("E0001", 1))
	assert.True(t, d.IsSuppressed("E0002", 1))
	assert.False(t, d.IsSuppressed("E0003", 1))
}

func TestDisableAll(t *testing.T) {
	sql := "SELECT * FROM t -- sqlsift:disable"
	d := Parse(sql)
	assert.True(t, d.IsSuppressed("E0001", 1))
	assert.True(t, d.IsSuppressed("E0002", 1))
	assert.True(t, d.IsSuppressed("E9999", 1))
}

func TestStandaloneDisableAllNextLine(t *testing.T) {
	sql := "-- sqlsift:disable\nSELECT * FROM t"
	d := Parse(sql)
	assert.True(t, d.IsSuppressed("E0001", 2))
	assert.False(t, d.IsSuppressed("E0001", 1))
}

func TestMultipleStandaloneDirectivesAccumulate(t *testing.T) {
	sql := "-- sqlsift:disable E0001\n-- sqlsift:disable E0002\nSELECT * FROM t"
	d := Parse(sql)
	assert.True(t, d.IsSuppressed("E0001", 3))
	assert.True(t, d.IsSuppressed("E0002", 3))
	assert.False(t, d.IsSuppressed("E0003", 3))
}

func TestNoDirective(t *testing.T) {
	d := Parse("SELECT * FROM users")
	assert.False(t, d.IsSuppressed("E0001", 1))
}

func TestDirectiveInsideStringIgnored(t *testing.T) {
	d := Parse("SELECT '-- sqlsift:disable E0002' FROM users")
	assert.False(t, d.IsSuppressed("E0002", 1))
}

func TestCaseInsensitiveCodes(t *testing.T) {
	d := Parse("SELECT * FROM t -- sqlsift:disable e0002")
	assert.True(t, d.IsSuppressed("E0002", 1))
}

func TestSkipEmptyLinesBetweenDirectiveAndSQL(t *testing.T) {
	sql := "-- sqlsift:disable E0001\n\nSELECT * FROM t"
	d := Parse(sql)
	assert.True(t, d.IsSuppressed("E0001", 3))
}

func TestCommaSeparatedNoSpaces(t *testing.T) {
	sql := "SELECT * FROM t -- sqlsift:disable E0001,E0002"
	d := Parse(sql)
	assert.True(t, d.IsSuppressed("E0001", 1))
	assert.True(t, d.IsSuppressed("E0002", 1))
}

func TestNotADirective(t *testing.T) {
	d := Parse("SELECT * FROM t -- sqlsift:disabled E0002")
	assert.False(t, d.IsSuppressed("E0002", 1))
}

func TestDoubleQuotedIdentifierWithDashes(t *testing.T) {
	d := Parse(`SELECT "col--name" FROM t -- sqlsift:disable E0002`)
	assert.True(t, d.IsSuppressed("E0002", 1))
}
