package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromStringAliases(t *testing.T) {
	cases := map[string]Profile{
		"postgres":   PostgreSQL,
		"postgresql": PostgreSQL,
		"pg":         PostgreSQL,
		"":           PostgreSQL,
		"mysql":      MySQL,
		"MySQL8":     MySQL,
		"sqlite":     SQLite,
		"SQLite3":    SQLite,
	}
	for input, want := range cases {
		got, err := FromString(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
}

func TestFromStringRejectsUnknown(t *testing.T) {
	_, err := FromString("oracle")
	assert.Error(t, err)
}

func TestDefaultSchema(t *testing.T) {
	assert.Equal(t, "public", PostgreSQL.DefaultSchema())
	assert.Equal(t, "", MySQL.DefaultSchema())
	assert.Equal(t, "", SQLite.DefaultSchema())
}

func TestTypeKeywordsDialectSpecific(t *testing.T) {
	pg := PostgreSQL.TypeKeywords()
	assert.True(t, pg["UUID"])

	mysql := MySQL.TypeKeywords()
	assert.True(t, mysql["MEDIUMINT"])
	assert.False(t, mysql["UUID"])
}
