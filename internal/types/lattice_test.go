package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompatibleUnknownAndNullAreUniversal(t *testing.T) {
	assert.True(t, Compatible(T(Unknown), T(Text)))
	assert.True(t, Compatible(T(Null), T(Integer)))
	assert.True(t, Compatible(T(Null), T(Null)))
}

func TestCompatibleNumericFamily(t *testing.T) {
	assert.True(t, Compatible(T(Integer), T(BigInt)))
	assert.True(t, Compatible(T(Decimal), T(Double)))
	assert.False(t, Compatible(T(Integer), T(Text)))
}

func TestCompatibleTemporalFamily(t *testing.T) {
	assert.True(t, Compatible(T(Date), T(Timestamp)))
	assert.False(t, Compatible(T(Date), T(Text)))
}

func TestCompatibleEnumRequiresSameRef(t *testing.T) {
	mood := EnumType("mood")
	color := EnumType("color")
	assert.True(t, Compatible(mood, mood))
	assert.False(t, Compatible(mood, color))
}

func TestFromRawTypeUnknownForUnmodeled(t *testing.T) {
	assert.Equal(t, T(Unknown), FromRawType("SOME_EXOTIC_TYPE"))
}

func TestFromRawTypeMapsCommonKeywords(t *testing.T) {
	assert.Equal(t, T(Integer), FromRawType("int"))
	assert.Equal(t, T(BigInt), FromRawType("BIGINT"))
	assert.Equal(t, T(UUID), FromRawType("uuid"))
	assert.Equal(t, T(Text), FromRawType("varchar"))
}
