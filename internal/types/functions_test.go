package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFuncReturnCount(t *testing.T) {
	assert.Equal(t, T(BigInt), FuncReturn("count", []Type{T(Integer)}))
	assert.Equal(t, T(BigInt), FuncReturn("COUNT", nil))
}

func TestFuncReturnSumPromotesIntegral(t *testing.T) {
	assert.Equal(t, T(BigInt), FuncReturn("SUM", []Type{T(Integer)}))
	assert.Equal(t, T(Double), FuncReturn("SUM", []Type{T(Double)}))
}

func TestFuncReturnMinMaxEchoesArgType(t *testing.T) {
	assert.Equal(t, T(Text), FuncReturn("MAX", []Type{T(Text)}))
	assert.Equal(t, T(UUID), FuncReturn("MIN", []Type{T(UUID)}))
}

func TestFuncReturnCoalesceFirstKnown(t *testing.T) {
	got := FuncReturn("COALESCE", []Type{T(Unknown), T(Integer), T(Text)})
	assert.Equal(t, T(Integer), got)
}

func TestFuncReturnUnknownFunctionIsUnknown(t *testing.T) {
	assert.Equal(t, T(Unknown), FuncReturn("SOME_UDF", []Type{T(Integer)}))
}
