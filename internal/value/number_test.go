package value

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberCanonicalText(t *testing.T) {
	tests := []struct {
		name string
		n    Number
		want string
	}{
		{"zero", Int(0), "0"},
		{"negative zero", Float(math.Copysign(0, -1)), "0"},
		{"int", Int(42), "42"},
		{"negative int", Int(-100), "-100"},
		{"max int64", Int(math.MaxInt64), "9223372036854775807"},
		{"max uint64", Uint(math.MaxUint64), "18446744073709551615"},
		{"integral float", Float(30), "30"},
		{"fraction", Float(1.5), "1.5"},
		{"shortest round trip", Float(0.1), "0.1"},
		{"large float uses fixed", Float(1e20), "100000000000000000000"},
		{"1e21 switches to exponent", Float(1e21), "1e+21"},
		{"small float exponent", Float(1e-7), "1e-7"},
		{"tiny float exponent", Float(1.5e-10), "1.5e-10"},
		{"1e-6 stays fixed", Float(0.000001), "0.000001"},
		{"NaN", Float(math.NaN()), "null"},
		{"infinity", Float(math.Inf(1)), "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.n.String())
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		lit     string
		want    string
		integer bool
	}{
		{"42", "42", true},
		{"-7", "-7", true},
		{"123456789012345678901234567890", "123456789012345678901234567890", true},
		{"1.0", "1", false},
		{"2.50", "2.5", false},
		{"1e3", "1000", false},
		{"-1.25E-8", "-1.25e-8", false},
	}

	for _, tt := range tests {
		t.Run(tt.lit, func(t *testing.T) {
			n, err := ParseNumber(tt.lit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.String())
			assert.Equal(t, tt.integer, n.IsInteger())
		})
	}

	_, err := ParseNumber("")
	require.Error(t, err)
	_, err = ParseNumber("twelve")
	require.Error(t, err)
}

func TestBigIntIsCopied(t *testing.T) {
	src := big.NewInt(10)
	n := BigInt(src)
	src.SetInt64(11)

	assert.Equal(t, "10", n.String())

	out := n.BigInt()
	out.SetInt64(12)
	assert.Equal(t, "10", n.String())
}

func TestNumberFloat64(t *testing.T) {
	assert.Equal(t, 42.0, Int(42).Float64())
	assert.Equal(t, 1.5, Float(1.5).Float64())
	assert.Nil(t, Float(1.5).BigInt())
	assert.True(t, Int(1).IsFinite())
	assert.False(t, Float(math.Inf(-1)).IsFinite())
}
