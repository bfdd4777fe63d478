package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToFixed_RoundsHalfUp(t *testing.T) {
	cases := []struct {
		in    string
		scale int32
		want  string
	}{
		{"10.005", 2, "10.01"},
		{"10.004", 2, "10.00"},
		{"0.125", 2, "0.13"},
		{"100", 2, "100.00"},
		{"7.534246575342465", 8, "7.53424658"},
	}
	for _, c := range cases {
		d, err := FromString(c.in)
		require.NoError(t, err)
		assert.Equal(t, c.want, ToFixed(d, c.scale), "input %s scale %d", c.in, c.scale)
	}
}

func TestFromString_RejectsGarbage(t *testing.T) {
	_, err := FromString("not-a-number")
	assert.Error(t, err)
}

func TestRoundTrip_FromStringToFixed(t *testing.T) {
	d, err := FromString("10000.00000000")
	require.NoError(t, err)
	fixed := ToFixed(d, 8)
	assert.Equal(t, "10000.00000000", fixed)

	back, err := FromString(fixed)
	require.NoError(t, err)
	assert.Equal(t, 0, Compare(d, back))
}

func TestDiv_UsesConfiguredPrecision(t *testing.T) {
	a := MustFromString("0.275")
	b := MustFromString("365")
	rate := Div(a, b)
	// 0.275 / 365 to 20 significant digits, then displayed at scale 6.
	assert.Equal(t, "0.000753", ToFixed(rate, 6))
}

func TestAddSubMul(t *testing.T) {
	a := MustFromString("1000.00")
	b := MustFromString("100.00")
	assert.Equal(t, "1100.00", ToFixed(Add(a, b), 2))
	assert.Equal(t, "900.00", ToFixed(Sub(a, b), 2))
	assert.Equal(t, "100000.0000", ToFixed(Mul(a, b), 4))
}

func TestIsNegative(t *testing.T) {
	assert.True(t, IsNegative(MustFromString("-0.01")))
	assert.False(t, IsNegative(MustFromString("0")))
	assert.False(t, IsNegative(MustFromString("0.01")))
}
