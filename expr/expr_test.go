package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArithmetic(t *testing.T) {
	a := Symbol("a")
	e := a.Scale(2).Add(Constant(0.5))
	assert.Equal(t, "0.5+2*a", e.String())

	sum := e.Add(a.Neg())
	assert.Equal(t, "0.5+a", sum.String())

	zero := a.Sub(a)
	assert.True(t, zero.IsConstant())
	assert.Equal(t, 0.0, zero.Const)
	assert.Nil(t, zero.Terms)
}

func TestEval(t *testing.T) {
	e := Symbol("a").Add(Symbol("b").Scale(3)).Add(Constant(1))
	v, err := e.Eval(map[string]float64{"a": 0.5, "b": 0.25})
	require.NoError(t, err)
	assert.InDelta(t, 2.25, v, 1e-12)

	_, err = e.Eval(map[string]float64{"a": 0.5})
	assert.Error(t, err)
}

func TestSubstitute(t *testing.T) {
	e := Symbol("a").Add(Symbol("b"))
	s := e.Substitute(map[string]float64{"a": 1.5})
	assert.Equal(t, []string{"b"}, s.FreeSymbols())
	assert.InDelta(t, 1.5, s.Const, 1e-12)
}

func TestEquivMod(t *testing.T) {
	a := Symbol("a")
	assert.True(t, a.Add(Constant(4)).EquivMod(a, 4))
	assert.True(t, a.Add(Constant(-8)).EquivMod(a, 4))
	assert.False(t, a.Add(Constant(2)).EquivMod(a, 4))
	// symbolic residue is never equivalent
	assert.False(t, a.EquivMod(Symbol("b"), 4))

	assert.True(t, Constant(4).EquivZero(4))
	assert.True(t, Constant(-4).EquivZero(4))
	assert.False(t, Constant(2).EquivZero(4))
	assert.True(t, Constant(2).EquivMod(Constant(-2), 4))
}

func TestEqualAndHash(t *testing.T) {
	e1 := Symbol("a").Add(Constant(0.5))
	e2 := Constant(0.5).Add(Symbol("a"))
	assert.True(t, e1.Equal(e2))
	assert.Equal(t, e1.HashCode(), e2.HashCode())
	assert.False(t, e1.Equal(e1.Neg()))
}
