package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantaforge/qdag/expr"
)

func TestNewValidation(t *testing.T) {
	_, err := New(Rz, nil, 0)
	assert.Error(t, err, "rotation without its angle")

	_, err = New(H, []expr.Expr{expr.Constant(1)}, 0)
	assert.Error(t, err, "parameter on a parameter-free gate")

	_, err = New(NPhasedX, []expr.Expr{expr.Constant(1), expr.Constant(0)}, 0)
	assert.Error(t, err, "variable arity needs an explicit count")

	_, err = New(CnX, nil, 1)
	assert.Error(t, err, "CnX without a control")

	op, err := New(CnX, nil, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, op.NumQubits())
}

func TestSignature(t *testing.T) {
	m := Gate(Measure)
	assert.Equal(t, 1, m.NumQubits())
	assert.Equal(t, 1, m.NumBits())
	assert.Equal(t, []EdgeType{Quantum, Classical}, m.Signature())

	cond := NewConditional(Gate(X), 2, 3)
	assert.Equal(t, 1, cond.NumQubits())
	assert.Equal(t, 2, cond.NumBools())
	assert.Equal(t, []EdgeType{Boolean, Boolean, Quantum}, cond.Signature())
}

func TestDagger(t *testing.T) {
	d, ok := Gate(S).Dagger()
	require.True(t, ok)
	assert.Equal(t, Sdg, d.Type)

	d, ok = Gate(H).Dagger()
	require.True(t, ok)
	assert.True(t, d.Equal(Gate(H)))

	rz := Rotation(Rz, expr.Constant(0.25))
	d, ok = rz.Dagger()
	require.True(t, ok)
	assert.True(t, d.Params[0].Equal(expr.Constant(-0.25)))

	_, ok = Gate(Measure).Dagger()
	assert.False(t, ok)
	_, ok = Gate(ZZMax).Dagger()
	assert.False(t, ok)
}

func TestIsIdentity(t *testing.T) {
	for _, tc := range []struct {
		angle float64
		id    bool
		phase float64
	}{
		{0, true, 0},
		{4, true, 0},
		{-4, true, 0},
		{2, true, 1},
		{-2, true, 1},
		{0.5, false, 0},
	} {
		op := Rotation(Rz, expr.Constant(tc.angle))
		phase, ok := op.IsIdentity()
		assert.Equal(t, tc.id, ok, "Rz(%g)", tc.angle)
		if ok {
			assert.Equal(t, tc.phase, phase, "Rz(%g)", tc.angle)
		}
	}

	sym := Rotation(Rz, expr.Symbol("a"))
	_, ok := sym.IsIdentity()
	assert.False(t, ok)

	tk2 := MustNew(TK2, []expr.Expr{expr.Constant(0), expr.Constant(4), expr.Constant(-4)}, 0)
	_, ok = tk2.IsIdentity()
	assert.True(t, ok)

	tk2 = MustNew(TK2, []expr.Expr{expr.Constant(0.1), expr.Constant(0), expr.Constant(0)}, 0)
	_, ok = tk2.IsIdentity()
	assert.False(t, ok)
}

func TestCommutingBasis(t *testing.T) {
	cx := Gate(CX)
	b, ok := cx.CommutingBasis(0)
	require.True(t, ok)
	assert.Equal(t, PauliZ, b)
	b, ok = cx.CommutingBasis(1)
	require.True(t, ok)
	assert.Equal(t, PauliX, b)

	_, ok = Gate(H).CommutingBasis(0)
	assert.False(t, ok)

	cnx := MustNew(CnX, nil, 3)
	b, _ = cnx.CommutingBasis(0)
	assert.Equal(t, PauliZ, b)
	b, _ = cnx.CommutingBasis(2)
	assert.Equal(t, PauliX, b)

	assert.True(t, Rotation(Rz, expr.Constant(0.5)).CommutesWithBasis(PauliZ, 0))
	assert.False(t, Rotation(Rx, expr.Constant(0.5)).CommutesWithBasis(PauliZ, 0))
	// identity basis commutes with everything
	assert.True(t, Gate(H).CommutesWithBasis(PauliI, 0))
}

func TestTypeByName(t *testing.T) {
	tt, ok := TypeByName("CX")
	require.True(t, ok)
	assert.Equal(t, CX, tt)
	_, ok = TypeByName("nope")
	assert.False(t, ok)
}
