package permbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantaforge/qdag/ops"
	"github.com/quantaforge/qdag/sim"
)

// checkRoundTrip verifies the generated circuit maps every basis state the
// way the classical permutation does.
func checkRoundTrip(t *testing.T, b *PermutationBox) {
	t.Helper()
	u, err := sim.CircuitUnitary(b.ToCircuit())
	require.NoError(t, err)
	dim := 1 << uint(b.NQubits())
	for j := 0; j < dim; j++ {
		want := b.Apply(uint64(j))
		for i := 0; i < dim; i++ {
			expect := 0.0
			if uint64(i) == want {
				expect = 1.0
			}
			assert.InDelta(t, expect, real(u[i][j]), 1e-9, "entry (%d,%d)", i, j)
			assert.InDelta(t, 0, imag(u[i][j]), 1e-9, "entry (%d,%d)", i, j)
		}
	}
}

func TestSingleTransposition(t *testing.T) {
	b, err := New(2, map[uint64]uint64{0b01: 0b10, 0b10: 0b01})
	require.NoError(t, err)
	assert.Equal(t, uint64(0b10), b.Apply(0b01))
	assert.Equal(t, uint64(0b00), b.Apply(0b00))
	checkRoundTrip(t, b)
}

func TestThreeCycle(t *testing.T) {
	b, err := New(3, map[uint64]uint64{
		0b000: 0b011,
		0b011: 0b110,
		0b110: 0b000,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(0b011), b.Apply(0b000))
	assert.Equal(t, uint64(0b110), b.Apply(0b011))
	assert.Equal(t, uint64(0b000), b.Apply(0b110))
	checkRoundTrip(t, b)
}

func TestTwoDisjointCycles(t *testing.T) {
	b, err := New(3, map[uint64]uint64{
		0b000: 0b111,
		0b111: 0b000,
		0b001: 0b010,
		0b010: 0b001,
	})
	require.NoError(t, err)
	checkRoundTrip(t, b)
}

func TestFullPermutation(t *testing.T) {
	// the 2-qubit increment permutation
	b, err := New(2, map[uint64]uint64{0: 1, 1: 2, 2: 3, 3: 0})
	require.NoError(t, err)
	checkRoundTrip(t, b)
}

func TestSingleQubitFlip(t *testing.T) {
	b, err := New(1, map[uint64]uint64{0: 1, 1: 0})
	require.NoError(t, err)
	c := b.ToCircuit()
	assert.Greater(t, c.CountGates(ops.X), 0)
	checkRoundTrip(t, b)
}

func TestIdentityPermutation(t *testing.T) {
	b, err := New(2, map[uint64]uint64{0: 0, 3: 3})
	require.NoError(t, err)
	assert.Equal(t, 0, b.ToCircuit().NumGates())
	checkRoundTrip(t, b)
}

func TestIncompleteMappingRejected(t *testing.T) {
	_, err := New(2, map[uint64]uint64{0: 1})
	assert.Error(t, err, "image 1 is never mapped back")

	_, err = New(2, map[uint64]uint64{0: 5})
	assert.Error(t, err, "state out of range")

	_, err = New(0, nil)
	assert.Error(t, err)
}

func TestBoxOp(t *testing.T) {
	b, err := New(2, map[uint64]uint64{1: 2, 2: 1})
	require.NoError(t, err)
	op := b.Op()
	assert.Equal(t, ops.PermBox, op.Type)
	assert.Equal(t, 2, op.NumQubits())
}
