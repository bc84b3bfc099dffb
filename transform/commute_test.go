package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantaforge/qdag/circuit"
	"github.com/quantaforge/qdag/ops"
)

func TestCommuteThroughMultisRz(t *testing.T) {
	// Rz on the control side commutes backwards through the CX
	c := circuit.New(2, 0)
	c.MustAddGate(ops.Gate(ops.CX), 0, 1)
	c.MustAddGate(circuit.Rotation(ops.Rz, 0.25), 0)
	u := unitary(t, c)

	assert.True(t, CommuteThroughMultis().Apply(c))
	require.NoError(t, c.Check())
	cmds := c.Commands()
	require.Len(t, cmds, 2)
	assert.Equal(t, ops.Rz, cmds[0].Op.Type)
	assert.Equal(t, []int{0}, cmds[0].Qubits)
	assert.Equal(t, ops.CX, cmds[1].Op.Type)
	checkPreserved(t, u, c)

	assert.False(t, CommuteThroughMultis().Apply(c), "idempotent once settled")
}

func TestCommuteThroughMultisTargetSide(t *testing.T) {
	// Rx and V commute through the CX target, H does not
	c := circuit.New(2, 0)
	c.MustAddGate(ops.Gate(ops.CX), 0, 1)
	c.MustAddGate(circuit.Rotation(ops.Rx, 0.5), 1)
	c.MustAddGate(ops.Gate(ops.V), 1)
	c.MustAddGate(ops.Gate(ops.H), 1)
	u := unitary(t, c)

	assert.True(t, CommuteThroughMultis().Apply(c))
	require.NoError(t, c.Check())
	cmds := c.Commands()
	require.Len(t, cmds, 4)
	assert.Equal(t, ops.Rx, cmds[0].Op.Type)
	assert.Equal(t, ops.V, cmds[1].Op.Type)
	assert.Equal(t, ops.CX, cmds[2].Op.Type)
	assert.Equal(t, ops.H, cmds[3].Op.Type)
	checkPreserved(t, u, c)
}

func TestCommuteThroughMultisBlockedByBasis(t *testing.T) {
	// Rz after the CX target anti-commutes: nothing moves
	c := circuit.New(2, 0)
	c.MustAddGate(ops.Gate(ops.CX), 0, 1)
	c.MustAddGate(circuit.Rotation(ops.Rz, 0.25), 1)

	assert.False(t, CommuteThroughMultis().Apply(c))
	require.NoError(t, c.Check())
	cmds := c.Commands()
	assert.Equal(t, ops.CX, cmds[0].Op.Type)
}

func TestCommuteThroughMultisChain(t *testing.T) {
	// two commuting singles hop over the same CZ one after the other
	c := circuit.New(2, 0)
	c.MustAddGate(ops.Gate(ops.CZ), 0, 1)
	c.MustAddGate(ops.Gate(ops.S), 1)
	c.MustAddGate(ops.Gate(ops.T), 1)
	u := unitary(t, c)

	assert.True(t, CommuteThroughMultis().Apply(c))
	require.NoError(t, c.Check())
	cmds := c.Commands()
	require.Len(t, cmds, 3)
	assert.Equal(t, ops.S, cmds[0].Op.Type)
	assert.Equal(t, ops.T, cmds[1].Op.Type)
	assert.Equal(t, ops.CZ, cmds[2].Op.Type)
	checkPreserved(t, u, c)
}
