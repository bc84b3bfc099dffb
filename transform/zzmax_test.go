package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantaforge/qdag/circuit"
	"github.com/quantaforge/qdag/ops"
)

func TestCombineZZMaxPair(t *testing.T) {
	c := circuit.New(2, 0)
	c.MustAddGate(ops.Gate(ops.ZZMax), 0, 1)
	c.MustAddGate(ops.Gate(ops.ZZMax), 0, 1)
	u := unitary(t, c)

	assert.True(t, CommuteAndCombineZZMax().Apply(c))
	require.NoError(t, c.Check())
	assert.Equal(t, 0, c.CountGates(ops.ZZMax))
	assert.Equal(t, 2, c.CountGates(ops.Rz))
	assert.Equal(t, 0.5, c.Phase())
	checkPreserved(t, u, c)
}

func TestCombineZZMaxCrossedPair(t *testing.T) {
	// second gate takes the wires in the opposite order
	c := circuit.New(2, 0)
	c.MustAddGate(ops.Gate(ops.ZZMax), 0, 1)
	c.MustAddGate(ops.Gate(ops.ZZMax), 1, 0)
	u := unitary(t, c)

	assert.True(t, CommuteAndCombineZZMax().Apply(c))
	require.NoError(t, c.Check())
	assert.Equal(t, 0, c.CountGates(ops.ZZMax))
	checkPreserved(t, u, c)
}

func TestCommuteRzThroughZZMax(t *testing.T) {
	c := circuit.New(2, 0)
	c.MustAddGate(ops.Gate(ops.ZZMax), 0, 1)
	c.MustAddGate(circuit.Rotation(ops.Rz, 0.3), 0)
	c.MustAddGate(circuit.Rotation(ops.Rz, 0.7), 1)
	u := unitary(t, c)

	assert.True(t, CommuteAndCombineZZMax().Apply(c))
	require.NoError(t, c.Check())
	cmds := c.Commands()
	require.Len(t, cmds, 3)
	assert.Equal(t, ops.Rz, cmds[0].Op.Type)
	assert.Equal(t, ops.Rz, cmds[1].Op.Type)
	assert.Equal(t, ops.ZZMax, cmds[2].Op.Type)
	checkPreserved(t, u, c)
}

func TestCombineZZMaxLeavesSingleGate(t *testing.T) {
	c := circuit.New(2, 0)
	c.MustAddGate(ops.Gate(ops.ZZMax), 0, 1)
	assert.False(t, CommuteAndCombineZZMax().Apply(c))
	assert.Equal(t, 1, c.CountGates(ops.ZZMax))
}

func TestCombineZZMaxOddRun(t *testing.T) {
	// three in a row: the first pair merges, the survivor stays put
	c := circuit.New(2, 0)
	for i := 0; i < 3; i++ {
		c.MustAddGate(ops.Gate(ops.ZZMax), 0, 1)
	}
	u := unitary(t, c)

	assert.True(t, CommuteAndCombineZZMax().Apply(c))
	require.NoError(t, c.Check())
	assert.Equal(t, 1, c.CountGates(ops.ZZMax))
	assert.Equal(t, 2, c.CountGates(ops.Rz))
	checkPreserved(t, u, c)
}
