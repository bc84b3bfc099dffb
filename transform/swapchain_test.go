package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantaforge/qdag/circuit"
	"github.com/quantaforge/qdag/ops"
)

// mapModel is an in-memory error model keyed by node and operation kind.
type mapModel map[int]map[ops.OpType]float64

func (m mapModel) GetError(node int, t ops.OpType) float64 {
	return m[node][t]
}

func TestSwapChainMovesToBetterNode(t *testing.T) {
	c := circuit.New(2, 0)
	c.MustAddGate(circuit.Rotation(ops.Rx, 0.5), 0)
	c.MustAddGate(ops.Gate(ops.SWAP), 0, 1)
	u := unitary(t, c)

	model := mapModel{
		0: {ops.Rx: 0.2},
		1: {ops.Rx: 0.01},
	}
	assert.True(t, CommuteSQThroughSWAP(model).Apply(c))
	require.NoError(t, c.Check())

	cmds := c.Commands()
	require.Len(t, cmds, 2)
	assert.Equal(t, ops.SWAP, cmds[0].Op.Type)
	assert.Equal(t, ops.Rx, cmds[1].Op.Type)
	assert.Equal(t, []int{1}, cmds[1].Qubits)
	checkPreserved(t, u, c)

	assert.False(t, CommuteSQThroughSWAP(model).Apply(c), "placement is settled")
}

func TestSwapChainStaysOnBetterNode(t *testing.T) {
	c := circuit.New(2, 0)
	c.MustAddGate(circuit.Rotation(ops.Rx, 0.5), 0)
	c.MustAddGate(ops.Gate(ops.SWAP), 0, 1)

	model := mapModel{
		0: {ops.Rx: 0.01},
		1: {ops.Rx: 0.2},
	}
	assert.False(t, CommuteSQThroughSWAP(model).Apply(c))
	cmds := c.Commands()
	assert.Equal(t, ops.Rx, cmds[0].Op.Type)
	assert.Equal(t, []int{0}, cmds[0].Qubits)
}

func TestSwapChainTies(t *testing.T) {
	// equal error rates: a move needs a strict win
	c := circuit.New(2, 0)
	c.MustAddGate(circuit.Rotation(ops.Rx, 0.5), 0)
	c.MustAddGate(ops.Gate(ops.SWAP), 0, 1)

	model := mapModel{
		0: {ops.Rx: 0.1},
		1: {ops.Rx: 0.1},
	}
	assert.False(t, CommuteSQThroughSWAP(model).Apply(c))
}

func TestSwapChainAcrossTwoSwaps(t *testing.T) {
	c := circuit.New(3, 0)
	c.MustAddGate(circuit.Rotation(ops.Rx, 0.5), 0)
	c.MustAddGate(ops.Gate(ops.SWAP), 0, 1)
	c.MustAddGate(ops.Gate(ops.SWAP), 1, 2)
	u := unitary(t, c)

	model := mapModel{
		0: {ops.Rx: 0.5},
		1: {ops.Rx: 0.3},
		2: {ops.Rx: 0.01},
	}
	assert.True(t, CommuteSQThroughSWAP(model).Apply(c))
	require.NoError(t, c.Check())

	cmds := c.Commands()
	require.Len(t, cmds, 3)
	assert.Equal(t, ops.SWAP, cmds[0].Op.Type)
	assert.Equal(t, ops.SWAP, cmds[1].Op.Type)
	assert.Equal(t, ops.Rx, cmds[2].Op.Type)
	assert.Equal(t, []int{2}, cmds[2].Qubits)
	checkPreserved(t, u, c)
}

func TestSwapChainIgnoresMultiQubitPredecessors(t *testing.T) {
	c := circuit.New(2, 0)
	c.MustAddGate(ops.Gate(ops.CX), 0, 1)
	c.MustAddGate(ops.Gate(ops.SWAP), 0, 1)

	model := mapModel{
		0: {ops.CX: 0.5},
		1: {ops.CX: 0.01},
	}
	assert.False(t, CommuteSQThroughSWAP(model).Apply(c))
	cmds := c.Commands()
	assert.Equal(t, ops.CX, cmds[0].Op.Type)
}
