package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantaforge/qdag/circuit"
	"github.com/quantaforge/qdag/expr"
	"github.com/quantaforge/qdag/ops"
	"github.com/quantaforge/qdag/sim"
)

// checkPreserved asserts the pass kept the circuit's unitary, global phase
// included.
func checkPreserved(t *testing.T, before sim.Matrix, c *circuit.Circuit) {
	t.Helper()
	after, err := sim.CircuitUnitary(c)
	require.NoError(t, err)
	assert.True(t, sim.Equal(before, after, 1e-9), "pass changed the circuit semantics")
}

func unitary(t *testing.T, c *circuit.Circuit) sim.Matrix {
	t.Helper()
	u, err := sim.CircuitUnitary(c)
	require.NoError(t, err)
	return u
}

func TestRemoveRedundanciesHH(t *testing.T) {
	c := circuit.New(1, 0)
	c.MustAddGate(ops.Gate(ops.H), 0)
	c.MustAddGate(ops.Gate(ops.H), 0)
	u := unitary(t, c)

	assert.True(t, RemoveRedundancies().Apply(c))
	require.NoError(t, c.Check())
	assert.Equal(t, 0, c.NumGates())
	checkPreserved(t, u, c)

	assert.False(t, RemoveRedundancies().Apply(c))
}

func TestRemoveRedundanciesDaggerChain(t *testing.T) {
	// T Tdg and CX CX cancel, cascading into the S Sdg pair around them
	c := circuit.New(2, 0)
	c.MustAddGate(ops.Gate(ops.S), 0)
	c.MustAddGate(ops.Gate(ops.CX), 0, 1)
	c.MustAddGate(ops.Gate(ops.CX), 0, 1)
	c.MustAddGate(ops.Gate(ops.Sdg), 0)
	u := unitary(t, c)

	assert.True(t, RemoveRedundancies().Apply(c))
	require.NoError(t, c.Check())
	assert.Equal(t, 0, c.NumGates())
	checkPreserved(t, u, c)
}

func TestRemoveRedundanciesNoCancelAcrossPorts(t *testing.T) {
	// the wires cross between the two CX gates, so they must survive
	c := circuit.New(2, 0)
	c.MustAddGate(ops.Gate(ops.CX), 0, 1)
	c.MustAddGate(ops.Gate(ops.CX), 1, 0)
	u := unitary(t, c)

	assert.False(t, RemoveRedundancies().Apply(c))
	require.NoError(t, c.Check())
	assert.Equal(t, 2, c.CountGates(ops.CX))
	checkPreserved(t, u, c)
}

func TestRemoveRedundanciesRotationFold(t *testing.T) {
	c := circuit.New(1, 0)
	c.MustAddGate(circuit.Rotation(ops.Rz, 0.25), 0)
	c.MustAddGate(circuit.Rotation(ops.Rz, 0.5), 0)
	u := unitary(t, c)

	assert.True(t, RemoveRedundancies().Apply(c))
	require.NoError(t, c.Check())
	require.Equal(t, 1, c.NumGates())
	cmd := c.Commands()[0]
	assert.Equal(t, ops.Rz, cmd.Op.Type)
	assert.True(t, cmd.Op.Params[0].Equal(expr.Constant(0.75)))
	checkPreserved(t, u, c)
}

func TestRemoveRedundanciesFullTurnPhase(t *testing.T) {
	// Rz(0.5)+Rz(1.5) is a full turn: the identity with a half-turn phase
	c := circuit.New(1, 0)
	c.MustAddGate(circuit.Rotation(ops.Rz, 0.5), 0)
	c.MustAddGate(circuit.Rotation(ops.Rz, 1.5), 0)
	u := unitary(t, c)

	assert.True(t, RemoveRedundancies().Apply(c))
	require.NoError(t, c.Check())
	assert.Equal(t, 0, c.NumGates())
	assert.InDelta(t, 1.0, c.Phase(), 1e-12)
	checkPreserved(t, u, c)
}

func TestRemoveRedundanciesSymbolicFold(t *testing.T) {
	c := circuit.New(1, 0)
	c.MustAddGate(ops.Rotation(ops.Rz, expr.Symbol("a")), 0)
	c.MustAddGate(ops.Rotation(ops.Rz, expr.Symbol("a").Neg()), 0)

	assert.True(t, RemoveRedundancies().Apply(c))
	require.NoError(t, c.Check())
	assert.Equal(t, 0, c.NumGates())
	assert.InDelta(t, 0.0, c.Phase(), 1e-12)
}

func TestRemoveRedundanciesPreMeasure(t *testing.T) {
	// the Rz before a Z-measurement is unobservable, the Rx is not
	c := circuit.New(2, 2)
	c.MustAddGate(circuit.Rotation(ops.Rz, 0.3), 0)
	c.MustAddGate(circuit.Rotation(ops.Rx, 0.3), 1)
	_, err := c.AddMeasure(0, 0)
	require.NoError(t, err)
	_, err = c.AddMeasure(1, 1)
	require.NoError(t, err)

	assert.True(t, RemoveRedundancies().Apply(c))
	require.NoError(t, c.Check())
	assert.Equal(t, 0, c.CountGates(ops.Rz))
	assert.Equal(t, 1, c.CountGates(ops.Rx))
}

func TestRemoveRedundanciesZZPhasePair(t *testing.T) {
	c := circuit.New(2, 0)
	c.MustAddGate(circuit.Rotation(ops.ZZPhase, 0.25), 0, 1)
	c.MustAddGate(circuit.Rotation(ops.ZZPhase, -0.25), 0, 1)
	u := unitary(t, c)

	assert.True(t, RemoveRedundancies().Apply(c))
	require.NoError(t, c.Check())
	assert.Equal(t, 0, c.NumGates())
	checkPreserved(t, u, c)
}
