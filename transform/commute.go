package transform

import (
	"github.com/quantaforge/qdag/circuit"
	"github.com/quantaforge/qdag/logger"
	"github.com/quantaforge/qdag/ops"
)

// CommuteThroughMultis moves single-qubit gates backwards through the
// multi-qubit gates they commute with, walking each qubit wire from the
// output boundary towards the input.
func CommuteThroughMultis() Transform {
	return New(commuteSinglesToFront)
}

func commuteSinglesToFront(c *circuit.Circuit) bool {
	if e := logger.Logger().Trace(); e.Enabled() {
		e.Int("gates", c.NumGates()).Msg("commuting singles to front")
	}
	success := false
	for q := 0; q < c.NumQubits(); q++ {
		prevV := c.QOut(q)
		currentE := c.NthInEdge(prevV, ops.Quantum, 0)
		currentV := c.Source(currentE)
		for !c.Op(currentV).Type.IsInitial() {
			if c.NInEdgesOfType(currentV, ops.Quantum) > 1 {
				// hop single-qubit successors over the multi-qubit gate
				for c.NInEdgesOfType(prevV, ops.Quantum) == 1 && endsCommute(c, currentE) {
					success = true
					boundary := c.LastEdge(currentV, currentE)
					backupPort := c.SourcePort(currentE)
					c.RemoveVertex(prevV, true, false)
					c.Rewire(prevV, []circuit.Edge{boundary}, []ops.EdgeType{ops.Quantum})
					currentE = c.NthOutEdge(currentV, ops.Quantum, backupPort)
					prevV = c.Target(currentE)
				}
			}
			prevV = currentV
			currentV, currentE = c.PrevPair(currentV, currentE)
		}
	}
	return success
}

// endsCommute reports whether the single-qubit gate at the head of e
// commutes with the gate at its tail on that wire. The head must have no
// other in-edges of any kind.
func endsCommute(c *circuit.Circuit, e circuit.Edge) bool {
	src, dst := c.Source(e), c.Target(e)
	if c.NInEdges(dst) != 1 {
		return false
	}
	colour, ok := c.Op(dst).CommutingBasis(c.TargetPort(e))
	if !ok {
		return false
	}
	return c.Op(src).CommutesWithBasis(colour, c.SourcePort(e))
}
