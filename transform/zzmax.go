package transform

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/quantaforge/qdag/circuit"
	"github.com/quantaforge/qdag/logger"
	"github.com/quantaforge/qdag/ops"
)

// CommuteAndCombineZZMax merges back-to-back ZZMax pairs into a pair of
// Rz(1) gates with a half-turn of global phase, and commutes Rz gates
// backwards through the ZZMax gates they follow.
func CommuteAndCombineZZMax() Transform {
	return New(commuteAndCombineZZMax)
}

func commuteAndCombineZZMax(c *circuit.Circuit) bool {
	if e := logger.Logger().Trace(); e.Enabled() {
		e.Int("zzmax", c.CountGates(ops.ZZMax)).Msg("combining ZZMax pairs")
	}
	success := false
	bin := mapset.NewThreadUnsafeSet[circuit.Vertex]()
	for _, v := range c.Vertices() {
		if bin.Contains(v) || c.Op(v).Type != ops.ZZMax {
			continue
		}
		outs := c.OutEdgesOfType(v, ops.Quantum)
		if len(outs) != 2 {
			continue
		}
		next0 := c.Target(outs[0])
		next1 := c.Target(outs[1])
		if next0 == next1 && c.Op(next0).Type == ops.ZZMax {
			// ZZMax . ZZMax = ZZPhase(1) = e^{i pi/2} Rz(1)xRz(1)
			success = true
			hIn := c.InEdgesOfType(v, ops.Quantum)
			hOut := c.OutEdgesOfType(next0, ops.Quantum)
			if c.TargetPort(outs[0]) != 0 {
				hOut[0], hOut[1] = hOut[1], hOut[0]
			}
			bin.Add(v)
			bin.Add(next0)
			repl := circuit.New(2, 0)
			repl.MustAddGate(circuit.Rotation(ops.Rz, 1), 0)
			repl.MustAddGate(circuit.Rotation(ops.Rz, 1), 1)
			sub := circuit.Subcircuit{
				InEdges:  hIn,
				OutEdges: hOut,
				Verts:    mapset.NewThreadUnsafeSet(v, next0),
			}
			c.Substitute(repl, sub, false)
			c.AddPhase(0.5)
			continue
		}
		if c.Op(next0).Type == ops.Rz {
			success = true
			c.RemoveVertex(next0, true, false)
			in0 := c.NthInEdge(v, ops.Quantum, 0)
			c.Rewire(next0, []circuit.Edge{in0}, []ops.EdgeType{ops.Quantum})
		}
		if c.Op(next1).Type == ops.Rz {
			success = true
			c.RemoveVertex(next1, true, false)
			in1 := c.NthInEdge(v, ops.Quantum, 1)
			c.Rewire(next1, []circuit.Edge{in1}, []ops.EdgeType{ops.Quantum})
		}
	}
	c.RemoveVertices(bin, false, true)
	return success
}
