package transform

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/quantaforge/qdag/circuit"
	"github.com/quantaforge/qdag/logger"
	"github.com/quantaforge/qdag/ops"
)

// RemoveRedundancies cancels identity gates, adjacent inverse pairs and
// same-axis rotation runs, and drops gates whose only observers are
// measurements commuting with them. Removal runs to a fixed point by
// re-examining the predecessors of everything removed.
func RemoveRedundancies() Transform {
	return New(redundancyRemoval)
}

func redundancyRemoval(c *circuit.Circuit) bool {
	if e := logger.Logger().Trace(); e.Enabled() {
		e.Int("gates", c.NumGates()).Msg("removing redundancies")
	}
	success := false
	bin := mapset.NewThreadUnsafeSet[circuit.Vertex]()
	worklist := c.Vertices()
	for len(worklist) > 0 {
		var affected []circuit.Vertex
		seen := mapset.NewThreadUnsafeSet[circuit.Vertex]()
		queue := func(v circuit.Vertex) {
			if !seen.Contains(v) {
				seen.Add(v)
				affected = append(affected, v)
			}
		}
		removed := false
		for _, v := range worklist {
			if bin.Contains(v) {
				continue
			}
			if removeRedundancy(c, v, bin, queue) {
				removed = true
			}
		}
		if !removed {
			break
		}
		success = true
		worklist = affected
	}
	c.RemoveVertices(bin, false, true)
	return success
}

// removeRedundancy tries each cancellation rule at v, reporting whether v
// (and possibly a partner) was detached or rewritten. Detached vertices go
// into bin; predecessors of anything removed are queued for re-examination.
func removeRedundancy(c *circuit.Circuit, v circuit.Vertex, bin mapset.Set[circuit.Vertex], queue func(circuit.Vertex)) bool {
	op := c.Op(v)
	if !op.IsGate() {
		return false
	}

	removeSingle := func(v circuit.Vertex) {
		bin.Add(v)
		for _, p := range c.Predecessors(v) {
			queue(p)
		}
		c.RemoveVertex(v, true, false)
	}

	if phase, ok := op.IsIdentity(); ok {
		removeSingle(v)
		c.AddPhase(phase)
		return true
	}

	// a gate observed only by measurements it commutes with is unobservable
	if c.NOutEdgesOfType(v, ops.Classical) == 0 && c.NInEdgesOfType(v, ops.Boolean) == 0 {
		commutes := true
		outs := c.OutEdgesOfType(v, ops.Quantum)
		if len(outs) == 0 {
			commutes = false
		}
		for _, e := range outs {
			succ := c.Op(c.Target(e))
			if succ.Type != ops.Measure || !op.CommutesWithBasis(ops.PauliZ, c.SourcePort(e)) {
				commutes = false
				break
			}
		}
		if commutes {
			removeSingle(v)
			return true
		}
	}

	succs := uniqueVertices(c.Successors(v))
	if len(succs) != 1 {
		return false
	}
	b := succs[0]
	if len(uniqueVertices(c.Predecessors(b))) != 1 {
		return false
	}
	// wires must pass straight through: port i of v into port i of b
	for _, e := range c.InEdges(b) {
		if c.SourcePort(e) != c.TargetPort(e) {
			return false
		}
	}
	if c.NInEdgesOfType(v, ops.Boolean) != 0 || c.NInEdgesOfType(b, ops.Boolean) != 0 {
		return false
	}
	bOp := c.Op(b)
	if bOp.IsOneway() {
		return false
	}

	if d, ok := bOp.Dagger(); ok && d.Equal(op) {
		bin.Add(v)
		bin.Add(b)
		for _, p := range c.Predecessors(v) {
			queue(p)
		}
		c.RemoveVertex(v, true, false)
		c.RemoveVertex(b, true, false)
		return true
	}

	if op.IsRotation() && bOp.Type == op.Type {
		for _, p := range c.Predecessors(v) {
			queue(p)
		}
		bin.Add(b)
		c.RemoveVertex(b, true, false)
		folded := ops.Rotation(op.Type, op.Params[0].Add(bOp.Params[0]))
		if phase, ok := folded.IsIdentity(); ok {
			bin.Add(v)
			c.RemoveVertex(v, true, false)
			c.AddPhase(phase)
		} else {
			c.SetOp(v, folded)
			queue(v)
		}
		return true
	}
	return false
}

func uniqueVertices(vs []circuit.Vertex) []circuit.Vertex {
	res := vs[:0:0]
	for _, v := range vs {
		dup := false
		for _, u := range res {
			if u == v {
				dup = true
				break
			}
		}
		if !dup {
			res = append(res, v)
		}
	}
	return res
}
