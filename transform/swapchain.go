package transform

import (
	"github.com/quantaforge/qdag/circuit"
	"github.com/quantaforge/qdag/logger"
	"github.com/quantaforge/qdag/ops"
)

// CommuteSQThroughSWAP pushes single-qubit gates along chains of SWAP gates
// onto the physical location where they fail least, according to the error
// model. Chains are rebuilt and resolved until no strictly better placement
// remains.
func CommuteSQThroughSWAP(model ErrorModel) Transform {
	return New(func(c *circuit.Circuit) bool {
		if e := logger.Logger().Trace(); e.Enabled() {
			e.Int("swaps", c.CountGates(ops.SWAP)).Msg("rebalancing gates over swap chains")
		}
		success := false
		for findRewireSQ(c, model) {
			success = true
		}
		return success
	})
}

// chainEntry is one candidate placement: the edge the gate could sit on and
// the fidelity it would achieve there.
type chainEntry struct {
	edge circuit.Edge
	fid  float64
}

// swapChain is the candidate placements for one movable single-qubit gate,
// anchored at the vertex currently holding it. Entry 0 is the current
// placement. Distinct chains never share an edge.
type swapChain struct {
	entries []chainEntry
	vert    circuit.Vertex
}

// findRewireSQ builds every swap chain in the circuit and moves each
// anchored gate to its strictly best placement. It reports whether any gate
// moved.
func findRewireSQ(c *circuit.Circuit, model ErrorModel) bool {
	var chains []*swapChain
	for _, cmd := range c.Commands() {
		if cmd.Op.Type != ops.SWAP {
			continue
		}
		v := cmd.Vertex
		nodes := cmd.Qubits
		preds := c.InEdgesOfType(v, ops.Quantum)
		posts := c.OutEdgesOfType(v, ops.Quantum)
		for i := 0; i < 2; i++ {
			pred := c.Source(preds[i])
			pOp := c.Op(pred)
			switch {
			case isMovableSingleQubit(c, pred):
				chains = append(chains, &swapChain{
					entries: []chainEntry{
						{preds[i], 1 - model.GetError(nodes[i], pOp.Type)},
						{posts[1-i], 1 - model.GetError(nodes[1-i], pOp.Type)},
					},
					vert: pred,
				})
			case pOp.Type == ops.SWAP:
				extendSwapChain(c, chains, preds[i], posts[1-i], nodes[1-i], model)
			}
		}
	}

	moved := false
	for _, ch := range chains {
		best := 0
		for i := 1; i < len(ch.entries); i++ {
			if ch.entries[i].fid > ch.entries[best].fid {
				best = i
			}
		}
		if best == 0 {
			continue
		}
		c.RemoveVertex(ch.vert, true, false)
		c.Rewire(ch.vert, []circuit.Edge{ch.entries[best].edge}, []ops.EdgeType{ops.Quantum})
		moved = true
	}
	return moved
}

// extendSwapChain continues the chain whose frontier is the edge between
// two adjacent SWAP gates with the placement past the second SWAP.
func extendSwapChain(c *circuit.Circuit, chains []*swapChain, linkEdge, nextEdge circuit.Edge, node int, model ErrorModel) {
	for _, ch := range chains {
		if ch.entries[len(ch.entries)-1].edge == linkEdge {
			t := c.Op(ch.vert).Type
			ch.entries = append(ch.entries, chainEntry{nextEdge, 1 - model.GetError(node, t)})
			return
		}
	}
}

// isMovableSingleQubit reports whether v holds an unconditioned unitary
// single-qubit gate.
func isMovableSingleQubit(c *circuit.Circuit, v circuit.Vertex) bool {
	op := c.Op(v)
	return op.IsGate() && op.NumQubits() == 1 && c.NInEdgesOfType(v, ops.Boolean) == 0
}
