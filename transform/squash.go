package transform

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/quantaforge/qdag/circuit"
	"github.com/quantaforge/qdag/logger"
	"github.com/quantaforge/qdag/ops"
)

// interaction is a maximal run of gates confined to one pair of qubits,
// tracked while scanning the circuit in time order. e0 and e1 are the edges
// entering the run on each qubit.
type interaction struct {
	q0, q1 int
	e0, e1 circuit.Edge
	count  int // two-qubit gates in the run
	verts  mapset.Set[circuit.Vertex]
}

// TwoQubitSquash aggregates every two-qubit interaction and re-synthesizes
// it through the given synthesizer when that reduces the count of target
// gates. The target must be CX or TK2 and the fidelity a probability.
func TwoQubitSquash(target ops.OpType, fidelity float64, allowSwaps bool, synth TwoQubitSynthesizer) (Transform, error) {
	if target != ops.CX && target != ops.TK2 {
		return Transform{}, fmt.Errorf("two-qubit squash: unsupported target %v", target)
	}
	if fidelity < 0 || fidelity > 1 {
		return Transform{}, fmt.Errorf("two-qubit squash: fidelity %g out of range", fidelity)
	}
	if synth == nil {
		return Transform{}, fmt.Errorf("two-qubit squash: nil synthesizer")
	}
	return New(func(c *circuit.Circuit) bool {
		return twoQubitSquash(c, target, fidelity, allowSwaps, synth)
	}), nil
}

func twoQubitSquash(c *circuit.Circuit, target ops.OpType, fidelity float64, allowSwaps bool, synth TwoQubitSynthesizer) bool {
	if e := logger.Logger().Trace(); e.Enabled() {
		e.Int("gates2q", c.CountTwoQubitGates()).Msg("squashing two-qubit interactions")
	}
	success := false
	bin := mapset.NewThreadUnsafeSet[circuit.Vertex]()

	type vertPort struct {
		v    circuit.Vertex
		port int
	}
	// wire carried into each vertex port, resolved once up front; vertices
	// introduced by substitutions are never looked up
	vToQb := make(map[vertPort]int)
	for e, q := range c.EdgeQubits() {
		vToQb[vertPort{c.Target(e), c.TargetPort(e)}] = q
	}

	currentEdge := make([]circuit.Edge, c.NumQubits())
	currentInteraction := make([]int, c.NumQubits())
	var iVec []*interaction
	for q := range currentEdge {
		currentEdge[q] = c.NthOutEdge(c.QIn(q), ops.Quantum, 0)
		currentInteraction[q] = -1
	}

	closeInteraction := func(q int) {
		i := currentInteraction[q]
		if i == -1 {
			return
		}
		in := iVec[i]
		if in.count >= 2 {
			if replaceTwoQubitInteraction(c, in, currentEdge, bin, target, fidelity, allowSwaps, synth) {
				success = true
			}
		}
		currentInteraction[in.q0] = -1
		currentInteraction[in.q1] = -1
	}
	openInteraction := func(v circuit.Vertex, q0, q1 int) {
		iVec = append(iVec, &interaction{
			q0: q0, q1: q1,
			e0: currentEdge[q0], e1: currentEdge[q1],
			count: 1,
			verts: mapset.NewThreadUnsafeSet(v),
		})
		currentInteraction[q0] = len(iVec) - 1
		currentInteraction[q1] = len(iVec) - 1
	}

	slices := c.Slices()
	rows := make([][]circuit.Vertex, 0, len(slices)+2)
	rows = append(rows, c.QInputs())
	rows = append(rows, slices...)
	rows = append(rows, c.QOutputs())

	for _, row := range rows {
		for _, v := range row {
			op := c.Op(v)
			t := op.Type
			if t.IsClassical() {
				continue
			}
			nIns := c.NInEdgesOfType(v, ops.Quantum)
			switch {
			case t.IsProjective() || t.IsFinal() || t == ops.Barrier || t == ops.Conditional ||
				t.IsBox() || nIns > 2 || op.HasSymbolicParams():
				// anything opaque to the 4x4 window closes its interactions
				for _, e := range c.InEdgesOfType(v, ops.Quantum) {
					q := vToQb[vertPort{v, c.TargetPort(e)}]
					closeInteraction(q)
					if !t.IsFinal() {
						currentEdge[q] = c.NextEdge(v, currentEdge[q])
					}
				}
			case nIns == 2:
				q0 := vToQb[vertPort{v, 0}]
				q1 := vToQb[vertPort{v, 1}]
				if currentInteraction[q0] != -1 && currentInteraction[q0] == currentInteraction[q1] {
					in := iVec[currentInteraction[q0]]
					in.count++
					in.verts.Add(v)
				} else {
					closeInteraction(q0)
					closeInteraction(q1)
					openInteraction(v, q0, q1)
				}
				currentEdge[q0] = c.NextEdge(v, currentEdge[q0])
				currentEdge[q1] = c.NextEdge(v, currentEdge[q1])
			default:
				for _, e := range c.InEdgesOfType(v, ops.Quantum) {
					q := vToQb[vertPort{v, c.TargetPort(e)}]
					currentEdge[q] = c.NextEdge(v, currentEdge[q])
					if i := currentInteraction[q]; i != -1 {
						iVec[i].verts.Add(v)
					}
				}
			}
		}
	}

	c.RemoveVertices(bin, false, true)
	if success {
		// substitutions may leave foldable single-qubit runs behind
		redundancyRemoval(c)
	}
	return success
}

// replaceTwoQubitInteraction extracts the interaction's window, asks the
// synthesizer for a canonical form, and substitutes it when that lowers the
// target-gate count. The frontier edges of both qubits are advanced past
// the substituted region.
func replaceTwoQubitInteraction(c *circuit.Circuit, in *interaction, currentEdge []circuit.Edge,
	bin mapset.Set[circuit.Vertex], target ops.OpType, fidelity float64, allowSwaps bool,
	synth TwoQubitSynthesizer) bool {

	inEdges := []circuit.Edge{in.e0, in.e1}
	outEdges := []circuit.Edge{currentEdge[in.q0], currentEdge[in.q1]}
	q0Ends := c.Op(c.Target(outEdges[0])).Type.IsFinal()
	q1Ends := c.Op(c.Target(outEdges[1])).Type.IsFinal()
	var next0, next1 circuit.Edge
	if !q0Ends {
		next0 = c.NextEdge(c.Target(outEdges[0]), outEdges[0])
	}
	if !q1Ends {
		next1 = c.NextEdge(c.Target(outEdges[1]), outEdges[1])
	}

	sub := circuit.Subcircuit{InEdges: inEdges, OutEdges: outEdges, Verts: in.verts}
	window := c.Extract(sub)
	repl, err := synth.Resynthesize(window, target, fidelity, allowSwaps)
	if err != nil {
		panic("two-qubit synthesis failed on a well-formed window: " + err.Error())
	}

	// substitute if the window holds a foreign two-qubit gate, or the
	// canonical form strictly wins on the target count
	substitute := false
	for _, v := range window.Vertices() {
		op := window.Op(v)
		if op.IsGate() && op.NumQubits() == 2 && op.Type != target {
			substitute = true
			break
		}
	}
	if !substitute {
		switch target {
		case ops.CX:
			substitute = repl.CountGates(ops.CX) < window.CountGates(ops.CX)
		case ops.TK2:
			// the canonical form carries at most one TK2
			substitute = window.CountTwoQubitGates() >= 2
		}
	}
	if !substitute {
		return false
	}

	bin.Append(in.verts.ToSlice()...)
	c.Substitute(repl, sub, false)
	if !q0Ends {
		currentEdge[in.q0] = c.LastEdge(c.Source(next0), next0)
	}
	if !q1Ends {
		currentEdge[in.q1] = c.LastEdge(c.Source(next1), next1)
	}
	return true
}
