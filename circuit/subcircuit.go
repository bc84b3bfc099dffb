package circuit

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/quantaforge/qdag/ops"
)

// Subcircuit delimits a region of the DAG: the boundary edges entering it,
// the boundary edges leaving it (index-aligned: in-edge i and out-edge i
// lie on the same wire path), and the interior vertices. A wire whose
// region is empty uses the same edge as both its in- and out-edge.
type Subcircuit struct {
	InEdges  []Edge
	OutEdges []Edge
	Verts    mapset.Set[Vertex]
}

// SubcircuitOf delimits the region holding exactly the single vertex v.
func (c *Circuit) SubcircuitOf(v Vertex) Subcircuit {
	return Subcircuit{
		InEdges:  c.InEdgesOfType(v, ops.Quantum),
		OutEdges: c.OutEdgesOfType(v, ops.Quantum),
		Verts:    mapset.NewThreadUnsafeSet(v),
	}
}

// Extract builds an induced circuit view of a purely-quantum subcircuit
// region, with one qubit wire per boundary in-edge, in boundary order.
func (c *Circuit) Extract(sub Subcircuit) *Circuit {
	res := New(len(sub.InEdges), 0)
	// wire carried by each region edge
	wireOf := make(map[Edge]int)
	for i, e := range sub.InEdges {
		wireOf[e] = i
	}

	// a vertex is ready once every quantum in-edge has a known wire
	pending := sub.Verts.Clone()
	for pending.Cardinality() > 0 {
		progressed := false
		for _, v := range pending.ToSlice() {
			ins := c.InEdgesOfType(v, ops.Quantum)
			qubits := make([]int, 0, len(ins))
			ready := true
			for _, e := range ins {
				w, ok := wireOf[e]
				if !ok {
					ready = false
					break
				}
				qubits = append(qubits, w)
			}
			if !ready {
				continue
			}
			if _, err := res.AddGate(c.verts[v].op, qubits); err != nil {
				panic("extract: " + err.Error())
			}
			for port, e := range c.OutEdgesOfType(v, ops.Quantum) {
				wireOf[e] = qubits[port]
			}
			pending.Remove(v)
			progressed = true
		}
		if !progressed {
			panic("extract: subcircuit boundary is malformed")
		}
	}
	for i, e := range sub.OutEdges {
		if w, ok := wireOf[e]; !ok || w != i {
			panic("extract: out-edge does not continue boundary wire")
		}
	}
	return res
}

// Substitute replaces the delimited region with the replacement circuit,
// preserving port order at the boundary: replacement wire i is spliced
// between sub.InEdges[i] and sub.OutEdges[i]. The replacement must be
// purely quantum with exactly one wire per boundary edge pair. Old interior
// vertices are detached; they are deleted as well when del is set,
// otherwise left for a caller-managed bin. The replacement's global phase
// is added to the circuit.
func (c *Circuit) Substitute(repl *Circuit, sub Subcircuit, del bool) {
	if len(sub.InEdges) != len(sub.OutEdges) {
		panic("substitute: unbalanced boundary")
	}
	if repl.NumQubits() != len(sub.InEdges) || repl.NumBits() != 0 {
		panic(fmt.Sprintf("substitute: replacement has %d wires, boundary has %d",
			repl.NumQubits(), len(sub.InEdges)))
	}

	// heads of the out-edges, captured before any rewiring
	outDst := make([]Vertex, len(sub.OutEdges))
	outDstPort := make([]int, len(sub.OutEdges))
	// out-edges that are also in-edges (empty wire region); those cannot be
	// re-sourced in place and get a fresh edge instead
	shared := make([]bool, len(sub.OutEdges))
	inSet := mapset.NewThreadUnsafeSet(sub.InEdges...)
	for j, e := range sub.OutEdges {
		outDst[j] = c.edges[e].dst
		outDstPort[j] = c.edges[e].dstPort
		shared[j] = inSet.Contains(e)
	}

	// copy replacement interior vertices into the arena
	vmap := make(map[Vertex]Vertex)
	for _, rv := range repl.Vertices() {
		if repl.verts[rv].op.Type.IsBoundary() {
			continue
		}
		if repl.verts[rv].op.NumBits() != 0 || repl.verts[rv].op.NumBools() != 0 {
			panic("substitute: replacement is not purely quantum")
		}
		vmap[rv] = c.newVertex(repl.verts[rv].op)
	}

	type rEdge struct {
		srcIn, dstOut bool
		red           edgeData
	}
	var splice []rEdge
	for re := range repl.edges {
		red := repl.edges[re]
		if !red.alive || red.typ != ops.Quantum {
			continue
		}
		splice = append(splice, rEdge{
			srcIn:  repl.verts[red.src].op.Type.IsInitial(),
			dstOut: repl.verts[red.dst].op.Type.IsFinal(),
			red:    red,
		})
	}

	// interior-to-interior edges
	for _, s := range splice {
		if !s.srcIn && !s.dstOut {
			c.newEdge(ops.Quantum, vmap[s.red.src], s.red.srcPort, vmap[s.red.dst], s.red.dstPort)
		}
	}
	// entering edges: the old in-edge survives and is retargeted
	for _, s := range splice {
		if !s.srcIn {
			continue
		}
		i := repl.wireOfInput(s.red.src)
		in := sub.InEdges[i]
		if s.dstOut {
			j := repl.wireOfOutput(s.red.dst)
			if sub.OutEdges[j] == in {
				// empty region on an empty replacement wire: nothing moves
				continue
			}
			c.killEdge(sub.OutEdges[j])
			c.retarget(in, outDst[j], outDstPort[j])
		} else {
			c.retarget(in, vmap[s.red.dst], s.red.dstPort)
		}
	}
	// leaving edges: re-source the old out-edge, or replace it if its slot
	// was shared with an in-edge
	for _, s := range splice {
		if s.srcIn || !s.dstOut {
			continue
		}
		j := repl.wireOfOutput(s.red.dst)
		if shared[j] {
			c.newEdge(ops.Quantum, vmap[s.red.src], s.red.srcPort, outDst[j], outDstPort[j])
		} else {
			c.resource(sub.OutEdges[j], vmap[s.red.src], s.red.srcPort)
		}
	}

	// detach what is left of the old interior
	for _, v := range sub.Verts.ToSlice() {
		for _, e := range c.InEdges(v) {
			c.killEdge(e)
		}
		for _, e := range c.OutEdges(v) {
			c.killEdge(e)
		}
		if del {
			c.verts[v].alive = false
		}
	}
	c.AddPhase(repl.phase)
}

// SubstituteVertex replaces a single vertex with a circuit over its quantum
// boundary.
func (c *Circuit) SubstituteVertex(repl *Circuit, v Vertex, del bool) {
	c.Substitute(repl, c.SubcircuitOf(v), del)
}

func (c *Circuit) wireOfInput(v Vertex) int {
	for i, in := range c.qIn {
		if in == v {
			return i
		}
	}
	panic("vertex is not an input boundary")
}

func (c *Circuit) wireOfOutput(v Vertex) int {
	for i, out := range c.qOut {
		if out == v {
			return i
		}
	}
	panic("vertex is not an output boundary")
}
