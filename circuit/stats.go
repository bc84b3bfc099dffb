package circuit

import (
	"fmt"

	"github.com/quantaforge/qdag/ops"
)

// CountGates returns the number of live vertices holding the given kind.
func (c *Circuit) CountGates(t ops.OpType) int {
	n := 0
	for i := range c.verts {
		if c.verts[i].alive && c.verts[i].op.Type == t {
			n++
		}
	}
	return n
}

// NumGates returns the number of live non-boundary vertices.
func (c *Circuit) NumGates() int {
	n := 0
	for i := range c.verts {
		if c.verts[i].alive && !c.verts[i].op.Type.IsBoundary() {
			n++
		}
	}
	return n
}

// CountTwoQubitGates returns the number of live gates with quantum fan-in 2.
func (c *Circuit) CountTwoQubitGates() int {
	n := 0
	for i := range c.verts {
		if c.verts[i].alive && c.verts[i].op.IsGate() && c.verts[i].op.NumQubits() == 2 {
			n++
		}
	}
	return n
}

// Depth returns the number of time-ordered layers.
func (c *Circuit) Depth() int {
	return len(c.Slices())
}

// Check verifies the structural invariants of the DAG: per-type arity
// matches each operation's signature, edges agree with the port slots at
// both ends, every wire ends in its boundary pair, and the graph is
// acyclic. It returns the first violation found.
func (c *Circuit) Check() error {
	for i := range c.verts {
		d := &c.verts[i]
		if !d.alive {
			continue
		}
		v := Vertex(i)
		wantInQ := d.op.NumQubits()
		wantInC := d.op.NumBits()
		if d.op.Type.IsInitial() {
			wantInQ, wantInC = 0, 0
		}
		if n := len(liveEdges(d.inQ)); n != wantInQ {
			return fmt.Errorf("vertex %d (%v): quantum in-degree %d, want %d", v, d.op.Type, n, wantInQ)
		}
		if n := len(liveEdges(d.inC)); n != wantInC {
			return fmt.Errorf("vertex %d (%v): classical in-degree %d, want %d", v, d.op.Type, n, wantInC)
		}
		if n := len(liveEdges(d.inB)); n != d.op.NumBools() {
			return fmt.Errorf("vertex %d (%v): boolean in-degree %d, want %d", v, d.op.Type, n, d.op.NumBools())
		}
		wantOutQ := d.op.NumQubits()
		wantOutC := d.op.NumBits()
		if d.op.Type.IsFinal() {
			wantOutQ, wantOutC = 0, 0
		}
		if n := len(liveEdges(d.outQ)); n != wantOutQ {
			return fmt.Errorf("vertex %d (%v): quantum out-degree %d, want %d", v, d.op.Type, n, wantOutQ)
		}
		if n := len(liveEdges(d.outC)); n != wantOutC {
			return fmt.Errorf("vertex %d (%v): classical out-degree %d, want %d", v, d.op.Type, n, wantOutC)
		}
	}
	for i := range c.edges {
		ed := &c.edges[i]
		if !ed.alive {
			continue
		}
		if !c.alive(ed.src) || !c.alive(ed.dst) {
			return fmt.Errorf("edge %d touches a deleted vertex", i)
		}
		if ed.typ != ops.Boolean {
			if got := c.edgeSlot(ed.dst, ed.typ, ed.dstPort, true); got != Edge(i) {
				return fmt.Errorf("edge %d not registered at target port", i)
			}
			if got := c.edgeSlot(ed.src, ed.typ, ed.srcPort, false); got != Edge(i) {
				return fmt.Errorf("edge %d not registered at source port", i)
			}
		}
	}
	// Kahn count: anything left over sits on a cycle
	indeg := make(map[Vertex]int)
	var queue []Vertex
	for _, v := range c.Vertices() {
		indeg[v] = c.NInEdges(v)
		if indeg[v] == 0 {
			queue = append(queue, v)
		}
	}
	seen := 0
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		seen++
		for _, e := range c.OutEdges(v) {
			w := c.edges[e].dst
			indeg[w]--
			if indeg[w] == 0 {
				queue = append(queue, w)
			}
		}
	}
	if seen != c.NumVertices() {
		return fmt.Errorf("topological order covers %d of %d vertices", seen, c.NumVertices())
	}
	return nil
}

func (c *Circuit) edgeSlot(v Vertex, t ops.EdgeType, port int, in bool) Edge {
	d := &c.verts[v]
	var s []Edge
	switch t {
	case ops.Quantum:
		s = d.outQ
		if in {
			s = d.inQ
		}
	case ops.Classical:
		s = d.outC
		if in {
			s = d.inC
		}
	}
	if port >= len(s) {
		return nilEdge
	}
	return s[port]
}
