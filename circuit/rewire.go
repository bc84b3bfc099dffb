package circuit

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/quantaforge/qdag/ops"
)

// RemoveVertex detaches v from the graph. With rewire set, each wire
// through v is reconnected around it (the in-edge survives and is
// retargeted to the out-edge's head; the out-edge dies). With del set, the
// vertex slot is tombstoned; otherwise the vertex stays in the arena,
// detached, and can later be rewired back in or deleted in a batch.
//
// Rewiring a vertex holding boolean edges is a programming error: the
// passes screen those out before calling.
func (c *Circuit) RemoveVertex(v Vertex, rewire, del bool) {
	if !c.alive(v) {
		panic(fmt.Sprintf("removing deleted vertex %d", v))
	}
	if rewire {
		d := &c.verts[v]
		if len(liveEdges(d.inB)) != 0 || len(d.outB) != 0 {
			panic("cannot rewire vertex with boolean edges")
		}
		c.bypass(v, ops.Quantum)
		c.bypass(v, ops.Classical)
	} else {
		for _, e := range c.InEdges(v) {
			c.killEdge(e)
		}
		for _, e := range c.OutEdges(v) {
			c.killEdge(e)
		}
	}
	if del {
		c.verts[v].alive = false
	}
}

func (c *Circuit) bypass(v Vertex, t ops.EdgeType) {
	ins := c.InEdgesOfType(v, t)
	outs := c.OutEdgesOfType(v, t)
	if len(ins) != len(outs) {
		panic("rewiring vertex with unbalanced ports")
	}
	for i := range ins {
		in, out := ins[i], outs[i]
		dst, dstPort := c.edges[out].dst, c.edges[out].dstPort
		c.killEdge(out)
		c.retarget(in, dst, dstPort)
	}
}

// RemoveVertices applies RemoveVertex to every vertex in the set.
func (c *Circuit) RemoveVertices(bin mapset.Set[Vertex], rewire, del bool) {
	for _, v := range bin.ToSlice() {
		if c.alive(v) {
			c.RemoveVertex(v, rewire, del)
		}
	}
}

// Rewire splices the detached vertex v into the given edges, one per port
// in signature order of the given types. Each edge a->b becomes a->v->b.
// A signature mismatch is a programming error.
func (c *Circuit) Rewire(v Vertex, edges []Edge, types []ops.EdgeType) {
	if len(edges) != len(types) {
		panic("rewire: edges and types length mismatch")
	}
	d := &c.verts[v]
	if len(liveEdges(d.inQ))+len(liveEdges(d.inC))+len(liveEdges(d.inB)) != 0 {
		panic("rewire: vertex is not detached")
	}
	nq, nc := 0, 0
	for i, e := range edges {
		t := types[i]
		if c.edges[e].typ != t {
			panic("rewire: edge type mismatch")
		}
		var port int
		switch t {
		case ops.Quantum:
			port, nq = nq, nq+1
		case ops.Classical:
			port, nc = nc, nc+1
		default:
			panic("rewire: boolean edges are not rewirable")
		}
		dst, dstPort := c.edges[e].dst, c.edges[e].dstPort
		c.retarget(e, v, port)
		c.newEdge(t, v, port, dst, dstPort)
	}
	if nq != d.op.NumQubits() || nc != d.op.NumBits() {
		panic("rewire: port count does not match op signature")
	}
}
