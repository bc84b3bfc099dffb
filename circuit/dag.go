// Package circuit implements the mutable DAG representation of a quantum
// circuit: vertices holding operations, typed edges attached to ports, wire
// boundary vertices, and the structural edit primitives every optimization
// pass builds on.
package circuit

import (
	"fmt"

	"github.com/quantaforge/qdag/ops"
)

// Vertex is a stable index into the circuit's vertex arena. Indices survive
// detachment; slots are tombstoned on deletion, never reused.
type Vertex int

// Edge is a stable index into the circuit's edge arena.
type Edge int

const nilEdge Edge = -1

type vertexData struct {
	op    ops.Op
	inQ   []Edge // quantum in-edges by port
	outQ  []Edge // quantum out-edges by port
	inC   []Edge // classical in-edges by port
	outC  []Edge // classical out-edges by port
	inB   []Edge // boolean in-edges by port
	outB  []Edge // boolean fan-out reads, unordered
	alive bool
}

type edgeData struct {
	typ     ops.EdgeType
	src     Vertex
	srcPort int
	dst     Vertex
	dstPort int
	alive   bool
}

// Circuit owns a DAG of operation vertices plus one Input/Output boundary
// pair per declared wire, and accumulates a global phase in half-turns.
type Circuit struct {
	verts []vertexData
	edges []edgeData
	qIn   []Vertex
	qOut  []Vertex
	cIn   []Vertex
	cOut  []Vertex
	phase float64
}

// New returns a circuit with the given number of qubit and bit wires, each
// wire a single edge from its Input to its Output boundary.
func New(nQubits, nBits int) *Circuit {
	c := &Circuit{}
	for i := 0; i < nQubits; i++ {
		c.AddQubit()
	}
	for i := 0; i < nBits; i++ {
		c.AddBit()
	}
	return c
}

func (c *Circuit) newVertex(op ops.Op) Vertex {
	v := Vertex(len(c.verts))
	d := vertexData{op: op, alive: true}
	d.inQ = makePorts(op.NumQubits())
	d.outQ = makePorts(op.NumQubits())
	d.inC = makePorts(op.NumBits())
	d.outC = makePorts(op.NumBits())
	d.inB = makePorts(op.NumBools())
	c.verts = append(c.verts, d)
	return v
}

func makePorts(n int) []Edge {
	if n == 0 {
		return nil
	}
	s := make([]Edge, n)
	for i := range s {
		s[i] = nilEdge
	}
	return s
}

// AddQubit declares a new qubit wire and returns its index.
func (c *Circuit) AddQubit() int {
	in := c.newVertex(ops.Gate(ops.Input))
	out := c.newVertex(ops.Gate(ops.Output))
	c.newEdge(ops.Quantum, in, 0, out, 0)
	c.qIn = append(c.qIn, in)
	c.qOut = append(c.qOut, out)
	return len(c.qIn) - 1
}

// AddBit declares a new classical wire and returns its index.
func (c *Circuit) AddBit() int {
	in := c.newVertex(ops.Gate(ops.ClInput))
	out := c.newVertex(ops.Gate(ops.ClOutput))
	c.newEdge(ops.Classical, in, 0, out, 0)
	c.cIn = append(c.cIn, in)
	c.cOut = append(c.cOut, out)
	return len(c.cIn) - 1
}

func (c *Circuit) NumQubits() int { return len(c.qIn) }
func (c *Circuit) NumBits() int   { return len(c.cIn) }

// QIn returns the Input boundary vertex of qubit wire q.
func (c *Circuit) QIn(q int) Vertex { return c.qIn[q] }

// QOut returns the Output boundary vertex of qubit wire q.
func (c *Circuit) QOut(q int) Vertex { return c.qOut[q] }

// CIn returns the ClInput boundary vertex of bit wire b.
func (c *Circuit) CIn(b int) Vertex { return c.cIn[b] }

// COut returns the ClOutput boundary vertex of bit wire b.
func (c *Circuit) COut(b int) Vertex { return c.cOut[b] }

// Phase returns the accumulated global phase in half-turns, in [0, 2).
func (c *Circuit) Phase() float64 { return c.phase }

// AddPhase adds p half-turns to the global phase.
func (c *Circuit) AddPhase(p float64) {
	c.phase += p
	for c.phase >= 2 {
		c.phase -= 2
	}
	for c.phase < 0 {
		c.phase += 2
	}
}

// Op returns the operation held at v. Requesting a deleted vertex is a
// programming error.
func (c *Circuit) Op(v Vertex) ops.Op {
	if !c.alive(v) {
		panic(fmt.Sprintf("vertex %d is deleted", v))
	}
	return c.verts[v].op
}

// SetOp replaces the operation at v. The new operation must have the same
// signature as the old one.
func (c *Circuit) SetOp(v Vertex, op ops.Op) {
	old := &c.verts[v]
	if op.NumQubits() != old.op.NumQubits() || op.NumBits() != old.op.NumBits() ||
		op.NumBools() != old.op.NumBools() {
		panic("replacement op signature mismatch")
	}
	old.op = op
}

func (c *Circuit) alive(v Vertex) bool {
	return v >= 0 && int(v) < len(c.verts) && c.verts[v].alive
}

// Vertices returns all live vertices in arena order.
func (c *Circuit) Vertices() []Vertex {
	res := make([]Vertex, 0, len(c.verts))
	for i := range c.verts {
		if c.verts[i].alive {
			res = append(res, Vertex(i))
		}
	}
	return res
}

// NumVertices returns the number of live vertices, boundaries included.
func (c *Circuit) NumVertices() int {
	n := 0
	for i := range c.verts {
		if c.verts[i].alive {
			n++
		}
	}
	return n
}

func (c *Circuit) newEdge(t ops.EdgeType, src Vertex, srcPort int, dst Vertex, dstPort int) Edge {
	e := Edge(len(c.edges))
	c.edges = append(c.edges, edgeData{typ: t, src: src, srcPort: srcPort, dst: dst, dstPort: dstPort, alive: true})
	c.setOutSlot(src, t, srcPort, e)
	c.setInSlot(dst, t, dstPort, e)
	return e
}

func (c *Circuit) setInSlot(v Vertex, t ops.EdgeType, port int, e Edge) {
	d := &c.verts[v]
	switch t {
	case ops.Quantum:
		d.inQ[port] = e
	case ops.Classical:
		d.inC[port] = e
	case ops.Boolean:
		d.inB[port] = e
	}
}

func (c *Circuit) setOutSlot(v Vertex, t ops.EdgeType, port int, e Edge) {
	d := &c.verts[v]
	switch t {
	case ops.Quantum:
		d.outQ[port] = e
	case ops.Classical:
		d.outC[port] = e
	case ops.Boolean:
		if e != nilEdge {
			d.outB = append(d.outB, e)
		}
	}
}

func (c *Circuit) clearOutBool(v Vertex, e Edge) {
	d := &c.verts[v]
	for i, x := range d.outB {
		if x == e {
			d.outB = append(d.outB[:i], d.outB[i+1:]...)
			return
		}
	}
}

// retarget moves the head of e onto port dstPort of v.
func (c *Circuit) retarget(e Edge, v Vertex, dstPort int) {
	ed := &c.edges[e]
	c.setInSlot(ed.dst, ed.typ, ed.dstPort, nilEdge)
	ed.dst = v
	ed.dstPort = dstPort
	c.setInSlot(v, ed.typ, dstPort, e)
}

// resource moves the tail of e onto port srcPort of v.
func (c *Circuit) resource(e Edge, v Vertex, srcPort int) {
	ed := &c.edges[e]
	if ed.typ == ops.Boolean {
		c.clearOutBool(ed.src, e)
	} else {
		c.setOutSlot(ed.src, ed.typ, ed.srcPort, nilEdge)
	}
	ed.src = v
	ed.srcPort = srcPort
	c.setOutSlot(v, ed.typ, srcPort, e)
}

func (c *Circuit) killEdge(e Edge) {
	ed := &c.edges[e]
	if !ed.alive {
		return
	}
	if ed.typ == ops.Boolean {
		c.clearOutBool(ed.src, e)
	} else {
		c.setOutSlot(ed.src, ed.typ, ed.srcPort, nilEdge)
	}
	c.setInSlot(ed.dst, ed.typ, ed.dstPort, nilEdge)
	ed.alive = false
}

// Source returns the tail vertex of e.
func (c *Circuit) Source(e Edge) Vertex { return c.edges[e].src }

// Target returns the head vertex of e.
func (c *Circuit) Target(e Edge) Vertex { return c.edges[e].dst }

// SourcePort returns the port of e at its tail.
func (c *Circuit) SourcePort(e Edge) int { return c.edges[e].srcPort }

// TargetPort returns the port of e at its head.
func (c *Circuit) TargetPort(e Edge) int { return c.edges[e].dstPort }

// EdgeKind returns the edge type of e.
func (c *Circuit) EdgeKind(e Edge) ops.EdgeType { return c.edges[e].typ }

// InEdgesOfType returns the in-edges of the given type, in port order.
func (c *Circuit) InEdgesOfType(v Vertex, t ops.EdgeType) []Edge {
	d := &c.verts[v]
	switch t {
	case ops.Quantum:
		return liveEdges(d.inQ)
	case ops.Classical:
		return liveEdges(d.inC)
	default:
		return liveEdges(d.inB)
	}
}

// OutEdgesOfType returns the out-edges of the given type, in port order.
func (c *Circuit) OutEdgesOfType(v Vertex, t ops.EdgeType) []Edge {
	d := &c.verts[v]
	switch t {
	case ops.Quantum:
		return liveEdges(d.outQ)
	case ops.Classical:
		return liveEdges(d.outC)
	default:
		return liveEdges(d.outB)
	}
}

func liveEdges(s []Edge) []Edge {
	res := make([]Edge, 0, len(s))
	for _, e := range s {
		if e != nilEdge {
			res = append(res, e)
		}
	}
	return res
}

// InEdges returns all in-edges: quantum then classical then boolean.
func (c *Circuit) InEdges(v Vertex) []Edge {
	res := c.InEdgesOfType(v, ops.Quantum)
	res = append(res, c.InEdgesOfType(v, ops.Classical)...)
	res = append(res, c.InEdgesOfType(v, ops.Boolean)...)
	return res
}

// OutEdges returns all out-edges: quantum then classical then boolean.
func (c *Circuit) OutEdges(v Vertex) []Edge {
	res := c.OutEdgesOfType(v, ops.Quantum)
	res = append(res, c.OutEdgesOfType(v, ops.Classical)...)
	res = append(res, c.OutEdgesOfType(v, ops.Boolean)...)
	return res
}

// NInEdges returns the total live in-degree of v.
func (c *Circuit) NInEdges(v Vertex) int { return len(c.InEdges(v)) }

// NInEdgesOfType returns the live in-degree of v for one edge type.
func (c *Circuit) NInEdgesOfType(v Vertex, t ops.EdgeType) int {
	return len(c.InEdgesOfType(v, t))
}

// NOutEdgesOfType returns the live out-degree of v for one edge type.
func (c *Circuit) NOutEdgesOfType(v Vertex, t ops.EdgeType) int {
	return len(c.OutEdgesOfType(v, t))
}

// NthInEdge returns the in-edge of the given type at the given port.
func (c *Circuit) NthInEdge(v Vertex, t ops.EdgeType, port int) Edge {
	d := &c.verts[v]
	var e Edge
	switch t {
	case ops.Quantum:
		e = d.inQ[port]
	case ops.Classical:
		e = d.inC[port]
	default:
		e = d.inB[port]
	}
	if e == nilEdge {
		panic(fmt.Sprintf("vertex %d has no in-edge at %v port %d", v, t, port))
	}
	return e
}

// NthOutEdge returns the out-edge of the given type at the given port.
func (c *Circuit) NthOutEdge(v Vertex, t ops.EdgeType, port int) Edge {
	d := &c.verts[v]
	var e Edge
	switch t {
	case ops.Quantum:
		e = d.outQ[port]
	case ops.Classical:
		e = d.outC[port]
	default:
		panic("boolean out-edges are unordered")
	}
	if e == nilEdge {
		panic(fmt.Sprintf("vertex %d has no out-edge at %v port %d", v, t, port))
	}
	return e
}

// Predecessors returns the source vertices of v's quantum and classical
// in-edges, in port order.
func (c *Circuit) Predecessors(v Vertex) []Vertex {
	ins := c.InEdgesOfType(v, ops.Quantum)
	ins = append(ins, c.InEdgesOfType(v, ops.Classical)...)
	res := make([]Vertex, len(ins))
	for i, e := range ins {
		res[i] = c.edges[e].src
	}
	return res
}

// Successors returns the target vertices of v's quantum and classical
// out-edges, in port order.
func (c *Circuit) Successors(v Vertex) []Vertex {
	outs := c.OutEdgesOfType(v, ops.Quantum)
	outs = append(outs, c.OutEdgesOfType(v, ops.Classical)...)
	res := make([]Vertex, len(outs))
	for i, e := range outs {
		res[i] = c.edges[e].dst
	}
	return res
}

// NextEdge returns the out-edge of v continuing the wire that enters v via
// in-edge e (same type, source port equal to e's target port).
func (c *Circuit) NextEdge(v Vertex, e Edge) Edge {
	return c.NthOutEdge(v, c.edges[e].typ, c.edges[e].dstPort)
}

// LastEdge returns the in-edge of v continuing the wire that leaves v via
// out-edge e (same type, target port equal to e's source port).
func (c *Circuit) LastEdge(v Vertex, e Edge) Edge {
	return c.NthInEdge(v, c.edges[e].typ, c.edges[e].srcPort)
}

// PrevPair steps one vertex toward the circuit start along a wire: given v
// and its out-edge e, it returns v's predecessor on that wire and the
// in-edge reaching it.
func (c *Circuit) PrevPair(v Vertex, e Edge) (Vertex, Edge) {
	in := c.LastEdge(v, e)
	return c.edges[in].src, in
}
