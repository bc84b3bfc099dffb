package circuit

import (
	"fmt"
	"strings"

	"github.com/quantaforge/qdag/expr"
	"github.com/quantaforge/qdag/ops"
)

// AddGate appends op to the end of the circuit, acting on the given qubit
// wires in port order, and returns the new vertex.
func (c *Circuit) AddGate(op ops.Op, qubits []int) (Vertex, error) {
	if op.NumBits() != 0 || op.NumBools() != 0 {
		return 0, fmt.Errorf("AddGate: %v carries non-quantum ports", op.Type)
	}
	if err := c.checkQubitArgs(op, qubits); err != nil {
		return 0, err
	}
	v := c.newVertex(op)
	for port, q := range qubits {
		c.spliceBeforeOut(v, ops.Quantum, port, c.qOut[q])
	}
	return v, nil
}

// MustAddGate is AddGate for statically valid arguments.
func (c *Circuit) MustAddGate(op ops.Op, qubits ...int) Vertex {
	v, err := c.AddGate(op, qubits)
	if err != nil {
		panic(err.Error())
	}
	return v
}

// AddMeasure appends a Z-basis measurement of qubit q into bit b.
func (c *Circuit) AddMeasure(q, b int) (Vertex, error) {
	if q < 0 || q >= c.NumQubits() || b < 0 || b >= c.NumBits() {
		return 0, fmt.Errorf("AddMeasure: wire out of range")
	}
	v := c.newVertex(ops.Gate(ops.Measure))
	c.spliceBeforeOut(v, ops.Quantum, 0, c.qOut[q])
	c.spliceBeforeOut(v, ops.Classical, 0, c.cOut[b])
	return v, nil
}

// AddConditional appends op conditioned on the current values of the given
// bits. The boolean in-edges fan out from each bit's last writer without
// consuming the classical wire.
func (c *Circuit) AddConditional(inner ops.Op, value int, qubits []int, bits []int) (Vertex, error) {
	op := ops.NewConditional(inner, len(bits), value)
	if err := c.checkQubitArgs(op, qubits); err != nil {
		return 0, err
	}
	v := c.newVertex(op)
	for port, b := range bits {
		if b < 0 || b >= c.NumBits() {
			return 0, fmt.Errorf("AddConditional: bit out of range")
		}
		frontier := c.verts[c.cOut[b]].inC[0]
		src, srcPort := c.edges[frontier].src, c.edges[frontier].srcPort
		c.newEdge(ops.Boolean, src, srcPort, v, port)
	}
	for port, q := range qubits {
		c.spliceBeforeOut(v, ops.Quantum, port, c.qOut[q])
	}
	return v, nil
}

// AddBox appends a box operation over the given qubit wires.
func (c *Circuit) AddBox(t ops.OpType, box ops.Box, qubits []int) (Vertex, error) {
	if !t.IsBox() {
		return 0, fmt.Errorf("AddBox: %v is not a box kind", t)
	}
	op := ops.Op{Type: t, Box: box, N: box.NQubits()}
	if err := c.checkQubitArgs(op, qubits); err != nil {
		return 0, err
	}
	v := c.newVertex(op)
	for port, q := range qubits {
		c.spliceBeforeOut(v, ops.Quantum, port, c.qOut[q])
	}
	return v, nil
}

func (c *Circuit) checkQubitArgs(op ops.Op, qubits []int) error {
	if len(qubits) != op.NumQubits() {
		return fmt.Errorf("%v expects %d qubits, got %d", op.Type, op.NumQubits(), len(qubits))
	}
	seen := map[int]bool{}
	for _, q := range qubits {
		if q < 0 || q >= c.NumQubits() {
			return fmt.Errorf("qubit %d out of range", q)
		}
		if seen[q] {
			return fmt.Errorf("duplicate qubit %d", q)
		}
		seen[q] = true
	}
	return nil
}

// spliceBeforeOut inserts port `port` of v into the wire just before the
// given Output boundary vertex.
func (c *Circuit) spliceBeforeOut(v Vertex, t ops.EdgeType, port int, out Vertex) {
	frontier := c.NthInEdge(out, t, 0)
	c.retarget(frontier, v, port)
	c.newEdge(t, v, port, out, 0)
}

// Append replays every command of other onto c, wire i of other mapping to
// wire i of c, and adds other's global phase.
func (c *Circuit) Append(other *Circuit) error {
	if other.NumQubits() > c.NumQubits() || other.NumBits() > c.NumBits() {
		return fmt.Errorf("append: circuit has fewer wires than appendee")
	}
	for _, cmd := range other.Commands() {
		switch {
		case cmd.Op.Type == ops.Measure:
			if _, err := c.AddMeasure(cmd.Qubits[0], cmd.Bits[0]); err != nil {
				return err
			}
		case cmd.Op.Type == ops.Conditional:
			return fmt.Errorf("append: conditionals are not supported")
		case cmd.Op.Type.IsBox():
			if _, err := c.AddBox(cmd.Op.Type, cmd.Op.Box, cmd.Qubits); err != nil {
				return err
			}
		default:
			if _, err := c.AddGate(cmd.Op, cmd.Qubits); err != nil {
				return err
			}
		}
	}
	c.AddPhase(other.phase)
	return nil
}

// Command is one operation with its resolved wire arguments, in time order.
type Command struct {
	Op     ops.Op
	Qubits []int
	Bits   []int
	Vertex Vertex
}

// Commands returns the circuit's operations in topological time order with
// wire arguments resolved by following port paths from the input
// boundaries.
func (c *Circuit) Commands() []Command {
	edgeWire := c.edgeWires()
	var res []Command
	for _, v := range c.VerticesInOrder() {
		op := c.verts[v].op
		if op.Type.IsBoundary() {
			continue
		}
		cmd := Command{Op: op, Vertex: v}
		for _, e := range c.InEdgesOfType(v, ops.Quantum) {
			cmd.Qubits = append(cmd.Qubits, edgeWire[e])
		}
		for _, e := range c.InEdgesOfType(v, ops.Classical) {
			cmd.Bits = append(cmd.Bits, edgeWire[e])
		}
		res = append(res, cmd)
	}
	return res
}

// edgeWires labels every quantum and classical edge with the wire index of
// the path it lies on, walking each wire from its input boundary.
func (c *Circuit) edgeWires() map[Edge]int {
	res := make(map[Edge]int, len(c.edges))
	for q, in := range c.qIn {
		e := c.NthOutEdge(in, ops.Quantum, 0)
		for {
			res[e] = q
			v := c.Target(e)
			if c.verts[v].op.Type.IsFinal() {
				break
			}
			e = c.NextEdge(v, e)
		}
	}
	for b, in := range c.cIn {
		e := c.NthOutEdge(in, ops.Classical, 0)
		for {
			res[e] = b
			v := c.Target(e)
			if c.verts[v].op.Type.IsFinal() {
				break
			}
			e = c.NextEdge(v, e)
		}
	}
	return res
}

// EdgeQubits labels every quantum edge with its wire index.
func (c *Circuit) EdgeQubits() map[Edge]int {
	res := make(map[Edge]int)
	for e, q := range c.edgeWires() {
		if c.edges[e].typ == ops.Quantum {
			res[e] = q
		}
	}
	return res
}

// VerticesInOrder returns all live vertices topologically sorted; inputs
// first, outputs last. The graph being acyclic is an invariant: leftover
// vertices mean an engine bug.
func (c *Circuit) VerticesInOrder() []Vertex {
	indeg := make([]int, len(c.verts))
	var order []Vertex
	var queue []Vertex
	for i := range c.verts {
		if !c.verts[i].alive {
			continue
		}
		indeg[i] = len(c.InEdges(Vertex(i)))
		if indeg[i] == 0 {
			queue = append(queue, Vertex(i))
		}
	}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		order = append(order, v)
		for _, e := range c.OutEdges(v) {
			w := c.edges[e].dst
			indeg[w]--
			if indeg[w] == 0 {
				queue = append(queue, w)
			}
		}
	}
	if len(order) != c.NumVertices() {
		panic("circuit DAG contains a cycle")
	}
	return order
}

// Rotation is shorthand for a rotation gate op.
func Rotation(t ops.OpType, halfTurns float64) ops.Op {
	return ops.Rotation(t, expr.Constant(halfTurns))
}

func (c *Circuit) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "circuit %d qubits %d bits phase=%g\n", c.NumQubits(), c.NumBits(), c.phase)
	for _, cmd := range c.Commands() {
		fmt.Fprintf(&b, "  %s q%v", cmd.Op.String(), cmd.Qubits)
		if len(cmd.Bits) > 0 {
			fmt.Fprintf(&b, " c%v", cmd.Bits)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
