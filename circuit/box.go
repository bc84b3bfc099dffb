package circuit

import (
	"fmt"

	"github.com/quantaforge/qdag/ops"
)

// CircBox wraps a circuit fragment as a single opaque operation. The
// defining circuit is shared and must not be mutated; Definition returns a
// copy for callers that want to edit it.
type CircBox struct {
	circ *Circuit
}

// NewCircBox wraps the given purely-quantum circuit. The circuit value is
// owned by the box afterwards.
func NewCircBox(c *Circuit) (*CircBox, error) {
	if c.NumBits() != 0 {
		return nil, fmt.Errorf("circ box must be purely quantum")
	}
	return &CircBox{circ: c}, nil
}

// NQubits implements ops.Box.
func (b *CircBox) NQubits() int {
	return b.circ.NumQubits()
}

// Definition returns a fresh mutable copy of the defining circuit.
func (b *CircBox) Definition() *Circuit {
	res := New(b.circ.NumQubits(), 0)
	if err := res.Append(b.circ); err != nil {
		panic("circ box definition is not replayable: " + err.Error())
	}
	return res
}

// Op returns the box wrapped as an operation value.
func (b *CircBox) Op() ops.Op {
	return ops.Op{Type: ops.CircBox, Box: b, N: b.NQubits()}
}
