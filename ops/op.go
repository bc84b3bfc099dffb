package ops

import (
	"fmt"
	"strings"

	"github.com/quantaforge/qdag/expr"
)

// Box is an opaque payload carried by box-kind operations. Payloads are
// immutable and may be shared between operations.
type Box interface {
	NQubits() int
}

// Op is one operation value. It is a closed tagged variant: the OpType
// selects which of the remaining fields are meaningful.
type Op struct {
	Type   OpType
	Params []expr.Expr
	// arity for variable-arity kinds (Barrier, NPhasedX, CnX, boxes)
	N int
	// Conditional payload
	Inner *Op
	Width int
	Value int
	// Box payload
	Box Box
}

// New constructs a validated operation value.
func New(t OpType, params []expr.Expr, n int) (Op, error) {
	info := &opTable[t]
	if info.nParams != len(params) {
		return Op{}, fmt.Errorf("%v expects %d parameters, got %d", t, info.nParams, len(params))
	}
	if info.nQubits >= 0 {
		n = info.nQubits
	} else if n < 1 {
		return Op{}, fmt.Errorf("%v needs an explicit arity", t)
	}
	if t == CnX && n < 2 {
		return Op{}, fmt.Errorf("CnX needs at least one control")
	}
	return Op{Type: t, Params: params, N: n}, nil
}

// MustNew is New for statically valid arguments; it panics on error.
func MustNew(t OpType, params []expr.Expr, n int) Op {
	op, err := New(t, params, n)
	if err != nil {
		panic(err.Error())
	}
	return op
}

// Gate returns a parameter-free fixed-arity gate.
func Gate(t OpType) Op {
	return MustNew(t, nil, 0)
}

// Rotation returns a single-parameter rotation of the given kind.
func Rotation(t OpType, angle expr.Expr) Op {
	return MustNew(t, []expr.Expr{angle}, 0)
}

// NewConditional wraps an operation so it executes only when width boolean
// wires read the given value.
func NewConditional(inner Op, width, value int) Op {
	in := inner
	return Op{Type: Conditional, Inner: &in, Width: width, Value: value, N: inner.NumQubits()}
}

// NumQubits returns the number of quantum ports.
func (op Op) NumQubits() int {
	info := &opTable[op.Type]
	if info.nQubits >= 0 {
		return info.nQubits
	}
	if op.Type == Conditional {
		return op.Inner.NumQubits()
	}
	if op.Box != nil {
		return op.Box.NQubits()
	}
	return op.N
}

// NumBits returns the number of classical ports.
func (op Op) NumBits() int {
	if op.Type == Conditional {
		return op.Inner.NumBits()
	}
	return opTable[op.Type].nBits
}

// NumBools returns the number of boolean condition ports.
func (op Op) NumBools() int {
	if op.Type == Conditional {
		return op.Width
	}
	return 0
}

// Signature returns the ordered port types: booleans first, then quantum,
// then classical.
func (op Op) Signature() []EdgeType {
	sig := make([]EdgeType, 0, op.NumBools()+op.NumQubits()+op.NumBits())
	for i := 0; i < op.NumBools(); i++ {
		sig = append(sig, Boolean)
	}
	for i := 0; i < op.NumQubits(); i++ {
		sig = append(sig, Quantum)
	}
	for i := 0; i < op.NumBits(); i++ {
		sig = append(sig, Classical)
	}
	return sig
}

func (op Op) IsGate() bool {
	return opTable[op.Type].gate
}

func (op Op) IsOneway() bool {
	return opTable[op.Type].oneway
}

func (op Op) IsRotation() bool {
	return opTable[op.Type].rotation
}

// HasSymbolicParams reports whether any parameter has free symbols.
func (op Op) HasSymbolicParams() bool {
	for _, p := range op.Params {
		if !p.IsConstant() {
			return true
		}
	}
	return false
}

// IsIdentity reports whether the operation acts as the identity, returning
// the global phase (in half-turns) it contributes.
func (op Op) IsIdentity() (float64, bool) {
	if op.IsRotation() {
		a := op.Params[0]
		if !a.IsConstant() {
			return 0, false
		}
		if a.EquivZero(4) {
			return 0, true
		}
		if a.EquivMod(expr.Constant(2), 4) {
			return 1, true
		}
		return 0, false
	}
	if op.Type == TK2 {
		for _, p := range op.Params {
			if !p.IsConstant() || !p.EquivZero(4) {
				return 0, false
			}
		}
		return 0, true
	}
	return 0, false
}

// Dagger returns the algebraic inverse, if it is expressible in the closed
// operation set.
func (op Op) Dagger() (Op, bool) {
	info := &opTable[op.Type]
	if info.dagger == noDagger {
		return Op{}, false
	}
	if len(op.Params) == 0 {
		res := op
		res.Type = info.dagger
		return res, true
	}
	// parametrized kinds invert by negating every angle
	res := op
	res.Params = make([]expr.Expr, len(op.Params))
	for i, p := range op.Params {
		res.Params[i] = p.Neg()
	}
	return res, true
}

// Equal compares two operation values structurally.
func (op Op) Equal(o Op) bool {
	if op.Type != o.Type || op.NumQubits() != o.NumQubits() || len(op.Params) != len(o.Params) {
		return false
	}
	for i := range op.Params {
		if !op.Params[i].Equal(o.Params[i]) {
			return false
		}
	}
	if op.Type == Conditional {
		return op.Width == o.Width && op.Value == o.Value && op.Inner.Equal(*o.Inner)
	}
	if op.Type.IsBox() {
		return op.Box == o.Box
	}
	return true
}

// CommutingBasis returns the Pauli basis the operation commutes with at the
// given quantum port, if it has one.
func (op Op) CommutingBasis(port int) (Pauli, bool) {
	if op.Type == CnX {
		if port == op.N-1 {
			return PauliX, true
		}
		return PauliZ, true
	}
	basis := opTable[op.Type].basis
	if len(basis) == 0 {
		return PauliI, false
	}
	if port >= len(basis) {
		panic("port out of range for commuting basis")
	}
	return basis[port], true
}

// CommutesWithBasis reports whether the operation commutes with the given
// Pauli basis at the given quantum port.
func (op Op) CommutesWithBasis(basis Pauli, port int) bool {
	if basis == PauliI {
		return true
	}
	b, ok := op.CommutingBasis(port)
	return ok && b == basis
}

func (op Op) String() string {
	if op.Type == Conditional {
		return fmt.Sprintf("IF(%d==%d) %s", op.Width, op.Value, op.Inner.String())
	}
	if len(op.Params) == 0 {
		return op.Type.String()
	}
	ps := make([]string, len(op.Params))
	for i, p := range op.Params {
		ps[i] = p.String()
	}
	return op.Type.String() + "(" + strings.Join(ps, ",") + ")"
}
