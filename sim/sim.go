// Package sim provides a dense state-vector simulator for small circuits.
// It serves as the semantic oracle in tests and supplies the aggregate
// unitary of extracted two-qubit windows.
package sim

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/quantaforge/qdag/circuit"
	"github.com/quantaforge/qdag/ops"
)

// Matrix is a dense row-major complex matrix.
type Matrix [][]complex128

// Identity returns the dim x dim identity.
func Identity(dim int) Matrix {
	m := make(Matrix, dim)
	for i := range m {
		m[i] = make([]complex128, dim)
		m[i][i] = 1
	}
	return m
}

// Mul returns the matrix product a*b.
func Mul(a, b Matrix) Matrix {
	n := len(a)
	res := make(Matrix, n)
	for i := range res {
		res[i] = make([]complex128, n)
		for k := 0; k < n; k++ {
			if a[i][k] == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				res[i][j] += a[i][k] * b[k][j]
			}
		}
	}
	return res
}

// Scale returns s*m.
func Scale(s complex128, m Matrix) Matrix {
	res := make(Matrix, len(m))
	for i := range m {
		res[i] = make([]complex128, len(m[i]))
		for j := range m[i] {
			res[i][j] = s * m[i][j]
		}
	}
	return res
}

// State is a state vector over n qubits, qubit 0 the most significant bit
// of the basis index.
type State []complex128

// NewState returns the all-zeros computational basis state.
func NewState(nQubits int) State {
	s := make(State, 1<<uint(nQubits))
	s[0] = 1
	return s
}

// BasisState returns the computational basis state with the given index.
func BasisState(nQubits, index int) State {
	s := make(State, 1<<uint(nQubits))
	s[index] = 1
	return s
}

// ApplyMatrix applies a 2^k unitary to the given qubits of an n-qubit
// state, qubits[0] being the most significant index bit of the matrix.
func (s State) ApplyMatrix(u Matrix, qubits []int, nQubits int) {
	k := len(qubits)
	masks := make([]uint, k)
	full := uint(0)
	for i, q := range qubits {
		masks[i] = 1 << uint(nQubits-1-q)
		full |= masks[i]
	}
	dim := 1 << uint(k)
	scatter := make([]uint, dim)
	for j := 0; j < dim; j++ {
		idx := uint(0)
		for b := 0; b < k; b++ {
			if j&(1<<uint(k-1-b)) != 0 {
				idx |= masks[b]
			}
		}
		scatter[j] = idx
	}
	amp := make([]complex128, dim)
	for base := uint(0); base < uint(len(s)); base++ {
		if base&full != 0 {
			continue
		}
		for j := 0; j < dim; j++ {
			amp[j] = s[base|scatter[j]]
		}
		for j := 0; j < dim; j++ {
			var acc complex128
			for l := 0; l < dim; l++ {
				acc += u[j][l] * amp[l]
			}
			s[base|scatter[j]] = acc
		}
	}
}

// GateUnitary returns the 2^k unitary of a single operation. The operation
// must be a unitary gate with constant parameters.
func GateUnitary(op ops.Op) (Matrix, error) {
	angle := func(i int) (float64, error) {
		p := op.Params[i]
		if !p.IsConstant() {
			return 0, fmt.Errorf("%v has a symbolic parameter", op.Type)
		}
		return p.Const, nil
	}
	switch op.Type {
	case ops.H:
		h := complex(1/math.Sqrt2, 0)
		return Matrix{{h, h}, {h, -h}}, nil
	case ops.X:
		return Matrix{{0, 1}, {1, 0}}, nil
	case ops.Y:
		return Matrix{{0, -1i}, {1i, 0}}, nil
	case ops.Z:
		return Matrix{{1, 0}, {0, -1}}, nil
	case ops.S:
		return Matrix{{1, 0}, {0, 1i}}, nil
	case ops.Sdg:
		return Matrix{{1, 0}, {0, -1i}}, nil
	case ops.T:
		return Matrix{{1, 0}, {0, cis(0.25)}}, nil
	case ops.Tdg:
		return Matrix{{1, 0}, {0, cis(-0.25)}}, nil
	case ops.V:
		return rx(0.5), nil
	case ops.Vdg:
		return rx(-0.5), nil
	case ops.Rx:
		a, err := angle(0)
		if err != nil {
			return nil, err
		}
		return rx(a), nil
	case ops.Ry:
		a, err := angle(0)
		if err != nil {
			return nil, err
		}
		c, s := trig(a)
		return Matrix{{c, -s}, {s, c}}, nil
	case ops.Rz:
		a, err := angle(0)
		if err != nil {
			return nil, err
		}
		return Matrix{{cis(-a / 2), 0}, {0, cis(a / 2)}}, nil
	case ops.CX:
		return controlled(Matrix{{0, 1}, {1, 0}}), nil
	case ops.CY:
		return controlled(Matrix{{0, -1i}, {1i, 0}}), nil
	case ops.CZ:
		return controlled(Matrix{{1, 0}, {0, -1}}), nil
	case ops.SWAP:
		return Matrix{
			{1, 0, 0, 0},
			{0, 0, 1, 0},
			{0, 1, 0, 0},
			{0, 0, 0, 1},
		}, nil
	case ops.ZZMax:
		return zzPhase(0.5), nil
	case ops.ZZPhase:
		a, err := angle(0)
		if err != nil {
			return nil, err
		}
		return zzPhase(a), nil
	case ops.TK2:
		a, errA := angle(0)
		b, errB := angle(1)
		g, errC := angle(2)
		for _, err := range []error{errA, errB, errC} {
			if err != nil {
				return nil, err
			}
		}
		return tk2(a, b, g), nil
	case ops.NPhasedX:
		a, errA := angle(0)
		b, errB := angle(1)
		if errA != nil {
			return nil, errA
		}
		if errB != nil {
			return nil, errB
		}
		u1 := phasedX(a, b)
		res := Matrix{{1}}
		for i := 0; i < op.NumQubits(); i++ {
			res = kron(res, u1)
		}
		return res, nil
	case ops.CnX:
		n := op.NumQubits()
		dim := 1 << uint(n)
		res := Identity(dim)
		res[dim-2][dim-2], res[dim-2][dim-1] = 0, 1
		res[dim-1][dim-2], res[dim-1][dim-1] = 1, 0
		return res, nil
	}
	return nil, fmt.Errorf("%v has no unitary", op.Type)
}

// CircuitUnitary computes the full unitary of a purely-quantum circuit,
// global phase included. Boxes are expanded through their definitions.
func CircuitUnitary(c *circuit.Circuit) (Matrix, error) {
	n := c.NumQubits()
	if c.NumBits() != 0 {
		return nil, fmt.Errorf("circuit carries classical wires")
	}
	dim := 1 << uint(n)
	cols := make([]State, dim)
	for j := range cols {
		cols[j] = BasisState(n, j)
	}
	for _, cmd := range c.Commands() {
		u, qs, err := commandUnitary(cmd)
		if err != nil {
			return nil, err
		}
		if u == nil {
			continue
		}
		for j := range cols {
			cols[j].ApplyMatrix(u, qs, n)
		}
	}
	ph := cis(c.Phase())
	res := make(Matrix, dim)
	for i := range res {
		res[i] = make([]complex128, dim)
		for j := 0; j < dim; j++ {
			res[i][j] = ph * cols[j][i]
		}
	}
	return res, nil
}

// definer is implemented by boxes that can expand to a circuit.
type definer interface {
	Definition() *circuit.Circuit
}

func commandUnitary(cmd circuit.Command) (Matrix, []int, error) {
	op := cmd.Op
	if op.Type == ops.Barrier {
		return nil, nil, nil
	}
	if op.Type.IsBox() {
		d, ok := op.Box.(definer)
		if !ok {
			return nil, nil, fmt.Errorf("%v box has no circuit definition", op.Type)
		}
		u, err := CircuitUnitary(d.Definition())
		if err != nil {
			return nil, nil, err
		}
		return u, cmd.Qubits, nil
	}
	if !op.IsGate() {
		return nil, nil, fmt.Errorf("%v is not unitary", op.Type)
	}
	u, err := GateUnitary(op)
	if err != nil {
		return nil, nil, err
	}
	return u, cmd.Qubits, nil
}

// Equal reports element-wise equality within tolerance.
func Equal(a, b Matrix, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if cmplx.Abs(a[i][j]-b[i][j]) > tol {
				return false
			}
		}
	}
	return true
}

// EqualUpToPhase reports equality of two unitaries up to a global phase.
func EqualUpToPhase(a, b Matrix, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	// align on the largest entry of a
	var phase complex128
	mag := 0.0
	for i := range a {
		for j := range a[i] {
			if m := cmplx.Abs(a[i][j]); m > mag {
				mag = m
				if cmplx.Abs(b[i][j]) < tol {
					return false
				}
				phase = a[i][j] / b[i][j]
			}
		}
	}
	if mag == 0 {
		return Equal(a, b, tol)
	}
	phase /= complex(cmplx.Abs(phase), 0)
	return Equal(a, Scale(phase, b), tol)
}

// cis returns exp(i*pi*halfTurns).
func cis(halfTurns float64) complex128 {
	return cmplx.Exp(complex(0, math.Pi*halfTurns))
}

func trig(halfTurns float64) (complex128, complex128) {
	th := math.Pi * halfTurns / 2
	return complex(math.Cos(th), 0), complex(math.Sin(th), 0)
}

func rx(halfTurns float64) Matrix {
	c, s := trig(halfTurns)
	return Matrix{{c, -1i * s}, {-1i * s, c}}
}

// phasedX is Rz(beta) Rx(alpha) Rz(-beta).
func phasedX(alpha, beta float64) Matrix {
	rzPos := Matrix{{cis(-beta / 2), 0}, {0, cis(beta / 2)}}
	rzNeg := Matrix{{cis(beta / 2), 0}, {0, cis(-beta / 2)}}
	return Mul(rzPos, Mul(rx(alpha), rzNeg))
}

// kron is the Kronecker product, with a's indices most significant.
func kron(a, b Matrix) Matrix {
	n, m := len(a), len(b)
	res := make(Matrix, n*m)
	for i := range res {
		res[i] = make([]complex128, n*m)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < m; k++ {
				for l := 0; l < m; l++ {
					res[i*m+k][j*m+l] = a[i][j] * b[k][l]
				}
			}
		}
	}
	return res
}

func controlled(u Matrix) Matrix {
	return Matrix{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, u[0][0], u[0][1]},
		{0, 0, u[1][0], u[1][1]},
	}
}

func zzPhase(halfTurns float64) Matrix {
	p, m := cis(halfTurns/2), cis(-halfTurns/2)
	return Matrix{
		{m, 0, 0, 0},
		{0, p, 0, 0},
		{0, 0, p, 0},
		{0, 0, 0, m},
	}
}

// tk2 is exp(-i pi/2 (a XX + b YY + g ZZ)), evaluated factor by factor
// since the three terms commute.
func tk2(a, b, g float64) Matrix {
	xx := Matrix{
		{0, 0, 0, 1},
		{0, 0, 1, 0},
		{0, 1, 0, 0},
		{1, 0, 0, 0},
	}
	yy := Matrix{
		{0, 0, 0, -1},
		{0, 0, 1, 0},
		{0, 1, 0, 0},
		{-1, 0, 0, 0},
	}
	zz := Matrix{
		{1, 0, 0, 0},
		{0, -1, 0, 0},
		{0, 0, -1, 0},
		{0, 0, 0, 1},
	}
	res := pauliExp(a, xx)
	res = Mul(res, pauliExp(b, yy))
	res = Mul(res, pauliExp(g, zz))
	return res
}

// pauliExp is exp(-i pi/2 * halfTurns * p) for an involutive p.
func pauliExp(halfTurns float64, p Matrix) Matrix {
	c, s := trig(halfTurns)
	res := Scale(c, Identity(4))
	term := Scale(-1i*s, p)
	for i := range res {
		for j := range res[i] {
			res[i][j] += term[i][j]
		}
	}
	return res
}
