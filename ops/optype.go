// Package ops defines the closed set of operation kinds and the capability
// table the optimization passes query. Passes never inspect concrete kinds
// beyond what the table exposes.
package ops

// EdgeType distinguishes the three wire kinds in the circuit DAG.
type EdgeType int

const (
	Quantum EdgeType = iota
	Classical
	Boolean
)

// Pauli is a single-qubit commutation basis.
type Pauli int

const (
	PauliI Pauli = iota
	PauliX
	PauliY
	PauliZ
)

// OpType enumerates every operation kind in the system.
type OpType int

const (
	Input OpType = iota
	Output
	ClInput
	ClOutput
	H
	X
	Y
	Z
	S
	Sdg
	T
	Tdg
	V
	Vdg
	Rx
	Ry
	Rz
	CX
	CY
	CZ
	SWAP
	ZZMax
	ZZPhase
	TK2
	NPhasedX
	CnX
	Measure
	Reset
	Barrier
	Conditional
	CircBox
	PermBox
	numOpTypes
)

type opInfo struct {
	name     string
	nQubits  int // -1: variable arity
	nBits    int
	nParams  int
	gate     bool // unitary gate, eligible for redundancy rewrites
	oneway   bool // cannot be reasoned about via dagger equality
	rotation bool // single-parameter rotation, foldable by angle addition
	dagger   OpType
	// commuting basis per quantum port; empty means none
	basis []Pauli
}

const noDagger OpType = -1

var opTable = [numOpTypes]opInfo{
	Input:    {name: "Input", nQubits: 1, oneway: true, dagger: noDagger},
	Output:   {name: "Output", nQubits: 1, oneway: true, dagger: noDagger},
	ClInput:  {name: "ClInput", nBits: 1, oneway: true, dagger: noDagger},
	ClOutput: {name: "ClOutput", nBits: 1, oneway: true, dagger: noDagger},

	H:   {name: "H", nQubits: 1, gate: true, dagger: H},
	X:   {name: "X", nQubits: 1, gate: true, dagger: X, basis: []Pauli{PauliX}},
	Y:   {name: "Y", nQubits: 1, gate: true, dagger: Y, basis: []Pauli{PauliY}},
	Z:   {name: "Z", nQubits: 1, gate: true, dagger: Z, basis: []Pauli{PauliZ}},
	S:   {name: "S", nQubits: 1, gate: true, dagger: Sdg, basis: []Pauli{PauliZ}},
	Sdg: {name: "Sdg", nQubits: 1, gate: true, dagger: S, basis: []Pauli{PauliZ}},
	T:   {name: "T", nQubits: 1, gate: true, dagger: Tdg, basis: []Pauli{PauliZ}},
	Tdg: {name: "Tdg", nQubits: 1, gate: true, dagger: T, basis: []Pauli{PauliZ}},
	V:   {name: "V", nQubits: 1, gate: true, dagger: Vdg, basis: []Pauli{PauliX}},
	Vdg: {name: "Vdg", nQubits: 1, gate: true, dagger: V, basis: []Pauli{PauliX}},

	Rx: {name: "Rx", nQubits: 1, nParams: 1, gate: true, rotation: true, dagger: Rx, basis: []Pauli{PauliX}},
	Ry: {name: "Ry", nQubits: 1, nParams: 1, gate: true, rotation: true, dagger: Ry, basis: []Pauli{PauliY}},
	Rz: {name: "Rz", nQubits: 1, nParams: 1, gate: true, rotation: true, dagger: Rz, basis: []Pauli{PauliZ}},

	CX:      {name: "CX", nQubits: 2, gate: true, dagger: CX, basis: []Pauli{PauliZ, PauliX}},
	CY:      {name: "CY", nQubits: 2, gate: true, dagger: CY, basis: []Pauli{PauliZ, PauliY}},
	CZ:      {name: "CZ", nQubits: 2, gate: true, dagger: CZ, basis: []Pauli{PauliZ, PauliZ}},
	SWAP:    {name: "SWAP", nQubits: 2, gate: true, dagger: SWAP},
	ZZMax:   {name: "ZZMax", nQubits: 2, gate: true, dagger: noDagger, basis: []Pauli{PauliZ, PauliZ}},
	ZZPhase: {name: "ZZPhase", nQubits: 2, nParams: 1, gate: true, rotation: true, dagger: ZZPhase, basis: []Pauli{PauliZ, PauliZ}},
	TK2:     {name: "TK2", nQubits: 2, nParams: 3, gate: true, dagger: TK2},

	NPhasedX: {name: "NPhasedX", nQubits: -1, nParams: 2, gate: true, dagger: noDagger},
	CnX:      {name: "CnX", nQubits: -1, gate: true, dagger: CnX},

	Measure:     {name: "Measure", nQubits: 1, nBits: 1, oneway: true, dagger: noDagger, basis: []Pauli{PauliZ}},
	Reset:       {name: "Reset", nQubits: 1, oneway: true, dagger: noDagger},
	Barrier:     {name: "Barrier", nQubits: -1, oneway: true, dagger: noDagger},
	Conditional: {name: "Conditional", nQubits: -1, oneway: true, dagger: noDagger},
	CircBox:     {name: "CircBox", nQubits: -1, oneway: true, dagger: noDagger},
	PermBox:     {name: "PermBox", nQubits: -1, oneway: true, dagger: noDagger},
}

func (t OpType) String() string {
	if t < 0 || t >= numOpTypes {
		return "OpType(?)"
	}
	return opTable[t].name
}

// IsValid reports whether t names a known operation kind.
func (t OpType) IsValid() bool {
	return t >= 0 && t < numOpTypes
}

// TypeByName resolves an operation kind from its name.
func TypeByName(name string) (OpType, bool) {
	for t := OpType(0); t < numOpTypes; t++ {
		if opTable[t].name == name {
			return t, true
		}
	}
	return 0, false
}

// IsBoundary reports whether the kind is a wire boundary marker.
func (t OpType) IsBoundary() bool {
	return t == Input || t == Output || t == ClInput || t == ClOutput
}

// IsFinal reports whether the kind terminates a wire.
func (t OpType) IsFinal() bool {
	return t == Output || t == ClOutput
}

// IsInitial reports whether the kind starts a wire.
func (t OpType) IsInitial() bool {
	return t == Input || t == ClInput
}

// IsClassical reports whether the kind acts on classical data only.
func (t OpType) IsClassical() bool {
	return t == ClInput || t == ClOutput
}

// IsProjective reports whether the kind collapses quantum state.
func (t OpType) IsProjective() bool {
	return t == Measure || t == Reset
}

// IsBox reports whether the kind wraps an opaque payload.
func (t OpType) IsBox() bool {
	return t == CircBox || t == PermBox
}
