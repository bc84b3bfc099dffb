package circuit

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/quantaforge/qdag/expr"
	"github.com/quantaforge/qdag/ops"
)

// snapshot is the flat serialized form of a circuit: the command list in
// time order plus the wire counts and global phase. Boxes and conditionals
// have no flat form and are rejected.
type snapshot struct {
	NumQubits int           `cbor:"1,keyasint"`
	NumBits   int           `cbor:"2,keyasint"`
	Phase     float64       `cbor:"3,keyasint"`
	Commands  []snapCommand `cbor:"4,keyasint"`
}

type snapCommand struct {
	Type   int        `cbor:"1,keyasint"`
	Params []snapExpr `cbor:"2,keyasint,omitempty"`
	Qubits []int      `cbor:"3,keyasint,omitempty"`
	Bits   []int      `cbor:"4,keyasint,omitempty"`
}

type snapExpr struct {
	Const float64     `cbor:"1,keyasint"`
	Terms []expr.Term `cbor:"2,keyasint,omitempty"`
}

// Serialize encodes the circuit as a CBOR snapshot.
func (c *Circuit) Serialize() ([]byte, error) {
	s := snapshot{
		NumQubits: c.NumQubits(),
		NumBits:   c.NumBits(),
		Phase:     c.phase,
	}
	for _, cmd := range c.Commands() {
		if cmd.Op.Type == ops.Conditional || cmd.Op.Type.IsBox() {
			return nil, fmt.Errorf("serialize: %v has no flat form", cmd.Op.Type)
		}
		sc := snapCommand{Type: int(cmd.Op.Type), Qubits: cmd.Qubits, Bits: cmd.Bits}
		for _, p := range cmd.Op.Params {
			sc.Params = append(sc.Params, snapExpr{Const: p.Const, Terms: p.Terms})
		}
		s.Commands = append(s.Commands, sc)
	}
	return cbor.Marshal(s)
}

// Deserialize decodes a CBOR snapshot back into a circuit.
func Deserialize(data []byte) (*Circuit, error) {
	var s snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	c := New(s.NumQubits, s.NumBits)
	for _, sc := range s.Commands {
		params := make([]expr.Expr, len(sc.Params))
		for i, p := range sc.Params {
			params[i] = expr.Expr{Const: p.Const, Terms: p.Terms}
		}
		t := ops.OpType(sc.Type)
		if !t.IsValid() {
			return nil, fmt.Errorf("deserialize: unknown operation kind %d", sc.Type)
		}
		if t.IsBoundary() || t == ops.Conditional || t.IsBox() {
			return nil, fmt.Errorf("deserialize: %v is not a command kind", t)
		}
		if t == ops.Measure {
			if len(sc.Qubits) != 1 || len(sc.Bits) != 1 {
				return nil, fmt.Errorf("deserialize: malformed measure command")
			}
			if _, err := c.AddMeasure(sc.Qubits[0], sc.Bits[0]); err != nil {
				return nil, err
			}
			continue
		}
		op, err := ops.New(t, params, len(sc.Qubits))
		if err != nil {
			return nil, err
		}
		if _, err := c.AddGate(op, sc.Qubits); err != nil {
			return nil, err
		}
	}
	c.AddPhase(s.Phase)
	return c, nil
}
