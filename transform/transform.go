// Package transform implements the optimization passes over the circuit
// DAG. Every pass mutates the circuit in place and reports whether it
// changed anything; the boolean drives fixed-point loops and pass
// pipelines. Passes communicate only through the shared DAG state.
package transform

import (
	"github.com/quantaforge/qdag/circuit"
	"github.com/quantaforge/qdag/ops"
)

// Transform is one in-place circuit rewrite.
type Transform struct {
	apply func(*circuit.Circuit) bool
}

// New wraps a rewrite function.
func New(apply func(*circuit.Circuit) bool) Transform {
	return Transform{apply: apply}
}

// Apply runs the transform and reports whether the circuit changed.
func (t Transform) Apply(c *circuit.Circuit) bool {
	return t.apply(c)
}

// Sequence runs the transforms in order; progress is the disjunction.
func Sequence(ts ...Transform) Transform {
	return New(func(c *circuit.Circuit) bool {
		success := false
		for _, t := range ts {
			success = t.apply(c) || success
		}
		return success
	})
}

// Repeat runs the transform until it reports no progress.
func Repeat(t Transform) Transform {
	return New(func(c *circuit.Circuit) bool {
		success := false
		for t.apply(c) {
			success = true
		}
		return success
	})
}

// TwoQubitSynthesizer re-expresses a two-qubit circuit in a canonical form
// for the requested target gate kind, optionally allowing a final implicit
// swap and weighting the decomposition by a gate fidelity in [0, 1]. It is
// an external collaborator: a synthesis failure on well-formed input is a
// fatal precondition violation for the caller.
type TwoQubitSynthesizer interface {
	Resynthesize(sub *circuit.Circuit, target ops.OpType, fidelity float64, allowSwaps bool) (*circuit.Circuit, error)
}

// ErrorModel supplies per-physical-location, per-operation-kind error
// probabilities in [0, 1].
type ErrorModel interface {
	GetError(node int, t ops.OpType) float64
}
