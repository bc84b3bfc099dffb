package transform

import (
	"math"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/quantaforge/qdag/circuit"
	"github.com/quantaforge/qdag/expr"
	"github.com/quantaforge/qdag/logger"
	"github.com/quantaforge/qdag/ops"
)

// AbsorbRzNPhasedX folds Rz rotations surrounding each NPhasedX gate into
// its phase parameter. The absorbed angle is the one occurring most often
// among the neighbouring rotations (incoming ones negated), so that as many
// of them as possible disappear; the rest are compensated in place.
func AbsorbRzNPhasedX() Transform {
	return New(absorbRzNPhasedX)
}

func absorbRzNPhasedX(c *circuit.Circuit) bool {
	if e := logger.Logger().Trace(); e.Enabled() {
		e.Int("gates", c.CountGates(ops.NPhasedX)).Msg("absorbing Rz into NPhasedX")
	}
	// fold adjacent rotation runs first so each wire carries at most one Rz
	success := redundancyRemoval(c)
	allBins := mapset.NewThreadUnsafeSet[circuit.Vertex]()

	for _, v := range c.Vertices() {
		if c.Op(v).Type != ops.NPhasedX {
			continue
		}
		op := c.Op(v)
		arity := op.NumQubits()
		inEdges := c.InEdgesOfType(v, ops.Quantum)
		outEdges := c.OutEdgesOfType(v, ops.Quantum)

		// candidate angles: negated Rz before each wire, Rz after each wire
		angles := make([]expr.Expr, 0, 2*arity)
		for _, e := range inEdges {
			pred := c.Op(c.Source(e))
			if pred.Type == ops.Rz {
				angles = append(angles, pred.Params[0].Neg())
			} else {
				angles = append(angles, expr.Constant(0))
			}
		}
		for _, e := range outEdges {
			succ := c.Op(c.Target(e))
			if succ.Type == ops.Rz {
				angles = append(angles, succ.Params[0])
			} else {
				angles = append(angles, expr.Constant(0))
			}
		}
		absorb := mostRecurring(angles)
		if absorb.EquivZero(4) {
			continue
		}
		success = true
		c.SetOp(v, ops.MustNew(ops.NPhasedX, []expr.Expr{op.Params[0], op.Params[1].Add(absorb)}, arity))

		for i := 0; i < arity; i++ {
			// incoming side: replace any Rz(a) by Rz(a+absorb), or insert
			// Rz(absorb) on a bare wire
			inV := c.Source(inEdges[i])
			var angle expr.Expr
			var inE, outE circuit.Edge
			bin := mapset.NewThreadUnsafeSet[circuit.Vertex]()
			if p := c.Op(inV); p.Type == ops.Rz {
				angle = p.Params[0].Add(absorb)
				outE = inEdges[i]
				inE = c.LastEdge(inV, outE)
				bin.Add(inV)
			} else {
				angle = absorb
				outE = inEdges[i]
				inE = outE
			}
			substituteWireRz(c, angle, inE, outE, bin)
			allBins = allBins.Union(bin)

			// outgoing side: compensate with the negated angle
			outV := c.Target(outEdges[i])
			bin = mapset.NewThreadUnsafeSet[circuit.Vertex]()
			if s := c.Op(outV); s.Type == ops.Rz {
				angle = s.Params[0].Sub(absorb)
				inE = outEdges[i]
				outE = c.NextEdge(outV, inE)
				bin.Add(outV)
			} else {
				angle = absorb.Neg()
				inE = outEdges[i]
				outE = inE
			}
			substituteWireRz(c, angle, inE, outE, bin)
			allBins = allBins.Union(bin)
		}
	}
	c.RemoveVertices(allBins, false, true)
	return success
}

// substituteWireRz replaces the single-wire region between inE and outE by
// Rz(angle), or by a bare wire when the angle vanishes.
func substituteWireRz(c *circuit.Circuit, angle expr.Expr, inE, outE circuit.Edge, bin mapset.Set[circuit.Vertex]) {
	repl := circuit.New(1, 0)
	if !angle.EquivZero(4) {
		repl.MustAddGate(ops.Rotation(ops.Rz, angle), 0)
	}
	sub := circuit.Subcircuit{
		InEdges:  []circuit.Edge{inE},
		OutEdges: []circuit.Edge{outE},
		Verts:    bin,
	}
	c.Substitute(repl, sub, false)
}

// mostRecurring returns an angle from the class with the most occurrences,
// angles compared modulo four half-turns. Each angle counts only its earlier
// equivalents, so a tie between classes goes to the one whose occurrences
// complete first.
func mostRecurring(angles []expr.Expr) expr.Expr {
	best, bestCount := expr.Constant(0), -1
	for i, a := range angles {
		count := 0
		for j := 0; j < i; j++ {
			if a.EquivMod(angles[j], 4) {
				count++
			}
		}
		if count > bestCount {
			best, bestCount = a, count
		}
	}
	return best
}

// ZZPhaseToRz rewrites ZZPhase gates with angle plus or minus one half-turn
// as a pair of Rz(1) gates, tracking the global phase difference.
func ZZPhaseToRz() Transform {
	return New(zzPhaseToRz)
}

func zzPhaseToRz(c *circuit.Circuit) bool {
	success := false
	bin := mapset.NewThreadUnsafeSet[circuit.Vertex]()
	for _, v := range c.Vertices() {
		op := c.Op(v)
		if op.Type != ops.ZZPhase || len(op.Params) != 1 {
			continue
		}
		p := op.Params[0]
		if !p.IsConstant() || math.Abs(math.Abs(p.Const)-1) > 1e-12 {
			continue
		}
		repl := circuit.New(2, 0)
		repl.MustAddGate(circuit.Rotation(ops.Rz, 1), 0)
		repl.MustAddGate(circuit.Rotation(ops.Rz, 1), 1)
		// ZZPhase(1) = e^{i pi/2} Rz(1)xRz(1), ZZPhase(-1) its conjugate
		if p.Const > 0 {
			repl.AddPhase(0.5)
		} else {
			repl.AddPhase(-0.5)
		}
		c.SubstituteVertex(repl, v, false)
		bin.Add(v)
		success = true
	}
	c.RemoveVertices(bin, false, true)
	return success
}
