// Package expr implements symbolic angle expressions in half-turn units.
// An expression is a constant plus a sum of coefficient*symbol terms.
package expr

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// coefficients below this magnitude are treated as zero during normalization
const eps = 1e-12

type Term struct {
	Sym   string
	Coeff float64
}

// Expr is an angle in half-turns. Terms are sorted by symbol and contain no
// duplicates or zero coefficients; all constructors maintain this.
type Expr struct {
	Const float64
	Terms []Term
}

// Constant returns the expression c.
func Constant(c float64) Expr {
	return Expr{Const: c}
}

// Symbol returns the expression 1*sym.
func Symbol(sym string) Expr {
	return Expr{Terms: []Term{{Sym: sym, Coeff: 1}}}
}

func normalize(e Expr) Expr {
	sort.Slice(e.Terms, func(i, j int) bool {
		return e.Terms[i].Sym < e.Terms[j].Sym
	})
	res := Expr{Const: e.Const}
	for _, t := range e.Terms {
		n := len(res.Terms)
		if n > 0 && res.Terms[n-1].Sym == t.Sym {
			res.Terms[n-1].Coeff += t.Coeff
		} else {
			res.Terms = append(res.Terms, t)
		}
	}
	out := res.Terms[:0]
	for _, t := range res.Terms {
		if math.Abs(t.Coeff) > eps {
			out = append(out, t)
		}
	}
	res.Terms = out
	if len(res.Terms) == 0 {
		res.Terms = nil
	}
	return res
}

func (e Expr) Clone() Expr {
	res := Expr{Const: e.Const, Terms: make([]Term, len(e.Terms))}
	copy(res.Terms, e.Terms)
	return res
}

func (e Expr) Add(o Expr) Expr {
	res := Expr{Const: e.Const + o.Const}
	res.Terms = append(res.Terms, e.Terms...)
	res.Terms = append(res.Terms, o.Terms...)
	return normalize(res)
}

func (e Expr) Neg() Expr {
	return e.Scale(-1)
}

func (e Expr) Sub(o Expr) Expr {
	return e.Add(o.Neg())
}

func (e Expr) Scale(k float64) Expr {
	res := Expr{Const: e.Const * k, Terms: make([]Term, len(e.Terms))}
	for i, t := range e.Terms {
		res.Terms[i] = Term{Sym: t.Sym, Coeff: t.Coeff * k}
	}
	return normalize(res)
}

// IsConstant reports whether the expression has no symbolic part.
func (e Expr) IsConstant() bool {
	return len(e.Terms) == 0
}

// FreeSymbols returns the symbols appearing in the expression, sorted.
func (e Expr) FreeSymbols() []string {
	res := make([]string, len(e.Terms))
	for i, t := range e.Terms {
		res[i] = t.Sym
	}
	return res
}

// Eval evaluates the expression under the given symbol binding. Every free
// symbol must be bound.
func (e Expr) Eval(binding map[string]float64) (float64, error) {
	res := e.Const
	for _, t := range e.Terms {
		v, ok := binding[t.Sym]
		if !ok {
			return 0, fmt.Errorf("symbol %s is not bound", t.Sym)
		}
		res += t.Coeff * v
	}
	return res, nil
}

// Substitute replaces bound symbols by their values, keeping unbound ones
// symbolic.
func (e Expr) Substitute(binding map[string]float64) Expr {
	res := Expr{Const: e.Const}
	for _, t := range e.Terms {
		if v, ok := binding[t.Sym]; ok {
			res.Const += t.Coeff * v
		} else {
			res.Terms = append(res.Terms, t)
		}
	}
	return normalize(res)
}

// Equal returns true if both expressions are syntactically identical.
//
// pre condition: both are normalized
func (e Expr) Equal(o Expr) bool {
	if math.Abs(e.Const-o.Const) > eps || len(e.Terms) != len(o.Terms) {
		return false
	}
	for i := range e.Terms {
		if e.Terms[i].Sym != o.Terms[i].Sym ||
			math.Abs(e.Terms[i].Coeff-o.Terms[i].Coeff) > eps {
			return false
		}
	}
	return true
}

// EquivMod reports whether e and o denote the same angle modulo mod. A
// symbolic residue makes the answer false.
func (e Expr) EquivMod(o Expr, mod float64) bool {
	d := e.Sub(o)
	if !d.IsConstant() {
		return false
	}
	r := math.Mod(d.Const, mod)
	return math.Abs(r) < eps || math.Abs(math.Abs(r)-mod) < eps
}

// EquivZero reports whether the expression is a multiple of mod.
func (e Expr) EquivZero(mod float64) bool {
	return e.EquivMod(Expr{}, mod)
}

// HashCode returns a fast-to-compute but NOT collision resistant hash code
// identifier for the expression.
//
// requires normalized
func (e Expr) HashCode() uint64 {
	h := uint64(17)
	h = h*23 + math.Float64bits(e.Const)
	for _, t := range e.Terms {
		for i := 0; i < len(t.Sym); i++ {
			h = h*23 + uint64(t.Sym[i])
		}
		h = h*23 + math.Float64bits(t.Coeff)
	}
	return h
}

func (e Expr) String() string {
	s := make([]string, 0, len(e.Terms)+1)
	if e.Const != 0 || len(e.Terms) == 0 {
		s = append(s, strconv.FormatFloat(e.Const, 'g', -1, 64))
	}
	for _, t := range e.Terms {
		if t.Coeff == 1 {
			s = append(s, t.Sym)
		} else {
			s = append(s, strconv.FormatFloat(t.Coeff, 'g', -1, 64)+"*"+t.Sym)
		}
	}
	return strings.Join(s, "+")
}
