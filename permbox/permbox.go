// Package permbox implements a box computing a permutation of the
// computational basis, decomposed into gray-code paths of multi-controlled
// X gates (Nielsen & Chuang section 4.5.2).
package permbox

import (
	"fmt"
	"math/bits"
	"sort"

	"github.com/quantaforge/qdag/circuit"
	"github.com/quantaforge/qdag/ops"
)

// PermutationBox maps computational basis states onto each other. Basis
// states are uint64 indices with qubit 0 as the most significant bit.
type PermutationBox struct {
	nQubits int
	// disjoint cycles of length two or more, each starting at its smallest
	// element's cycle entry point
	cycles [][]uint64
	// the complete mapping, fixed points omitted
	mapping map[uint64]uint64
}

// New builds a permutation box over nQubits wires. The mapping must be a
// bijection on a subset of the basis states: every image must itself be
// mapped (or be a fixed point via an explicit identity entry).
func New(nQubits int, perm map[uint64]uint64) (*PermutationBox, error) {
	if nQubits < 1 {
		return nil, fmt.Errorf("permutation box needs at least one qubit")
	}
	if nQubits > 20 {
		return nil, fmt.Errorf("permutation box over %d qubits is not tractable", nQubits)
	}
	dim := uint64(1) << uint(nQubits)
	remaining := make(map[uint64]uint64, len(perm))
	keys := make([]uint64, 0, len(perm))
	for k, v := range perm {
		if k >= dim || v >= dim {
			return nil, fmt.Errorf("basis state out of range for %d qubits", nQubits)
		}
		remaining[k] = v
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	b := &PermutationBox{nQubits: nQubits, mapping: make(map[uint64]uint64)}
	for _, start := range keys {
		if _, ok := remaining[start]; !ok {
			continue
		}
		cycle := []uint64{start}
		cur := remaining[start]
		for cur != start {
			if _, ok := remaining[cur]; !ok {
				return nil, fmt.Errorf("permutation is not complete: %b maps in but not out", cur)
			}
			cycle = append(cycle, cur)
			cur = remaining[cur]
		}
		for _, x := range cycle {
			delete(remaining, x)
		}
		if len(cycle) > 1 {
			b.cycles = append(b.cycles, cycle)
			for i, x := range cycle {
				b.mapping[x] = cycle[(i+1)%len(cycle)]
			}
		}
	}
	return b, nil
}

// NQubits implements ops.Box.
func (b *PermutationBox) NQubits() int {
	return b.nQubits
}

// Apply permutes a single basis state classically.
func (b *PermutationBox) Apply(x uint64) uint64 {
	if y, ok := b.mapping[x]; ok {
		return y
	}
	return x
}

// Op returns the box wrapped as an operation value.
func (b *PermutationBox) Op() ops.Op {
	return ops.Op{Type: ops.PermBox, Box: b, N: b.nQubits}
}

// transposition exchanges first and middle, entering and leaving the
// exchange through last so adjacent transpositions can share path prefixes.
type transposition struct {
	first, middle, last uint64
}

// grayEntry is one step on a gray-code path: the basis state reached and
// the qubit whose bit was flipped to reach it.
type grayEntry struct {
	bitstring uint64
	target    int
}

// ToCircuit decomposes the permutation into X and CnX gates.
func (b *PermutationBox) ToCircuit() *circuit.Circuit {
	var all []transposition
	for _, cycle := range b.cycles {
		all = append(all, cycleToTranspositions(b.nQubits, cycle)...)
	}
	all = mergeTranspositions(all, b.cycleLengths())

	c := circuit.New(b.nQubits, 0)
	for _, t := range all {
		for _, entry := range b.grayCode(t) {
			b.appendBitstringCircuit(c, entry.bitstring, entry.target)
		}
	}
	return c
}

// Definition exposes the decomposition for simulation and box expansion.
func (b *PermutationBox) Definition() *circuit.Circuit {
	return b.ToCircuit()
}

func (b *PermutationBox) cycleLengths() []int {
	res := make([]int, len(b.cycles))
	for i, cy := range b.cycles {
		res[i] = len(cy) - 1
	}
	return res
}

func hamming(a, c uint64) int {
	return bits.OnesCount64(a ^ c)
}

// cycleToTranspositions picks the cycle rotation whose pairing of the start
// element against the rest minimizes the total Hamming distance.
func cycleToTranspositions(nQubits int, cycle []uint64) []transposition {
	var best []transposition
	bestDist := 0
	rotated := append([]uint64(nil), cycle...)
	for i := 0; i < len(cycle); i++ {
		dist := 0
		cur := make([]transposition, 0, len(rotated)-1)
		for j := 1; j < len(rotated); j++ {
			cur = append(cur, transposition{first: rotated[0], middle: rotated[j], last: rotated[0]})
			dist += hamming(rotated[0], rotated[j])
		}
		if best == nil || dist < bestDist {
			best = cur
			bestDist = dist
		}
		rotated = append(rotated[1:], rotated[0])
	}
	return best
}

// mergeTranspositions aligns the exit point of each transposition with the
// entry point of the next one in the same cycle, moving both onto a shared
// basis state near both middles so the gray codes cancel.
func mergeTranspositions(all []transposition, cycleLens []int) []transposition {
	pos := 0
	for _, n := range cycleLens {
		group := all[pos : pos+n]
		for i := 0; i+1 < len(group); i++ {
			ti, tj := &group[i], &group[i+1]
			if ti.first != ti.last {
				// already reduced on a good path, leave the pair alone
				continue
			}
			start := ti.last
			for k := 0; k < 64; k++ {
				mask := uint64(1) << uint(k)
				if (ti.middle^tj.middle)&mask == 0 && hamming(start, ti.middle) > 1 {
					start = (start &^ mask) | (ti.middle & mask)
				}
			}
			ti.last = start
			tj.first = start
		}
		pos += n
	}
	return all
}

// grayCode lays out the basis states visited when exchanging first and
// middle: a flip-by-flip path from first towards middle, then the reversed
// path from last back to middle with the final step dropped. When one side
// has been rerouted by merging, the path detours through the other
// endpoint so the neighbouring transposition uncomputes it.
func (b *PermutationBox) grayCode(t transposition) []grayEntry {
	fm := hamming(t.first, t.middle)
	ml := hamming(t.middle, t.last)
	var entries []grayEntry
	initial := t.first
	if ml < fm {
		for i := 0; i < b.nQubits; i++ {
			if b.bit(t.first, i) != b.bit(t.last, i) {
				initial ^= b.mask(i)
				entries = append(entries, grayEntry{initial, i})
			}
		}
	}
	bs := initial
	for i := 0; i < b.nQubits; i++ {
		if b.bit(initial, i) != b.bit(t.middle, i) {
			bs ^= b.mask(i)
			entries = append(entries, grayEntry{bs, i})
		}
	}

	initial = t.last
	var rev []grayEntry
	if fm < ml {
		for i := 0; i < b.nQubits; i++ {
			if b.bit(initial, i) != b.bit(t.first, i) {
				initial ^= b.mask(i)
				rev = append(rev, grayEntry{initial, i})
			}
		}
	}
	bs = initial
	for i := 0; i < b.nQubits; i++ {
		if b.bit(t.middle, i) != b.bit(initial, i) {
			bs ^= b.mask(i)
			rev = append(rev, grayEntry{bs, i})
		}
	}
	// the last step would land on middle itself
	if len(rev) > 0 {
		rev = rev[:len(rev)-1]
	}
	for k := len(rev) - 1; k >= 0; k-- {
		entries = append(entries, rev[k])
	}
	return entries
}

// appendBitstringCircuit adds the reflection about the given basis state
// acting on the target qubit: X gates bracket a CnX so that the controls
// fire exactly on this bitstring.
func (b *PermutationBox) appendBitstringCircuit(c *circuit.Circuit, bitstring uint64, target int) {
	if b.nQubits == 1 {
		c.MustAddGate(ops.Gate(ops.X), 0)
		return
	}
	var xWires, cnxArgs []int
	for i := 0; i < b.nQubits; i++ {
		if i == target {
			continue
		}
		if !b.bit(bitstring, i) {
			xWires = append(xWires, i)
		}
		cnxArgs = append(cnxArgs, i)
	}
	cnxArgs = append(cnxArgs, target)
	for _, q := range xWires {
		c.MustAddGate(ops.Gate(ops.X), q)
	}
	c.MustAddGate(ops.MustNew(ops.CnX, nil, len(cnxArgs)), cnxArgs...)
	for _, q := range xWires {
		c.MustAddGate(ops.Gate(ops.X), q)
	}
}

// bit reads qubit i of a basis state, qubit 0 the most significant.
func (b *PermutationBox) bit(x uint64, i int) bool {
	return x&b.mask(i) != 0
}

func (b *PermutationBox) mask(i int) uint64 {
	return uint64(1) << uint(b.nQubits-1-i)
}
