// Package memory implements an in-circuit memory-load gadget: it proves that
// a leaf digest is consistent with a Merkle root through an authentication
// path whose per-level direction is controlled by the bits of a memory
// address. The gadget composes three primitives per tree level: bitness
// constraints on a pair of candidate digests, a collision-resistant hash of
// their concatenation, and a selector that pins the already-known digest to
// the side the address bit designates.
package memory

import (
	"fmt"

	"github.com/consensys/gnark/frontend"

	"github.com/zkmem/gnark-memory-primitives/utils"
)

// PathEntry is one level of an authentication path. Entry i belongs to
// hashing level i, where level 0 produces the root.
type PathEntry struct {
	// ComputedIsRight reports whether the digest computed so far (leaf-side)
	// sits in the right slot at this level, i.e. the sibling is on the left.
	ComputedIsRight bool

	// Sibling holds the sibling digest known only to the witness.
	Sibling []bool
}

// LoadGadget proves one memory load: leaf, hashed upward through depth
// sibling pairs chosen by the address bits, reproduces the root.
//
// AddressBits, Leaf and Root are the gadget's interface to the outer
// predicate, which is responsible for their bitness and for binding them to
// its own public inputs. Left, Right and Inter are internal: the candidate
// digest pairs per level and the intermediate hash outputs strictly between
// leaf and root.
//
// Address bit depth−1−i is consumed at hashing level i, so the most
// significant bit decides the direction at the level nearest the root.
type LoadGadget struct {
	AddressBits []frontend.Variable
	Leaf        Digest
	Root        Digest
	Left        []Digest
	Right       []Digest
	Inter       []Digest

	hasher Hasher
	depth  int
}

// NewLoadGadget builds the circuit shape for a tree of the given depth. The
// hasher must consume exactly two digests per call.
func NewLoadGadget(h Hasher, depth int) (*LoadGadget, error) {
	if depth < 1 {
		return nil, fmt.Errorf("tree depth must be positive, got %d", depth)
	}
	if h.InputLen() != 2*h.DigestLen() {
		return nil, fmt.Errorf("hasher consumes %d bits, want two %d-bit digests", h.InputLen(), h.DigestLen())
	}
	n := h.DigestLen()
	g := &LoadGadget{
		AddressBits: make([]frontend.Variable, depth),
		Leaf:        NewDigest(n),
		Root:        NewDigest(n),
		Left:        make([]Digest, depth),
		Right:       make([]Digest, depth),
		Inter:       make([]Digest, depth-1),
		hasher:      h,
		depth:       depth,
	}
	for i := 0; i < depth; i++ {
		g.Left[i] = NewDigest(n)
		g.Right[i] = NewDigest(n)
	}
	for i := 0; i < depth-1; i++ {
		g.Inter[i] = NewDigest(n)
	}
	return g, nil
}

// Depth returns the number of hashing levels.
func (g *LoadGadget) Depth() int { return g.depth }

// GenerateConstraints emits the full constraint set: per level, bitness on
// both candidate digests, the hash of their concatenation into the level
// above (the root at level 0), and the selector wiring the known digest to
// the addressed side. Intermediate outputs need no bitness of their own: the
// selector pins each of their bits to a bit-constrained candidate. The total
// emitted count equals ExpectedConstraints for the same hasher and depth.
func (g *LoadGadget) GenerateConstraints(api frontend.API) error {
	n := g.hasher.DigestLen()
	for i := 0; i < g.depth; i++ {
		g.Left[i].GenerateConstraints(api)
		g.Right[i].GenerateConstraints(api)

		input := make([]frontend.Variable, 0, 2*n)
		input = append(input, g.Left[i]...)
		input = append(input, g.Right[i]...)
		output := g.Root
		if i > 0 {
			output = g.Inter[i-1]
		}
		if err := g.hasher.AssertHash(api, input, output, false); err != nil {
			return fmt.Errorf("hash constraints at level %d: %w", i, err)
		}

		known := g.Leaf
		if i < g.depth-1 {
			known = g.Inter[i]
		}
		sel := DigestSelector{
			IsRight: g.AddressBits[g.depth-1-i],
			Known:   known,
			Left:    g.Left[i],
			Right:   g.Right[i],
		}
		if err := sel.GenerateConstraints(api); err != nil {
			return fmt.Errorf("selector constraints at level %d: %w", i, err)
		}
	}
	return nil
}

// Assign computes the witness for one concrete load and returns it as a
// fresh assignment instance of the gadget. Levels are processed from the
// leaf up, since each level's hash output is the known digest of the level
// above. The address bits are derived from the path directions.
//
// The root is written from the caller's value, not from the recomputed one:
// if the two disagree the level-0 hash constraint is unsatisfiable, which is
// exactly the failure the proving layer must refuse to build a proof on.
func (g *LoadGadget) Assign(leaf, root []bool, path []PathEntry) (*LoadGadget, error) {
	n := g.hasher.DigestLen()
	if len(leaf) != n {
		return nil, fmt.Errorf("leaf is %d bits, want %d", len(leaf), n)
	}
	if len(root) != n {
		return nil, fmt.Errorf("root is %d bits, want %d", len(root), n)
	}
	if len(path) != g.depth {
		return nil, fmt.Errorf("path has %d levels, want %d", len(path), g.depth)
	}

	a, err := NewLoadGadget(g.hasher, g.depth)
	if err != nil {
		return nil, err
	}
	if err := a.Leaf.Fill(leaf); err != nil {
		return nil, err
	}
	if err := a.Root.Fill(root); err != nil {
		return nil, err
	}

	addr := make([]bool, g.depth)
	cur := leaf
	for i := g.depth - 1; i >= 0; i-- {
		entry := path[i]
		if len(entry.Sibling) != n {
			return nil, fmt.Errorf("sibling at level %d is %d bits, want %d", i, len(entry.Sibling), n)
		}
		addr[g.depth-1-i] = entry.ComputedIsRight

		left, right := PropagateKnown(entry.ComputedIsRight, cur, entry.Sibling)
		if err := a.Left[i].Fill(left); err != nil {
			return nil, err
		}
		if err := a.Right[i].Fill(right); err != nil {
			return nil, err
		}

		input := make([]bool, 0, 2*n)
		input = append(input, left...)
		input = append(input, right...)
		out, err := g.hasher.Hash(input)
		if err != nil {
			return nil, fmt.Errorf("hashing level %d: %w", i, err)
		}
		if i > 0 {
			if err := a.Inter[i-1].Fill(out); err != nil {
				return nil, err
			}
		}
		cur = out
	}
	a.AddressBits = utils.BitsToVariables(addr)
	return a, nil
}

// ExpectedConstraints returns the exact number of R1CS constraints one
// GenerateConstraints call emits for the given hasher and depth: per level,
// one hash invocation without input bitness, SelectorConstraintsPerBit per
// digest bit for the selector, and bitness on both candidate digests. A
// closed form in depth and digest width, used to detect circuit-construction
// regressions without recounting a live circuit.
func ExpectedConstraints(h Hasher, depth int) int {
	n := h.DigestLen()
	hashers := depth * h.Constraints(false)
	selectors := depth * SelectorConstraintsPerBit * n
	bitness := depth * 2 * n
	return hashers + selectors + bitness
}
