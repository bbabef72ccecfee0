// Package tree implements the native side of the memory: a fixed-depth
// sparse Merkle tree over bit digests, hashed with the same bit-oriented
// hash backend the in-circuit load gadget uses. Its authentication paths are
// exactly what the gadget's witness generation consumes, so a Prove output
// always satisfies the circuit built for the same hasher and depth.
package tree

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"

	"github.com/zkmem/gnark-memory-primitives/db"
	"github.com/zkmem/gnark-memory-primitives/memory"
	"github.com/zkmem/gnark-memory-primitives/utils"
)

// MaxDepth bounds the tree depth so node keys fit a one-byte level and a
// 32-byte index.
const MaxDepth = 255

// Tree is a sparse Merkle tree of fixed depth. Nodes live at levels 0 (root)
// through depth (leaves); absent nodes take the per-level default digest of
// an all-empty subtree. Leaves are addressed by integers below 2^depth whose
// little-endian bits are the gadget's address bits.
type Tree struct {
	db       db.Database
	hasher   memory.Hasher
	depth    int
	defaults [][]bool
	log      zerolog.Logger
}

// New opens a tree of the given depth over the database. The hasher must
// consume exactly two digests per call and must be the same (same public
// parameters) across every process that touches the tree.
func New(database db.Database, h memory.Hasher, depth int) (*Tree, error) {
	if depth < 1 || depth > MaxDepth {
		return nil, fmt.Errorf("tree depth must be in [1,%d], got %d", MaxDepth, depth)
	}
	if h.InputLen() != 2*h.DigestLen() {
		return nil, fmt.Errorf("hasher consumes %d bits, want two %d-bit digests", h.InputLen(), h.DigestLen())
	}

	// defaults[l] is the digest of an empty subtree rooted at level l.
	defaults := make([][]bool, depth+1)
	defaults[depth] = make([]bool, h.DigestLen())
	for l := depth - 1; l >= 0; l-- {
		below := defaults[l+1]
		input := make([]bool, 0, 2*h.DigestLen())
		input = append(input, below...)
		input = append(input, below...)
		d, err := h.Hash(input)
		if err != nil {
			return nil, fmt.Errorf("computing default digest at level %d: %w", l, err)
		}
		defaults[l] = d
	}

	log := logger.Logger().With().Str("component", "memtree").Int("depth", depth).Logger()
	log.Debug().Msg("opened merkle memory tree")

	return &Tree{
		db:       database,
		hasher:   h,
		depth:    depth,
		defaults: defaults,
		log:      log,
	}, nil
}

// Depth returns the number of hashing levels.
func (t *Tree) Depth() int { return t.depth }

// Update writes a leaf digest at the given address and recomputes the path
// to the root in a single transaction.
func (t *Tree) Update(addr *big.Int, leaf []bool) error {
	if err := t.checkAddr(addr); err != nil {
		return err
	}
	if len(leaf) != t.hasher.DigestLen() {
		return fmt.Errorf("leaf is %d bits, want %d", len(leaf), t.hasher.DigestLen())
	}

	tx := t.db.NewTransaction()
	defer tx.Discard()

	idx := new(big.Int).Set(addr)
	cur := leaf
	if err := tx.Set(t.nodeKey(t.depth, idx), utils.PackBits(cur)); err != nil {
		return err
	}
	for level := t.depth; level > 0; level-- {
		sib, err := t.node(tx, level, new(big.Int).Xor(idx, big.NewInt(1)))
		if err != nil {
			return err
		}
		input := make([]bool, 0, 2*t.hasher.DigestLen())
		if idx.Bit(0) == 0 {
			input = append(input, cur...)
			input = append(input, sib...)
		} else {
			input = append(input, sib...)
			input = append(input, cur...)
		}
		parent, err := t.hasher.Hash(input)
		if err != nil {
			return fmt.Errorf("hashing level %d: %w", level-1, err)
		}
		idx.Rsh(idx, 1)
		if err := tx.Set(t.nodeKey(level-1, idx), utils.PackBits(parent)); err != nil {
			return err
		}
		cur = parent
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	t.log.Debug().Str("addr", addr.String()).Msg("updated leaf")
	return nil
}

// Leaf reads the leaf digest at the given address.
func (t *Tree) Leaf(addr *big.Int) ([]bool, error) {
	if err := t.checkAddr(addr); err != nil {
		return nil, err
	}
	return t.node(t.db, t.depth, addr)
}

// Root returns the current root digest.
func (t *Tree) Root() ([]bool, error) {
	return t.node(t.db, 0, new(big.Int))
}

// Prove builds the authentication path for the given address. Entry i of the
// result belongs to hashing level i, level 0 nearest the root, matching the
// load gadget's witness input.
func (t *Tree) Prove(addr *big.Int) ([]memory.PathEntry, error) {
	if err := t.checkAddr(addr); err != nil {
		return nil, err
	}
	path := make([]memory.PathEntry, t.depth)
	idx := new(big.Int).Set(addr)
	for level := t.depth; level > 0; level-- {
		sib, err := t.node(t.db, level, new(big.Int).Xor(idx, big.NewInt(1)))
		if err != nil {
			return nil, err
		}
		path[level-1] = memory.PathEntry{
			ComputedIsRight: idx.Bit(0) == 1,
			Sibling:         sib,
		}
		idx.Rsh(idx, 1)
	}
	return path, nil
}

func (t *Tree) checkAddr(addr *big.Int) error {
	if addr.Sign() < 0 || addr.BitLen() > t.depth {
		return fmt.Errorf("address %s out of range for depth %d", addr, t.depth)
	}
	return nil
}

func (t *Tree) nodeKey(level int, index *big.Int) []byte {
	key := make([]byte, 1+32)
	key[0] = byte(level)
	index.FillBytes(key[1:])
	return key
}

func (t *Tree) node(r db.Reader, level int, index *big.Int) ([]bool, error) {
	v, err := r.Get(t.nodeKey(level, index))
	if errors.Is(err, db.ErrNotFound) {
		return t.defaults[level], nil
	}
	if err != nil {
		return nil, err
	}
	return utils.UnpackBits(v, t.hasher.DigestLen())
}
