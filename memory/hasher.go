package memory

import "github.com/consensys/gnark/frontend"

// Hasher is the capability interface of a collision-resistant hash with bit
// input and bit output. The load gadget is polymorphic over it: any backend
// with fixed input and output widths, a deterministic native evaluation and a
// constant per-call constraint count can hash the tree levels.
type Hasher interface {
	// DigestLen returns the digest width in bits.
	DigestLen() int

	// InputLen returns the fixed input width in bits.
	InputLen() int

	// Hash evaluates the hash natively on concrete bits, outside the
	// circuit. Used by witness generation and by the native tree.
	Hash(bits []bool) ([]bool, error)

	// AssertHash constrains output to equal the hash of input. When
	// enforceInputBitness is false the caller vouches that every input bit
	// is already bit-constrained; the load gadget passes false because its
	// candidate digests carry their own bitness constraints. Output bitness
	// is always the digest owner's concern.
	AssertHash(api frontend.API, input, output []frontend.Variable, enforceInputBitness bool) error

	// Constraints returns the exact number of R1CS constraints a single
	// AssertHash call emits under the r1cs builder. It is a structural
	// property, independent of witness values.
	Constraints(enforceInputBitness bool) int
}
