// Package knapsack implements a subset-sum collision-resistant hash with bit
// input and bit output over the BN254 scalar field. The hash of a bit vector
// is the field sum of the public coefficients at the positions of its set
// bits, decomposed back into bits. Collision resistance reduces to the
// hardness of the subset-sum problem over the coefficients, which are
// sampled once and shared by every hasher of the same tree.
package knapsack

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkmem/gnark-memory-primitives/utils"
)

// DigestLen is the digest width in bits: one field element, bit-decomposed.
const DigestLen = fr.Bits

// Parameters holds the once-sampled public randomness of the hash: one field
// coefficient per input bit. Parameters are immutable after sampling.
type Parameters struct {
	coeffs []fr.Element
}

// NewParameters samples fresh random parameters for the given input width.
func NewParameters(inputLen int) (*Parameters, error) {
	if inputLen < 1 {
		return nil, fmt.Errorf("input width must be positive, got %d", inputLen)
	}
	coeffs := make([]fr.Element, inputLen)
	for i := range coeffs {
		if _, err := coeffs[i].SetRandom(); err != nil {
			return nil, fmt.Errorf("sampling coefficient %d: %w", i, err)
		}
	}
	return &Parameters{coeffs: coeffs}, nil
}

// NewParametersFromSeed derives parameters deterministically from a seed via
// hash-to-field, so that independent processes can agree on the same tree.
func NewParametersFromSeed(inputLen int, seed []byte) (*Parameters, error) {
	if inputLen < 1 {
		return nil, fmt.Errorf("input width must be positive, got %d", inputLen)
	}
	coeffs, err := fr.Hash(seed, []byte("knapsack-crh"), inputLen)
	if err != nil {
		return nil, fmt.Errorf("deriving coefficients: %w", err)
	}
	return &Parameters{coeffs: coeffs}, nil
}

// InputLen returns the input width the parameters were sampled for.
func (p *Parameters) InputLen() int { return len(p.coeffs) }

var (
	sharedMu sync.Mutex
	shared   = make(map[int]*Parameters)
)

// Shared returns the process-wide parameters for the given input width,
// sampling them on first use. Every call with the same width returns the
// same instance, so all hashers built from it belong to the same tree.
func Shared(inputLen int) (*Parameters, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if p, ok := shared[inputLen]; ok {
		return p, nil
	}
	p, err := NewParameters(inputLen)
	if err != nil {
		return nil, err
	}
	shared[inputLen] = p
	return p, nil
}

// Hasher evaluates and constrains the knapsack hash for one fixed input
// width. It satisfies the bit-hasher interface consumed by the memory
// gadgets.
type Hasher struct {
	params *Parameters
}

// NewHasher wraps pre-sampled parameters.
func NewHasher(p *Parameters) *Hasher {
	return &Hasher{params: p}
}

// DigestLen returns the digest width in bits.
func (h *Hasher) DigestLen() int { return DigestLen }

// InputLen returns the fixed input width in bits.
func (h *Hasher) InputLen() int { return h.params.InputLen() }

// Hash evaluates the hash natively: the field sum of the coefficients at the
// set bit positions, as little-endian bits.
func (h *Hasher) Hash(bits []bool) ([]bool, error) {
	if len(bits) != h.InputLen() {
		return nil, fmt.Errorf("input is %d bits, want %d", len(bits), h.InputLen())
	}
	var acc fr.Element
	for i, b := range bits {
		if b {
			acc.Add(&acc, &h.params.coeffs[i])
		}
	}
	return utils.BigIntToBits(acc.BigInt(new(big.Int)), DigestLen)
}
