// Package mimcbit adapts MiMC to the bit-digest interface of the memory
// gadgets: input bits are packed into field elements block by block, hashed
// with gnark's MiMC gadget (gnark-crypto's MiMC natively), and the output
// digest is constrained by packing equality. It exists to exercise hash
// backend polymorphism with a production hash; the knapsack hash remains the
// reference backend.
package mimcbit

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	native "github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/std/hash/mimc"

	"github.com/zkmem/gnark-memory-primitives/utils"
)

// DigestLen is the digest width in bits: one field element, bit-decomposed.
const DigestLen = fr.Bits

// Hasher hashes fixed-width bit vectors with MiMC. The per-call constraint
// count is not derived by hand from the round structure: it is measured once
// by compiling a probe circuit and cached, which keeps Constraints exact
// across gnark versions.
type Hasher struct {
	inputLen int

	measure sync.Once
	base    int
	err     error
}

// NewHasher returns a hasher for the given input width, which must be a
// whole number of field-element blocks so that the native and in-circuit
// packing agree trivially.
func NewHasher(inputLen int) (*Hasher, error) {
	if inputLen < 1 || inputLen%DigestLen != 0 {
		return nil, fmt.Errorf("input width %d is not a multiple of the %d-bit block", inputLen, DigestLen)
	}
	return &Hasher{inputLen: inputLen}, nil
}

// DigestLen returns the digest width in bits.
func (h *Hasher) DigestLen() int { return DigestLen }

// InputLen returns the fixed input width in bits.
func (h *Hasher) InputLen() int { return h.inputLen }

// Hash evaluates MiMC natively over the packed blocks of the input bits.
func (h *Hasher) Hash(bits []bool) ([]bool, error) {
	if len(bits) != h.inputLen {
		return nil, fmt.Errorf("input is %d bits, want %d", len(bits), h.inputLen)
	}
	hasher := native.NewMiMC()
	for off := 0; off < len(bits); off += DigestLen {
		var block fr.Element
		block.SetBigInt(utils.BitsToBigInt(bits[off : off+DigestLen]))
		b := block.Bytes()
		if _, err := hasher.Write(b[:]); err != nil {
			return nil, fmt.Errorf("hashing block at bit %d: %w", off, err)
		}
	}
	return utils.BigIntToBits(new(big.Int).SetBytes(hasher.Sum(nil)), DigestLen)
}

// AssertHash constrains output to be the MiMC hash of input. Packing the
// input blocks and the output digest are free linear combinations; the MiMC
// rounds dominate the cost.
func (h *Hasher) AssertHash(api frontend.API, input, output []frontend.Variable, enforceInputBitness bool) error {
	if len(input) != h.inputLen {
		return fmt.Errorf("input is %d bits, want %d", len(input), h.inputLen)
	}
	if len(output) != DigestLen {
		return fmt.Errorf("output is %d bits, want %d", len(output), DigestLen)
	}
	if enforceInputBitness {
		for _, b := range input {
			api.AssertIsBoolean(b)
		}
	}
	hasher, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}
	for off := 0; off < len(input); off += DigestLen {
		hasher.Write(utils.PackVariables(api, input[off:off+DigestLen]))
	}
	api.AssertIsEqual(utils.PackVariables(api, output), hasher.Sum())
	return nil
}

// Constraints returns the exact number of R1CS constraints one AssertHash
// call emits under the r1cs builder, measuring the bitness-free base cost on
// first use.
func (h *Hasher) Constraints(enforceInputBitness bool) int {
	h.measure.Do(func() {
		probe := &probeCircuit{
			In:  make([]frontend.Variable, h.inputLen),
			Out: make([]frontend.Variable, DigestLen),
			h:   h,
		}
		ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, probe)
		if err != nil {
			h.err = err
			return
		}
		h.base = ccs.GetNbConstraints()
	})
	if h.err != nil {
		// A failing probe means the gadget itself cannot compile; there is
		// no weaker count to report.
		panic(fmt.Sprintf("mimcbit: measuring constraint count: %v", h.err))
	}
	if enforceInputBitness {
		return h.base + h.inputLen
	}
	return h.base
}

type probeCircuit struct {
	In  []frontend.Variable
	Out []frontend.Variable

	h *Hasher
}

func (c *probeCircuit) Define(api frontend.API) error {
	return c.h.AssertHash(api, c.In, c.Out, false)
}
