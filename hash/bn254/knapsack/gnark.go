package knapsack

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/frontend"

	"github.com/zkmem/gnark-memory-primitives/utils"
)

// AssertHash constrains output to be the knapsack hash of input. Both the
// coefficient sum over the input bits and the weighted packing of the output
// bits are linear combinations, so with input bitness disabled this emits
// exactly one R1CS constraint:
//
//	Σ output[i]·2^i = Σ coeff[i]·input[i]
//
// The constraint pins the packed output value; the shape of the output bits
// is the digest owner's concern.
func (h *Hasher) AssertHash(api frontend.API, input, output []frontend.Variable, enforceInputBitness bool) error {
	if len(input) != h.InputLen() {
		return fmt.Errorf("input is %d bits, want %d", len(input), h.InputLen())
	}
	if len(output) != DigestLen {
		return fmt.Errorf("output is %d bits, want %d", len(output), DigestLen)
	}
	if enforceInputBitness {
		for _, b := range input {
			api.AssertIsBoolean(b)
		}
	}
	acc := frontend.Variable(0)
	for i := range input {
		acc = api.Add(acc, api.Mul(h.params.coeffs[i].BigInt(new(big.Int)), input[i]))
	}
	api.AssertIsEqual(utils.PackVariables(api, output), acc)
	return nil
}

// Constraints returns the exact number of R1CS constraints one AssertHash
// call emits under the r1cs builder.
func (h *Hasher) Constraints(enforceInputBitness bool) int {
	if enforceInputBitness {
		return 1 + h.InputLen()
	}
	return 1
}
