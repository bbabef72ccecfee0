package tree

import (
	"fmt"
	"math/big"

	"github.com/iden3/go-iden3-crypto/poseidon"

	"github.com/zkmem/gnark-memory-primitives/utils"
)

// LeafValue maps a raw field value to its leaf digest by hashing it with
// Poseidon and bit-decomposing the result, for callers whose memory words
// are field elements rather than digests. The value must be a canonical
// BN254 scalar.
func LeafValue(value *big.Int, size int) ([]bool, error) {
	h, err := poseidon.Hash([]*big.Int{value})
	if err != nil {
		return nil, fmt.Errorf("hashing leaf value: %w", err)
	}
	return utils.BigIntToBits(h, size)
}
