// Package testutil generates fixtures for the gadget and tree tests: random
// digests derived from Keccak-hashed payloads and well-formed authentication
// paths built bottom-up with arbitrary per-level directions.
package testutil

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/zkmem/gnark-memory-primitives/memory"
	"github.com/zkmem/gnark-memory-primitives/utils"
)

// PayloadDigest hashes an arbitrary payload into a digest of the given
// width: Keccak256, reduced into the BN254 scalar field, bit-decomposed.
func PayloadDigest(payload []byte, size int) ([]bool, error) {
	var e fr.Element
	e.SetBytes(crypto.Keccak256(payload))
	return utils.BigIntToBits(e.BigInt(new(big.Int)), size)
}

// RandomDigest returns the digest of a fresh random 32-byte payload.
func RandomDigest(size int) ([]bool, error) {
	payload := make([]byte, 32)
	if _, err := rand.Read(payload); err != nil {
		return nil, err
	}
	return PayloadDigest(payload, size)
}

// RandomAddress returns a uniformly random address below 2^depth.
func RandomAddress(depth int) (*big.Int, error) {
	bound := new(big.Int).Lsh(big.NewInt(1), uint(depth))
	return rand.Int(rand.Reader, bound)
}

// RandomPath builds a well-formed authentication path of the given depth:
// a random leaf digest and one random sibling per level, with the computed
// digest placed on an arbitrarily chosen side, composed bottom-up by
// concatenate-then-hash. The returned leaf, root and path satisfy the load
// gadget built from the same hasher.
func RandomPath(h memory.Hasher, depth int) (leaf, root []bool, path []memory.PathEntry, err error) {
	if depth < 1 {
		return nil, nil, nil, fmt.Errorf("path depth must be positive, got %d", depth)
	}
	n := h.DigestLen()
	leaf, err = RandomDigest(n)
	if err != nil {
		return nil, nil, nil, err
	}

	path = make([]memory.PathEntry, depth)
	cur := leaf
	for i := depth - 1; i >= 0; i-- {
		sibling, err := RandomDigest(n)
		if err != nil {
			return nil, nil, nil, err
		}
		isRight, err := randomBool()
		if err != nil {
			return nil, nil, nil, err
		}
		left, right := memory.PropagateKnown(isRight, cur, sibling)
		input := make([]bool, 0, 2*n)
		input = append(input, left...)
		input = append(input, right...)
		cur, err = h.Hash(input)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("hashing level %d: %w", i, err)
		}
		path[i] = memory.PathEntry{ComputedIsRight: isRight, Sibling: sibling}
	}
	return leaf, cur, path, nil
}

func randomBool() (bool, error) {
	var b [1]byte
	if _, err := rand.Read(b[:]); err != nil {
		return false, err
	}
	return b[0]&1 == 1, nil
}
