package utils

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/frontend"
)

// BitsToBigInt packs a little-endian bit vector into a big.Int, so that
// bits[i] carries weight 2^i. This is the packing convention used by every
// digest in this module.
func BitsToBigInt(bits []bool) *big.Int {
	res := new(big.Int)
	for i, b := range bits {
		if b {
			res.SetBit(res, i, 1)
		}
	}
	return res
}

// BigIntToBits unpacks v into a little-endian bit vector of the given size.
// It returns an error if v does not fit, instead of silently truncating:
// a truncated digest would satisfy a different circuit than intended.
func BigIntToBits(v *big.Int, size int) ([]bool, error) {
	if v.Sign() < 0 {
		return nil, fmt.Errorf("cannot unpack negative value %s", v)
	}
	if v.BitLen() > size {
		return nil, fmt.Errorf("value needs %d bits, digest holds %d", v.BitLen(), size)
	}
	bits := make([]bool, size)
	for i := range bits {
		bits[i] = v.Bit(i) == 1
	}
	return bits, nil
}

// BitsToVariables converts concrete bits to frontend variables holding 0 or
// 1, for use in witness assignments.
func BitsToVariables(bits []bool) []frontend.Variable {
	vars := make([]frontend.Variable, len(bits))
	for i, b := range bits {
		if b {
			vars[i] = 1
		} else {
			vars[i] = 0
		}
	}
	return vars
}

// PackBits serializes a bit vector into bytes, eight bits per byte, little
// endian within each byte. The bit length is not stored; callers know the
// digest width.
func PackBits(bits []bool) []byte {
	data := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b {
			data[i/8] |= 1 << (i % 8)
		}
	}
	return data
}

// UnpackBits is the inverse of PackBits for a known bit length.
func UnpackBits(data []byte, size int) ([]bool, error) {
	if len(data) != (size+7)/8 {
		return nil, fmt.Errorf("packed digest is %d bytes, want %d", len(data), (size+7)/8)
	}
	bits := make([]bool, size)
	for i := range bits {
		bits[i] = data[i/8]&(1<<(i%8)) != 0
	}
	return bits, nil
}

// PackVariables returns the weighted sum Σ bits[i]·2^i of circuit variables
// as a linear combination. No constraints are emitted: products by constants
// and additions are free in the r1cs builder.
func PackVariables(api frontend.API, bits []frontend.Variable) frontend.Variable {
	res := frontend.Variable(0)
	coef := new(big.Int)
	one := big.NewInt(1)
	for i, b := range bits {
		res = api.Add(res, api.Mul(coef.Lsh(one, uint(i)), b))
	}
	return res
}

// AddressBits expands a memory address into its little-endian bit vector of
// length depth. Bit depth-1 (the most significant one) selects the direction
// at the level nearest the root.
func AddressBits(addr *big.Int, depth int) ([]bool, error) {
	return BigIntToBits(addr, depth)
}
