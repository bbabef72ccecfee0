package memory

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
)

// Digest is an ordered, fixed-width sequence of bit variables representing a
// hash output inside the circuit. Bits are little-endian: index i carries
// weight 2^i.
type Digest []frontend.Variable

// NewDigest allocates a digest of the given width. In a circuit shape the
// slots stay nil and become witness variables at compile time; in an
// assignment they are filled with concrete bits via Fill.
func NewDigest(size int) Digest {
	return make(Digest, size)
}

// GenerateConstraints emits the bitness constraint b·(b−1) = 0 for every bit
// of the digest. Each digest must be constrained exactly once by whichever
// gadget owns it.
func (d Digest) GenerateConstraints(api frontend.API) {
	for _, b := range d {
		api.AssertIsBoolean(b)
	}
}

// Fill writes concrete bit values into an assignment instance of the digest.
func (d Digest) Fill(bits []bool) error {
	if len(bits) != len(d) {
		return fmt.Errorf("filling %d-bit digest with %d bits", len(d), len(bits))
	}
	for i, b := range bits {
		if b {
			d[i] = 1
		} else {
			d[i] = 0
		}
	}
	return nil
}
