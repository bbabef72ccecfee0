package knapsack

import (
	"crypto/rand"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/test"
	qt "github.com/frankban/quicktest"

	"github.com/zkmem/gnark-memory-primitives/utils"
)

type hashCircuit struct {
	In  []frontend.Variable
	Out []frontend.Variable

	h       *Hasher
	enforce bool
}

func (c *hashCircuit) Define(api frontend.API) error {
	return c.h.AssertHash(api, c.In, c.Out, c.enforce)
}

func newHashCircuit(h *Hasher, enforce bool) *hashCircuit {
	return &hashCircuit{
		In:      make([]frontend.Variable, h.InputLen()),
		Out:     make([]frontend.Variable, DigestLen),
		h:       h,
		enforce: enforce,
	}
}

func randomBits(t *testing.T, n int) []bool {
	t.Helper()
	buf := make([]byte, (n+7)/8)
	if _, err := rand.Read(buf); err != nil {
		t.Fatalf("reading randomness: %v", err)
	}
	bits, err := utils.UnpackBits(buf, n)
	if err != nil {
		t.Fatalf("unpacking bits: %v", err)
	}
	return bits
}

func TestHashDeterministic(t *testing.T) {
	c := qt.New(t)
	p, err := NewParameters(2 * DigestLen)
	c.Assert(err, qt.IsNil)
	h := NewHasher(p)

	in := randomBits(t, h.InputLen())
	first, err := h.Hash(in)
	c.Assert(err, qt.IsNil)
	c.Assert(first, qt.HasLen, DigestLen)
	second, err := h.Hash(in)
	c.Assert(err, qt.IsNil)
	c.Assert(second, qt.DeepEquals, first)

	other := append([]bool(nil), in...)
	other[17] = !other[17]
	third, err := h.Hash(other)
	c.Assert(err, qt.IsNil)
	c.Assert(third, qt.Not(qt.DeepEquals), first)

	// width is part of the contract
	_, err = h.Hash(in[:h.InputLen()-1])
	c.Assert(err, qt.IsNotNil)
}

func TestParametersFromSeed(t *testing.T) {
	c := qt.New(t)
	seed := []byte("shared tree seed")
	p1, err := NewParametersFromSeed(2*DigestLen, seed)
	c.Assert(err, qt.IsNil)
	p2, err := NewParametersFromSeed(2*DigestLen, seed)
	c.Assert(err, qt.IsNil)

	in := randomBits(t, 2*DigestLen)
	d1, err := NewHasher(p1).Hash(in)
	c.Assert(err, qt.IsNil)
	d2, err := NewHasher(p2).Hash(in)
	c.Assert(err, qt.IsNil)
	c.Assert(d1, qt.DeepEquals, d2)

	p3, err := NewParametersFromSeed(2*DigestLen, []byte("another seed"))
	c.Assert(err, qt.IsNil)
	d3, err := NewHasher(p3).Hash(in)
	c.Assert(err, qt.IsNil)
	c.Assert(d3, qt.Not(qt.DeepEquals), d1)
}

func TestSharedParameters(t *testing.T) {
	c := qt.New(t)
	p1, err := Shared(512)
	c.Assert(err, qt.IsNil)
	p2, err := Shared(512)
	c.Assert(err, qt.IsNil)
	c.Assert(p1 == p2, qt.IsTrue)

	p3, err := Shared(1024)
	c.Assert(err, qt.IsNil)
	c.Assert(p3 == p1, qt.IsFalse)
	c.Assert(p3.InputLen(), qt.Equals, 1024)
}

func TestAssertHash(t *testing.T) {
	c := qt.New(t)
	field := ecc.BN254.ScalarField()
	p, err := NewParameters(2 * DigestLen)
	c.Assert(err, qt.IsNil)
	h := NewHasher(p)

	circuit := newHashCircuit(h, false)
	ccs, err := frontend.Compile(field, r1cs.NewBuilder, circuit)
	c.Assert(err, qt.IsNil)
	c.Assert(ccs.GetNbConstraints(), qt.Equals, h.Constraints(false))
	c.Assert(h.Constraints(false), qt.Equals, 1)

	in := randomBits(t, h.InputLen())
	out, err := h.Hash(in)
	c.Assert(err, qt.IsNil)

	a := newHashCircuit(h, false)
	a.In = utils.BitsToVariables(in)
	a.Out = utils.BitsToVariables(out)
	c.Assert(test.IsSolved(circuit, a, field), qt.IsNil)

	// a single flipped output bit breaks the packing equality
	bad := append([]bool(nil), out...)
	bad[42] = !bad[42]
	a.Out = utils.BitsToVariables(bad)
	c.Assert(test.IsSolved(circuit, a, field), qt.IsNotNil)
}

func TestAssertHashInputBitness(t *testing.T) {
	c := qt.New(t)
	field := ecc.BN254.ScalarField()
	p, err := NewParameters(2 * DigestLen)
	c.Assert(err, qt.IsNil)
	h := NewHasher(p)

	circuit := newHashCircuit(h, true)
	ccs, err := frontend.Compile(field, r1cs.NewBuilder, circuit)
	c.Assert(err, qt.IsNil)
	c.Assert(ccs.GetNbConstraints(), qt.Equals, h.Constraints(true))
	c.Assert(h.Constraints(true), qt.Equals, 1+h.InputLen())
}
