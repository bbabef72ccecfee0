package utils

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestBigIntBitsRoundtrip(t *testing.T) {
	c := qt.New(t)

	v, ok := new(big.Int).SetString("deadbeefcafe1234", 16)
	c.Assert(ok, qt.IsTrue)
	bits, err := BigIntToBits(v, 64)
	c.Assert(err, qt.IsNil)
	c.Assert(bits[0], qt.IsFalse) // 0x...34, lsb 0
	c.Assert(bits[2], qt.IsTrue)
	c.Assert(BitsToBigInt(bits).Cmp(v), qt.Equals, 0)

	// the bit vector may be wider than the value
	wide, err := BigIntToBits(big.NewInt(5), 254)
	c.Assert(err, qt.IsNil)
	c.Assert(BitsToBigInt(wide).Int64(), qt.Equals, int64(5))

	_, err = BigIntToBits(big.NewInt(-1), 64)
	c.Assert(err, qt.IsNotNil)
	_, err = BigIntToBits(big.NewInt(256), 8)
	c.Assert(err, qt.IsNotNil)
}

func TestPackBitsRoundtrip(t *testing.T) {
	c := qt.New(t)

	bits, err := BigIntToBits(big.NewInt(0x1a5), 11)
	c.Assert(err, qt.IsNil)
	packed := PackBits(bits)
	c.Assert(packed, qt.DeepEquals, []byte{0xa5, 0x01})

	back, err := UnpackBits(packed, 11)
	c.Assert(err, qt.IsNil)
	c.Assert(back, qt.DeepEquals, bits)

	_, err = UnpackBits(packed, 32)
	c.Assert(err, qt.IsNotNil)
}

func TestBitsToVariables(t *testing.T) {
	c := qt.New(t)
	vars := BitsToVariables([]bool{true, false, true})
	c.Assert(vars, qt.HasLen, 3)
	c.Assert(vars[0], qt.Equals, 1)
	c.Assert(vars[1], qt.Equals, 0)
	c.Assert(vars[2], qt.Equals, 1)
}

func TestAddressBits(t *testing.T) {
	c := qt.New(t)

	bits, err := AddressBits(big.NewInt(6), 4)
	c.Assert(err, qt.IsNil)
	c.Assert(bits, qt.DeepEquals, []bool{false, true, true, false})

	_, err = AddressBits(big.NewInt(16), 4)
	c.Assert(err, qt.IsNotNil)
}
