package memory

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
)

// SelectorConstraintsPerBit is the exact number of R1CS constraints the
// selector emits per bit position under the r1cs builder: one to materialize
// the product IsRight·(Right[i]−Left[i]) and one for the equality with
// Known[i]−Left[i].
const SelectorConstraintsPerBit = 2

// DigestSelector pins a known digest to one of two candidate digests, chosen
// by a control bit. The unselected candidate is left fully unconstrained so
// the witness can place the sibling digest there. This is what keeps the
// taken tree side hidden: the constraint system is identical whichever side
// the path goes.
//
// The control bit is consumed as-is; its bitness is the caller's contract.
type DigestSelector struct {
	IsRight frontend.Variable
	Known   Digest
	Left    Digest
	Right   Digest
}

// GenerateConstraints emits, per bit position i, the relation
//
//	IsRight · (Right[i] − Left[i]) = Known[i] − Left[i]
//
// which reads Right[i] = Known[i] when IsRight is 1 and Left[i] = Known[i]
// when it is 0.
func (s DigestSelector) GenerateConstraints(api frontend.API) error {
	if len(s.Left) != len(s.Known) || len(s.Right) != len(s.Known) {
		return fmt.Errorf("selector digest widths differ: known %d, left %d, right %d",
			len(s.Known), len(s.Left), len(s.Right))
	}
	for i := range s.Known {
		picked := api.Mul(s.IsRight, api.Sub(s.Right[i], s.Left[i]))
		api.AssertIsEqual(picked, api.Sub(s.Known[i], s.Left[i]))
	}
	return nil
}

// PropagateKnown is the witness half of the selector: it places the known
// digest in the slot chosen by the control bit and the sibling in the other.
func PropagateKnown(isRight bool, known, sibling []bool) (left, right []bool) {
	if isRight {
		return sibling, known
	}
	return known, sibling
}
