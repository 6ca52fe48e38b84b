package sample

import (
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/paymo-xmr/vtdlog/pkg/math/curve"
)

const maxIterations = 255

var ErrMaxIterations = fmt.Errorf("sample: failed to generate after %d iterations", maxIterations)

func mustReadBits(rand io.Reader, buf []byte) {
	for i := 0; i < maxIterations; i++ {
		if _, err := io.ReadFull(rand, buf); err == nil {
			return
		}
	}
	panic(ErrMaxIterations)
}

// ModN samples an element of ℤₙ.
func ModN(rand io.Reader, n *saferith.Modulus) *saferith.Nat {
	out := new(saferith.Nat)
	buf := make([]byte, (n.BitLen()+7)/8)
	for {
		mustReadBits(rand, buf)
		out.SetBytes(buf)
		_, _, lt := out.CmpMod(n)
		if lt == 1 {
			break
		}
	}
	return out
}

// UnitModN returns a u ∈ ℤₙˣ.
func UnitModN(rand io.Reader, n *saferith.Modulus) *saferith.Nat {
	for i := 0; i < maxIterations; i++ {
		// PERF: Reuse buffer instead of allocating each time
		u := ModN(rand, n)
		if u.IsUnit(n) == 1 {
			return u
		}
	}
	panic(ErrMaxIterations)
}

// IntRange returns an integer chosen uniformly in [lo, hi].
//
// It panics if hi < lo.
func IntRange(rand io.Reader, lo, hi int) int {
	if hi < lo {
		panic(fmt.Sprintf("sample.IntRange: empty range [%d, %d]", lo, hi))
	}
	if hi == lo {
		return lo
	}
	width := saferith.ModulusFromUint64(uint64(hi-lo) + 1)
	offset := ModN(rand, width).Big().Uint64()
	return lo + int(offset)
}

// Scalar returns a new *curve.Scalar by reading bytes from rand.
func Scalar(rand io.Reader, group curve.Curve) curve.Scalar {
	buffer := make([]byte, group.SafeScalarBytes())
	mustReadBits(rand, buffer)
	n := new(saferith.Nat).SetBytes(buffer)
	return group.NewScalar().SetNat(n)
}

// ScalarUnit returns a new *curve.Scalar by reading bytes from rand, which is guaranteed to be nonzero.
func ScalarUnit(rand io.Reader, group curve.Curve) curve.Scalar {
	for i := 0; i < maxIterations; i++ {
		s := Scalar(rand, group)
		if !s.IsZero() {
			return s
		}
	}
	panic(ErrMaxIterations)
}

// ScalarPointPair returns a new *curve.Scalar/*curve.Point tuple (x,X) by reading bytes from rand.
// The tuple satisfies X = x⋅G where G is the base point of the curve.
func ScalarPointPair(rand io.Reader, group curve.Curve) (curve.Scalar, curve.Point) {
	s := Scalar(rand, group)
	return s, s.ActOnBase()
}
