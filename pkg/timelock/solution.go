package timelock

import (
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/paymo-xmr/vtdlog/pkg/math/arith"
)

// Solution is the integer hidden in a Puzzle.
type Solution struct {
	s *saferith.Nat
	// width is the byte length of N
	width int
}

// Solve recovers the integer hidden in z, performing exactly pp.Hardness() sequential squarings.
//
// It returns ErrParamsMismatch if z is not bound to pp, and ErrDecoding if z is malformed.
func Solve(pp *Params, z *Puzzle) (*Solution, error) {
	return SolveWithProgress(pp, z, nil)
}

// SolveWithProgress is Solve, calling step after each squaring with the number done so far.
func SolveWithProgress(pp *Params, z *Puzzle, step func(done uint64)) (*Solution, error) {
	if pp.cleared() || z == nil || !z.params.Equal(pp) {
		return nil, ErrParamsMismatch
	}
	if z.u == nil || z.v == nil {
		return nil, ErrDecoding
	}
	if z.u.IsUnit(pp.n) != 1 {
		return nil, fmt.Errorf("u is not a unit: %w", ErrDecoding)
	}

	// w = u^(2ᵀ) (mod N), sequentially
	w := arith.RepeatedSquare(z.u, pp.hardness, pp.n, step)
	defer w.SetUint64(0)

	// x = v ⋅ (wᴺ)⁻¹ = (1+N)ˢ (mod N²)
	wN := new(saferith.Nat).Exp(w, pp.nNat, pp.nSquared)
	wN.ModInverse(wN, pp.nSquared)
	x := wN.ModMul(wN, z.v, pp.nSquared)

	// x ≡ 1 (mod N) iff v has the expected form
	oneNat := new(saferith.Nat).SetUint64(1)
	if new(saferith.Nat).Mod(x, pp.n).Eq(oneNat) != 1 {
		x.SetUint64(0)
		return nil, ErrDecoding
	}

	// s = (x - 1) / N
	s := x.Sub(x, oneNat, -1)
	s.Div(s, pp.n, -1)

	return &Solution{s: s, width: (pp.n.BitLen() + 7) / 8}, nil
}

// Nat returns the solution as an integer.
func (sol *Solution) Nat() *saferith.Nat {
	return new(saferith.Nat).SetNat(sol.s)
}

// Bytes returns the big-endian encoding of the solution, with the byte length of N.
func (sol *Solution) Bytes() []byte {
	out := make([]byte, sol.width)
	return sol.s.Big().FillBytes(out)
}

// BytesWidth returns the big-endian encoding of the solution on exactly width bytes.
//
// It returns ErrDecoding if the solution does not fit.
func (sol *Solution) BytesWidth(width int) ([]byte, error) {
	if sol.s.TrueLen() > 8*width {
		return nil, fmt.Errorf("solution does not fit %d bytes: %w", width, ErrDecoding)
	}
	out := make([]byte, width)
	return sol.s.Big().FillBytes(out), nil
}

// Clear overwrites the solution.
func (sol *Solution) Clear() {
	if sol == nil || sol.s == nil {
		return
	}
	sol.s.SetUint64(0)
}
