package timelock

import (
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/paymo-xmr/vtdlog/pkg/math/sample"
)

// Puzzle is a pair (u, v) hiding an integer under some Params.
//
// A Puzzle keeps a reference to the Params it was generated under, and is
// meaningless without them.
type Puzzle struct {
	params *Params
	// u ∈ ℤₙ, v ∈ ℤₙ²
	u, v *saferith.Nat
}

// EmptyPuzzle creates an empty Puzzle bound to pp, which can be used to unmarshal a puzzle
// generated under pp.
func EmptyPuzzle(pp *Params) *Puzzle {
	return &Puzzle{params: pp}
}

// Params returns the parameters the puzzle is bound to.
func (z *Puzzle) Params() *Params {
	return z.params
}

// Generate creates a puzzle hiding the big-endian integer represented by secret.
//
// It returns ErrEncoding if that integer is not smaller than N.
func Generate(rand io.Reader, pp *Params, secret []byte) (*Puzzle, error) {
	return GenerateNat(rand, pp, new(saferith.Nat).SetBytes(secret))
}

// GenerateNat creates a puzzle hiding s.
//
// It returns ErrEncoding if s is not smaller than N.
//
//	u = gʳ (mod N), v = h^(r⋅N)⋅(1+N)ˢ (mod N²), for r ← ℤ_N².
func GenerateNat(rand io.Reader, pp *Params, s *saferith.Nat) (*Puzzle, error) {
	if pp.cleared() {
		return nil, ErrParamsMismatch
	}
	if _, _, lt := s.CmpMod(pp.n); lt != 1 {
		return nil, fmt.Errorf("%d bit value: %w", s.TrueLen(), ErrEncoding)
	}

	r := sample.ModN(rand, pp.nSquared)
	defer r.SetUint64(0)

	// u = gʳ (mod N)
	u := new(saferith.Nat).Exp(pp.g, r, pp.n)

	// v = h^(r⋅N) (mod N²)
	rN := new(saferith.Nat).Mul(r, pp.nNat, -1)
	defer rN.SetUint64(0)
	v := new(saferith.Nat).Exp(pp.h, rN, pp.nSquared)

	// (1+N)ˢ = 1 + s⋅N (mod N²)
	oneNat := new(saferith.Nat).SetUint64(1)
	sN := new(saferith.Nat).ModMul(s, pp.nNat, pp.nSquared)
	sN.ModAdd(sN, oneNat, pp.nSquared)
	v.ModMul(v, sN, pp.nSquared)
	sN.SetUint64(0)

	return &Puzzle{params: pp, u: u, v: v}, nil
}

// Combine returns a puzzle whose solution is the sum, modulo N, of the solutions of all puzzles.
//
// Every puzzle must be bound to pp, otherwise ErrParamsMismatch is returned.
// Combining no puzzles gives a puzzle of 0.
//
//	u = ∏ uᵢ (mod N), v = ∏ vᵢ (mod N²)
func Combine(pp *Params, puzzles ...*Puzzle) (*Puzzle, error) {
	if pp.cleared() {
		return nil, ErrParamsMismatch
	}
	u := new(saferith.Nat).SetUint64(1)
	v := new(saferith.Nat).SetUint64(1)
	for i, z := range puzzles {
		if z == nil || !z.params.Equal(pp) {
			return nil, fmt.Errorf("puzzle %d: %w", i+1, ErrParamsMismatch)
		}
		if z.u == nil || z.v == nil {
			return nil, fmt.Errorf("puzzle %d: %w", i+1, ErrDecoding)
		}
		u.ModMul(u, z.u, pp.n)
		v.ModMul(v, z.v, pp.nSquared)
	}
	return &Puzzle{params: pp, u: u, v: v}, nil
}

// Equal returns true if both puzzles are the same ciphertext under the same parameters.
func (z *Puzzle) Equal(other *Puzzle) bool {
	if z.u == nil || z.v == nil || other.u == nil || other.v == nil {
		return false
	}
	return z.params.Equal(other.params) && z.u.Eq(other.u) == 1 && z.v.Eq(other.v) == 1
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (z *Puzzle) WriteTo(w io.Writer) (int64, error) {
	data, err := z.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (*Puzzle) Domain() string {
	return "Time-Lock Puzzle"
}

// Clear overwrites the puzzle and drops its parameters.
//
// The parameters themselves are not cleared, since other puzzles may share them.
func (z *Puzzle) Clear() {
	if z == nil {
		return
	}
	if z.u != nil {
		z.u.SetUint64(0)
	}
	if z.v != nil {
		z.v.SetUint64(0)
	}
	z.params, z.u, z.v = nil, nil, nil
}
