package arith

import (
	"github.com/cronokirby/saferith"
)

// Modulus wraps a saferith.Modulus and enables faster modular exponentiation when
// the factorization is known.
// When n = p⋅q, xᵉ (mod n) can be computed with only two exponentiations
// with p and q respectively.
type Modulus struct {
	// represents modulus n
	*saferith.Modulus
	// n = p⋅q
	p, q *saferith.Modulus
	// pInv = p⁻¹ (mod q)
	pNat, pInv *saferith.Nat
}

// ModulusFromFactors creates the necessary cached values to accelerate
// exponentiation mod n.
func ModulusFromFactors(p, q *saferith.Nat) *Modulus {
	nNat := new(saferith.Nat).Mul(p, q, -1)
	nMod := saferith.ModulusFromNat(nNat)
	pMod := saferith.ModulusFromNat(p)
	qMod := saferith.ModulusFromNat(q)
	pInvQ := new(saferith.Nat).ModInverse(p, qMod)
	pNat := new(saferith.Nat).SetNat(p)
	return &Modulus{
		Modulus: nMod,
		p:       pMod,
		q:       qMod,
		pNat:    pNat,
		pInv:    pInvQ,
	}
}

// Exp is equivalent to (saferith.Nat).Exp(x, e, n.Modulus).
// It returns xᵉ (mod n).
func (n *Modulus) Exp(x, e *saferith.Nat) *saferith.Nat {
	if n.hasFactorization() {
		var xp, xq saferith.Nat
		xp.Exp(x, e, n.p) // x₁ = xᵉ (mod p₁)
		xq.Exp(x, e, n.q) // x₂ = xᵉ (mod p₂)
		// r = x₁ + p₁ ⋅ [p₁⁻¹ (mod p₂)] ⋅ [x₂ - x₁] (mod n)
		r := xq.ModSub(&xq, &xp, n.Modulus)
		r.ModMul(r, n.pInv, n.Modulus)
		r.ModMul(r, n.pNat, n.Modulus)
		r.ModAdd(r, &xp, n.Modulus)
		return r
	}
	return new(saferith.Nat).Exp(x, e, n.Modulus)
}

// Forget drops the cached factorization, leaving a plain public modulus.
//
// The cached values are overwritten before being released.
func (n *Modulus) Forget() {
	if n.pNat != nil {
		n.pNat.SetUint64(0)
	}
	if n.pInv != nil {
		n.pInv.SetUint64(0)
	}
	n.p, n.q, n.pNat, n.pInv = nil, nil, nil, nil
}

func (n Modulus) hasFactorization() bool {
	return n.p != nil && n.q != nil && n.pNat != nil && n.pInv != nil
}

// PowerOfTwo returns 2ᵗ (mod m), using a single exponentiation.
//
// This is only useful to whoever knows the order of the group in which the squarings happen.
func PowerOfTwo(t uint64, m *saferith.Modulus) *saferith.Nat {
	two := new(saferith.Nat).SetUint64(2)
	e := new(saferith.Nat).SetUint64(t)
	return new(saferith.Nat).Exp(two, e, m)
}

// RepeatedSquare returns x^(2ᵗ) (mod n), computed with exactly t sequential modular squarings.
//
// Each squaring depends on the previous one. This is the delay function of the time-lock puzzles,
// so it must never be replaced by an exponentiation.
// If step is not nil, it is called after every squaring with the number of squarings done so far.
func RepeatedSquare(x *saferith.Nat, t uint64, n *saferith.Modulus, step func(done uint64)) *saferith.Nat {
	out := new(saferith.Nat).Mod(x, n)
	for i := uint64(0); i < t; i++ {
		out.ModMul(out, out, n)
		if step != nil {
			step(i + 1)
		}
	}
	return out
}
