package curve

import (
	"encoding"

	"github.com/cronokirby/saferith"
)

// Curve represents the prime order group an elliptic curve defines.
//
// Scalars are integers modulo Order(), and Points are elements of the group,
// produced by acting with a Scalar on NewBasePoint().
type Curve interface {
	// NewPoint returns the identity element of the group.
	NewPoint() Point
	// NewBasePoint returns the canonical generator G.
	NewBasePoint() Point
	// NewScalar returns the scalar 0.
	NewScalar() Scalar
	// Name returns a unique name for the group, used when decoding.
	Name() string
	// ScalarBits returns the number of significant bits in a scalar.
	ScalarBits() int
	// SafeScalarBytes returns the number of random bytes to sample when generating a scalar,
	// so that the modular reduction bias is negligible.
	SafeScalarBytes() int
	// Order returns the order of the group, as a Modulus.
	Order() *saferith.Modulus
}

// Scalar represents an integer mod the order of the group.
//
// Arithmetic methods modify the receiver and return it, allowing chained calls.
type Scalar interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	// Curve returns the group this scalar belongs to.
	Curve() Curve
	// Add sets s = s + that, and returns s.
	Add(Scalar) Scalar
	// Sub sets s = s - that, and returns s.
	Sub(Scalar) Scalar
	// Mul sets s = s ⋅ that, and returns s.
	Mul(Scalar) Scalar
	// Invert sets s = s⁻¹, and returns s. The inverse of 0 is 0.
	Invert() Scalar
	// Negate sets s = -s, and returns s.
	Negate() Scalar
	// Equal returns true if both scalars represent the same integer.
	Equal(Scalar) bool
	// IsZero returns true if s = 0.
	IsZero() bool
	// Set sets s = that, and returns s.
	Set(Scalar) Scalar
	// SetNat sets s = x mod Order(), and returns s.
	SetNat(*saferith.Nat) Scalar
	// Nat returns the integer value of s in [0, Order()).
	Nat() *saferith.Nat
	// Act returns s ⋅ P.
	Act(Point) Point
	// ActOnBase returns s ⋅ G.
	ActOnBase() Point
}

// Point represents an element of the group.
//
// Unlike Scalar, arithmetic methods return a new Point and leave the receiver untouched.
type Point interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	// Curve returns the group this point belongs to.
	Curve() Curve
	// Add returns p + that.
	Add(Point) Point
	// Sub returns p - that.
	Sub(Point) Point
	// Set sets p = that, and returns p.
	Set(Point) Point
	// Negate returns -p.
	Negate() Point
	// Equal returns true if both points are the same group element.
	Equal(Point) bool
	// IsIdentity returns true if p is the identity element.
	IsIdentity() bool
}

// FromHash converts a hash value to a Scalar.
//
// There is some disagreement about how this should be done.
// [NSA] suggests that this is done in the obvious
// manner, but [SECG] truncates the hash to the bit-length of the curve order
// first. We follow [SECG] because that's what OpenSSL does. Additionally,
// OpenSSL right shifts excess bits from the number if the hash is too large
// and we mirror that too.
//
// Taken from crypto/ecdsa.
func FromHash(group Curve, h []byte) Scalar {
	order := group.Order()
	orderBits := order.BitLen()
	orderBytes := (orderBits + 7) / 8
	if len(h) > orderBytes {
		h = h[:orderBytes]
	}
	s := new(saferith.Nat).SetBytes(h)
	excess := len(h)*8 - orderBits
	if excess > 0 {
		s.Rsh(s, uint(excess), -1)
	}
	return group.NewScalar().SetNat(s)
}

// FromName returns the group registered under name, or nil if it is unknown.
func FromName(name string) Curve {
	switch name {
	case Edwards25519{}.Name():
		return Edwards25519{}
	case Secp256k1{}.Name():
		return Secp256k1{}
	default:
		return nil
	}
}

// Clear overwrites a scalar with 0.
func Clear(s Scalar) {
	if s == nil {
		return
	}
	s.Set(s.Curve().NewScalar())
}
