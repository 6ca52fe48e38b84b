package curve

import (
	"fmt"

	"filippo.io/edwards25519"
	"github.com/cronokirby/saferith"
)

// ℓ = 2²⁵² + 27742317777372353535851937790883648493
var edwards25519OrderNat, _ = new(saferith.Nat).SetHex("1000000000000000000000000000000014DEF9DEA2F79CD65812631A5CF5D3ED")
var edwards25519Order = saferith.ModulusFromNat(edwards25519OrderNat)

// Edwards25519 is the prime order subgroup of Curve25519 in twisted Edwards form,
// the group Monero keys and commitments live in.
type Edwards25519 struct{}

func (Edwards25519) NewPoint() Point {
	return &Edwards25519Point{value: *edwards25519.NewIdentityPoint()}
}

func (Edwards25519) NewBasePoint() Point {
	return &Edwards25519Point{value: *edwards25519.NewGeneratorPoint()}
}

func (Edwards25519) NewScalar() Scalar {
	return &Edwards25519Scalar{value: *edwards25519.NewScalar()}
}

func (Edwards25519) Name() string {
	return "edwards25519"
}

func (Edwards25519) ScalarBits() int {
	return 253
}

func (Edwards25519) SafeScalarBytes() int {
	return 64
}

func (Edwards25519) Order() *saferith.Modulus {
	return edwards25519Order
}

// Edwards25519Scalar is an integer mod ℓ.
type Edwards25519Scalar struct {
	value edwards25519.Scalar
}

func edwards25519CastScalar(generic Scalar) *Edwards25519Scalar {
	out, ok := generic.(*Edwards25519Scalar)
	if !ok {
		panic(fmt.Sprintf("failed to convert to edwards25519Scalar: %v", generic))
	}
	return out
}

func (*Edwards25519Scalar) Curve() Curve {
	return Edwards25519{}
}

// MarshalBinary returns the canonical 32 byte little-endian encoding of s.
func (s *Edwards25519Scalar) MarshalBinary() ([]byte, error) {
	return s.value.Bytes(), nil
}

func (s *Edwards25519Scalar) UnmarshalBinary(data []byte) error {
	if len(data) != 32 {
		return fmt.Errorf("invalid length for edwards25519 scalar: %d", len(data))
	}
	if _, err := s.value.SetCanonicalBytes(data); err != nil {
		return fmt.Errorf("invalid bytes for edwards25519 scalar: %w", err)
	}
	return nil
}

func (s *Edwards25519Scalar) Add(that Scalar) Scalar {
	other := edwards25519CastScalar(that)

	s.value.Add(&s.value, &other.value)
	return s
}

func (s *Edwards25519Scalar) Sub(that Scalar) Scalar {
	other := edwards25519CastScalar(that)

	s.value.Subtract(&s.value, &other.value)
	return s
}

func (s *Edwards25519Scalar) Mul(that Scalar) Scalar {
	other := edwards25519CastScalar(that)

	s.value.Multiply(&s.value, &other.value)
	return s
}

func (s *Edwards25519Scalar) Invert() Scalar {
	s.value.Invert(&s.value)
	return s
}

func (s *Edwards25519Scalar) Negate() Scalar {
	s.value.Negate(&s.value)
	return s
}

func (s *Edwards25519Scalar) Equal(that Scalar) bool {
	other := edwards25519CastScalar(that)

	return s.value.Equal(&other.value) == 1
}

func (s *Edwards25519Scalar) IsZero() bool {
	return s.value.Equal(edwards25519.NewScalar()) == 1
}

func (s *Edwards25519Scalar) Set(that Scalar) Scalar {
	other := edwards25519CastScalar(that)

	s.value.Set(&other.value)
	return s
}

func (s *Edwards25519Scalar) SetNat(x *saferith.Nat) Scalar {
	reduced := new(saferith.Nat).Mod(x, edwards25519Order)
	buf := make([]byte, 32)
	reduced.FillBytes(buf)
	reverse(buf)
	if _, err := s.value.SetCanonicalBytes(buf); err != nil {
		// reduced < ℓ, so the encoding is always canonical
		panic(fmt.Sprintf("edwards25519Scalar.SetNat: %v", err))
	}
	return s
}

func (s *Edwards25519Scalar) Nat() *saferith.Nat {
	buf := s.value.Bytes()
	reverse(buf)
	return new(saferith.Nat).SetBytes(buf)
}

func (s *Edwards25519Scalar) Act(that Point) Point {
	other := edwards25519CastPoint(that)
	out := new(Edwards25519Point)
	out.value.ScalarMult(&s.value, &other.value)
	return out
}

func (s *Edwards25519Scalar) ActOnBase() Point {
	out := new(Edwards25519Point)
	out.value.ScalarBaseMult(&s.value)
	return out
}

// Edwards25519Point is an element of the edwards25519 group.
type Edwards25519Point struct {
	value edwards25519.Point
}

func edwards25519CastPoint(generic Point) *Edwards25519Point {
	out, ok := generic.(*Edwards25519Point)
	if !ok {
		panic(fmt.Sprintf("failed to convert to edwards25519Point: %v", generic))
	}
	return out
}

func (*Edwards25519Point) Curve() Curve {
	return Edwards25519{}
}

// MarshalBinary returns the 32 byte compressed encoding of p.
func (p *Edwards25519Point) MarshalBinary() ([]byte, error) {
	return p.value.Bytes(), nil
}

func (p *Edwards25519Point) UnmarshalBinary(data []byte) error {
	if len(data) != 32 {
		return fmt.Errorf("invalid length for edwards25519Point: %d", len(data))
	}
	if _, err := p.value.SetBytes(data); err != nil {
		return fmt.Errorf("edwards25519Point.UnmarshalBinary: %w", err)
	}
	return nil
}

func (p *Edwards25519Point) Add(that Point) Point {
	other := edwards25519CastPoint(that)
	out := new(Edwards25519Point)
	out.value.Add(&p.value, &other.value)
	return out
}

func (p *Edwards25519Point) Sub(that Point) Point {
	other := edwards25519CastPoint(that)
	out := new(Edwards25519Point)
	out.value.Subtract(&p.value, &other.value)
	return out
}

func (p *Edwards25519Point) Set(that Point) Point {
	other := edwards25519CastPoint(that)

	p.value.Set(&other.value)
	return p
}

func (p *Edwards25519Point) Negate() Point {
	out := new(Edwards25519Point)
	out.value.Negate(&p.value)
	return out
}

func (p *Edwards25519Point) Equal(that Point) bool {
	other := edwards25519CastPoint(that)

	return p.value.Equal(&other.value) == 1
}

func (p *Edwards25519Point) IsIdentity() bool {
	return p.value.Equal(edwards25519.NewIdentityPoint()) == 1
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
