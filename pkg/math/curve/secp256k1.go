package curve

import (
	"errors"
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

var secp256k1OrderNat, _ = new(saferith.Nat).SetHex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141")
var secp256k1Order = saferith.ModulusFromNat(secp256k1OrderNat)

// Secp256k1 is the curve used by Bitcoin, backed by decred's implementation.
type Secp256k1 struct{}

func (Secp256k1) NewPoint() Point {
	return new(Secp256k1Point)
}

func (Secp256k1) NewBasePoint() Point {
	var one secp256k1.ModNScalar
	one.SetInt(1)
	out := new(Secp256k1Point)
	secp256k1.ScalarBaseMultNonConst(&one, &out.value)
	return out
}

func (Secp256k1) NewScalar() Scalar {
	return new(Secp256k1Scalar)
}

func (Secp256k1) Name() string {
	return "secp256k1"
}

func (Secp256k1) ScalarBits() int {
	return 256
}

func (Secp256k1) SafeScalarBytes() int {
	return 48
}

func (Secp256k1) Order() *saferith.Modulus {
	return secp256k1Order
}

// Secp256k1Scalar is an integer mod the order of secp256k1.
type Secp256k1Scalar struct {
	value secp256k1.ModNScalar
}

func secp256k1CastScalar(generic Scalar) *Secp256k1Scalar {
	out, ok := generic.(*Secp256k1Scalar)
	if !ok {
		panic(fmt.Sprintf("failed to convert to secp256k1Scalar: %v", generic))
	}
	return out
}

func (*Secp256k1Scalar) Curve() Curve {
	return Secp256k1{}
}

// MarshalBinary returns the 32 byte big-endian encoding of s.
func (s *Secp256k1Scalar) MarshalBinary() ([]byte, error) {
	data := s.value.Bytes()
	return data[:], nil
}

func (s *Secp256k1Scalar) UnmarshalBinary(data []byte) error {
	if len(data) != 32 {
		return fmt.Errorf("invalid length for secp256k1 scalar: %d", len(data))
	}
	var exactData [32]byte
	copy(exactData[:], data)
	if s.value.SetBytes(&exactData) != 0 {
		return errors.New("invalid bytes for secp256k1 scalar")
	}
	return nil
}

func (s *Secp256k1Scalar) Add(that Scalar) Scalar {
	other := secp256k1CastScalar(that)

	s.value.Add(&other.value)
	return s
}

func (s *Secp256k1Scalar) Sub(that Scalar) Scalar {
	other := secp256k1CastScalar(that)
	var negated secp256k1.ModNScalar
	negated.NegateVal(&other.value)

	s.value.Add(&negated)
	return s
}

func (s *Secp256k1Scalar) Mul(that Scalar) Scalar {
	other := secp256k1CastScalar(that)

	s.value.Mul(&other.value)
	return s
}

func (s *Secp256k1Scalar) Invert() Scalar {
	s.value.InverseNonConst()
	return s
}

func (s *Secp256k1Scalar) Negate() Scalar {
	s.value.Negate()
	return s
}

func (s *Secp256k1Scalar) Equal(that Scalar) bool {
	other := secp256k1CastScalar(that)

	return s.value.Equals(&other.value)
}

func (s *Secp256k1Scalar) IsZero() bool {
	return s.value.IsZero()
}

func (s *Secp256k1Scalar) Set(that Scalar) Scalar {
	other := secp256k1CastScalar(that)

	s.value.Set(&other.value)
	return s
}

func (s *Secp256k1Scalar) SetNat(x *saferith.Nat) Scalar {
	reduced := new(saferith.Nat).Mod(x, secp256k1Order)
	buf := make([]byte, 32)
	reduced.FillBytes(buf)
	s.value.SetByteSlice(buf)
	return s
}

func (s *Secp256k1Scalar) Nat() *saferith.Nat {
	data := s.value.Bytes()
	return new(saferith.Nat).SetBytes(data[:])
}

func (s *Secp256k1Scalar) Act(that Point) Point {
	other := secp256k1CastPoint(that)
	out := new(Secp256k1Point)
	secp256k1.ScalarMultNonConst(&s.value, &other.value, &out.value)
	return out
}

func (s *Secp256k1Scalar) ActOnBase() Point {
	out := new(Secp256k1Point)
	secp256k1.ScalarBaseMultNonConst(&s.value, &out.value)
	return out
}

// Secp256k1Point is an element of the secp256k1 group, in Jacobian coordinates.
//
// The zero value is the identity.
type Secp256k1Point struct {
	value secp256k1.JacobianPoint
}

func secp256k1CastPoint(generic Point) *Secp256k1Point {
	out, ok := generic.(*Secp256k1Point)
	if !ok {
		panic(fmt.Sprintf("failed to convert to secp256k1Point: %v", generic))
	}
	return out
}

func (*Secp256k1Point) Curve() Curve {
	return Secp256k1{}
}

// MarshalBinary returns the 33 byte compressed SEC encoding of p.
//
// The identity is encoded as 33 zero bytes.
func (p *Secp256k1Point) MarshalBinary() ([]byte, error) {
	out := make([]byte, 33)
	if p.IsIdentity() {
		return out, nil
	}
	// This will modify p, but still return an equivalent value
	p.value.ToAffine()
	// Doing it this way is compatible with Bitcoin
	out[0] = secp256k1.PubKeyFormatCompressedEven
	if p.value.Y.IsOdd() {
		out[0] = secp256k1.PubKeyFormatCompressedOdd
	}
	p.value.X.PutBytesUnchecked(out[1:])
	return out, nil
}

func (p *Secp256k1Point) UnmarshalBinary(data []byte) error {
	if len(data) != 33 {
		return fmt.Errorf("invalid length for secp256k1Point: %d", len(data))
	}
	if data[0] == 0 {
		for _, b := range data[1:] {
			if b != 0 {
				return errors.New("secp256k1Point.UnmarshalBinary: invalid identity encoding")
			}
		}
		p.value = secp256k1.JacobianPoint{}
		return nil
	}
	format := data[0]
	if !(format == secp256k1.PubKeyFormatCompressedOdd || format == secp256k1.PubKeyFormatCompressedEven) {
		return errors.New("secp256k1Point.UnmarshalBinary: incorrect format")
	}
	var x, y secp256k1.FieldVal
	if x.SetByteSlice(data[1:]) {
		return errors.New("secp256k1Point.UnmarshalBinary: x coordinate out of range")
	}
	if !secp256k1.DecompressY(&x, format == secp256k1.PubKeyFormatCompressedOdd, &y) {
		return errors.New("secp256k1Point.UnmarshalBinary: x coordinate not on curve")
	}
	y.Normalize()
	p.value.X.Set(&x)
	p.value.Y.Set(&y)
	p.value.Z.SetInt(1)
	return nil
}

func (p *Secp256k1Point) Add(that Point) Point {
	other := secp256k1CastPoint(that)

	out := new(Secp256k1Point)
	secp256k1.AddNonConst(&p.value, &other.value, &out.value)
	return out
}

func (p *Secp256k1Point) Sub(that Point) Point {
	return p.Add(that.Negate())
}

func (p *Secp256k1Point) Set(that Point) Point {
	other := secp256k1CastPoint(that)

	p.value.Set(&other.value)
	return p
}

func (p *Secp256k1Point) Negate() Point {
	out := new(Secp256k1Point)
	out.value.Set(&p.value)
	out.value.Y.Negate(1)
	out.value.Y.Normalize()
	return out
}

func (p *Secp256k1Point) Equal(that Point) bool {
	other := secp256k1CastPoint(that)

	pIdentity, otherIdentity := p.IsIdentity(), other.IsIdentity()
	if pIdentity || otherIdentity {
		return pIdentity == otherIdentity
	}
	p.value.ToAffine()
	other.value.ToAffine()
	return p.value.X.Equals(&other.value.X) && p.value.Y.Equals(&other.value.Y)
}

func (p *Secp256k1Point) IsIdentity() bool {
	return (p.value.X.IsZero() && p.value.Y.IsZero()) || p.value.Z.IsZero()
}
