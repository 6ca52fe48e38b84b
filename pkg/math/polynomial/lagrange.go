package polynomial

import (
	"errors"
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/paymo-xmr/vtdlog/pkg/math/curve"
	"github.com/paymo-xmr/vtdlog/pkg/math/sample"
)

var (
	ErrZeroCoordinate      = errors.New("polynomial: interpolation coordinate is zero")
	ErrDuplicateCoordinate = errors.New("polynomial: interpolation coordinates are not distinct")
)

// LagrangeBasis is one evaluation point xⱼ of an interpolation domain,
// together with its Lagrange coefficient lⱼ(0) and the inverse of that coefficient.
type LagrangeBasis struct {
	coordinate    curve.Scalar
	valueAtZero   curve.Scalar
	inverseAtZero curve.Scalar
}

// Coordinate returns xⱼ.
func (b *LagrangeBasis) Coordinate() curve.Scalar {
	return b.coordinate
}

// ValueAtZero returns lⱼ(0).
func (b *LagrangeBasis) ValueAtZero() curve.Scalar {
	return b.valueAtZero
}

// InverseAtZero returns lⱼ(0)⁻¹.
func (b *LagrangeBasis) InverseAtZero() curve.Scalar {
	return b.inverseAtZero
}

// LagrangePolynomial is an interpolation domain of distinct nonzero coordinates,
// with the Lagrange coefficients at 0 of every coordinate precomputed.
type LagrangePolynomial struct {
	group curve.Curve
	basis []LagrangeBasis
}

// NewLagrangePolynomial samples n pairwise distinct nonzero coordinates and computes their basis.
func NewLagrangePolynomial(rand io.Reader, group curve.Curve, n int) *LagrangePolynomial {
	if n < 1 {
		panic(fmt.Sprintf("polynomial.NewLagrangePolynomial: invalid size %d", n))
	}
	coordinates := make([]curve.Scalar, 0, n)
	for len(coordinates) < n {
		x := sample.ScalarUnit(rand, group)
		// a collision has negligible probability, but a zero denominator would be fatal
		if contains(coordinates, x) {
			continue
		}
		coordinates = append(coordinates, x)
	}
	l, err := LagrangeFromCoordinates(group, coordinates)
	if err != nil {
		panic(fmt.Sprintf("polynomial.NewLagrangePolynomial: %v", err))
	}
	return l
}

// LagrangeFromCoordinates builds the interpolation domain defined by the given coordinates.
//
// The coordinates must be nonzero and pairwise distinct.
func LagrangeFromCoordinates(group curve.Curve, coordinates []curve.Scalar) (*LagrangePolynomial, error) {
	for i, x := range coordinates {
		if x.IsZero() {
			return nil, fmt.Errorf("coordinate %d: %w", i+1, ErrZeroCoordinate)
		}
		if contains(coordinates[:i], x) {
			return nil, fmt.Errorf("coordinate %d: %w", i+1, ErrDuplicateCoordinate)
		}
	}

	coefficients := Lagrange(group, coordinates)
	basis := make([]LagrangeBasis, len(coordinates))
	for j := range coordinates {
		basis[j] = LagrangeBasis{
			coordinate:    group.NewScalar().Set(coordinates[j]),
			valueAtZero:   coefficients[j],
			inverseAtZero: group.NewScalar().Set(coefficients[j]).Invert(),
		}
	}
	return &LagrangePolynomial{group: group, basis: basis}, nil
}

// Group returns the curve whose scalars the coordinates live in.
func (l *LagrangePolynomial) Group() curve.Curve {
	return l.group
}

// Size returns the number of coordinates in the domain.
func (l *LagrangePolynomial) Size() int {
	return len(l.basis)
}

// Basis returns the basis of the coordinate at 0-based index j.
func (l *LagrangePolynomial) Basis(j int) *LagrangeBasis {
	return &l.basis[j]
}

// Coordinates returns a copy of the coordinates, in order.
func (l *LagrangePolynomial) Coordinates() []curve.Scalar {
	out := make([]curve.Scalar, len(l.basis))
	for j := range l.basis {
		out[j] = l.group.NewScalar().Set(l.basis[j].coordinate)
	}
	return out
}

// Clear zeroes the coordinates and every coefficient.
func (l *LagrangePolynomial) Clear() {
	for j := range l.basis {
		curve.Clear(l.basis[j].coordinate)
		curve.Clear(l.basis[j].valueAtZero)
		curve.Clear(l.basis[j].inverseAtZero)
	}
}

// Lagrange returns the Lagrange coefficients at 0 of every coordinate in the interpolation domain,
// in the same order.
//
// The coordinates are assumed to be nonzero and pairwise distinct.
func Lagrange(group curve.Curve, interpolationDomain []curve.Scalar) []curve.Scalar {
	// numerator = x₀ * … * xₖ
	numerator := group.NewScalar().SetNat(new(saferith.Nat).SetUint64(1))
	for _, x := range interpolationDomain {
		numerator.Mul(x)
	}

	coefficients := make([]curve.Scalar, len(interpolationDomain))
	for j := range interpolationDomain {
		coefficients[j] = lagrange(group, interpolationDomain, numerator, j)
	}
	return coefficients
}

// lagrange returns the Lagrange coefficient lⱼ(0), for j in the interpolation domain.
// The numerator is provided beforehand for efficiency reasons.
//
// The following formulas are taken from
// https://en.wikipedia.org/wiki/Lagrange_polynomial
//
//	                         x₀ ⋅⋅⋅ xₖ
//	lⱼ(0) = --------------------------------------------------
//	        xⱼ⋅(x₀ - xⱼ)⋅⋅⋅(xⱼ₋₁ - xⱼ)⋅(xⱼ₊₁ - xⱼ)⋅⋅⋅(xₖ - xⱼ).
func lagrange(group curve.Curve, interpolationDomain []curve.Scalar, numerator curve.Scalar, j int) curve.Scalar {
	xJ := interpolationDomain[j]
	tmp := group.NewScalar()

	// denominator = xⱼ⋅(x₀ - xⱼ)⋅⋅⋅(xⱼ₋₁ - xⱼ)⋅(xⱼ₊₁ - xⱼ)⋅⋅⋅(xₖ - xⱼ)
	denominator := group.NewScalar().SetNat(new(saferith.Nat).SetUint64(1))
	for i, xI := range interpolationDomain {
		if i == j {
			// lⱼ *= xⱼ
			denominator.Mul(xJ)
			continue
		}
		// tmp = xᵢ - xⱼ
		tmp.Set(xI).Sub(xJ)
		// lⱼ *= xᵢ - xⱼ
		denominator.Mul(tmp)
	}

	// lⱼ = numerator/denominator
	lJ := denominator.Invert()
	lJ.Mul(numerator)
	return lJ
}

func contains(set []curve.Scalar, x curve.Scalar) bool {
	for _, y := range set {
		if y.Equal(x) {
			return true
		}
	}
	return false
}
