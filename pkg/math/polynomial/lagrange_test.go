package polynomial

import (
	"crypto/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/paymo-xmr/vtdlog/internal/params"
	"github.com/paymo-xmr/vtdlog/pkg/math/curve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var groups = []curve.Curve{curve.Edwards25519{}, curve.Secp256k1{}}

func TestLagrange_SumIsOne(t *testing.T) {
	for _, group := range groups {
		N := 10
		lEven := NewLagrangePolynomial(rand.Reader, group, N)
		lOdd, err := LagrangeFromCoordinates(group, lEven.Coordinates()[:N-1])
		require.NoError(t, err)

		one := group.NewScalar().SetNat(new(saferith.Nat).SetUint64(1))
		for _, l := range []*LagrangePolynomial{lEven, lOdd} {
			sum := group.NewScalar()
			for j := 0; j < l.Size(); j++ {
				sum.Add(l.Basis(j).ValueAtZero())
			}
			assert.True(t, sum.Equal(one), "Σ lⱼ(0) = 1")
		}
	}
}

func TestLagrange_InverseAtZero(t *testing.T) {
	for _, group := range groups {
		l := NewLagrangePolynomial(rand.Reader, group, params.Shares)
		require.Equal(t, params.Shares, l.Size())
		for j := 0; j < l.Size(); j++ {
			b := l.Basis(j)
			expected := group.NewScalar().Set(b.ValueAtZero()).Invert()
			assert.True(t, b.InverseAtZero().Equal(expected), "basis %d", j)
			assert.False(t, b.Coordinate().IsZero())
		}
	}
}

func TestLagrange_Distinct(t *testing.T) {
	group := curve.Edwards25519{}
	coordinates := NewLagrangePolynomial(rand.Reader, group, params.Shares).Coordinates()
	for i := range coordinates {
		for j := i + 1; j < len(coordinates); j++ {
			assert.False(t, coordinates[i].Equal(coordinates[j]))
		}
	}
}

func TestLagrange_Interpolate(t *testing.T) {
	for _, group := range groups {
		n := params.Shares
		secret := curve.FromHash(group, []byte("interpolated secret of the polynomial"))
		f := NewPolynomial(rand.Reader, group, n-1, secret)
		l := NewLagrangePolynomial(rand.Reader, group, n)

		result := group.NewScalar()
		for j := 0; j < n; j++ {
			b := l.Basis(j)
			share := f.Evaluate(b.Coordinate())
			result.Add(share.Mul(b.ValueAtZero()))
		}
		assert.True(t, result.Equal(secret), "Σ f(xⱼ)⋅lⱼ(0) = f(0)")
	}
}

func TestLagrangeFromCoordinates_Rejects(t *testing.T) {
	group := curve.Secp256k1{}
	one := group.NewScalar().SetNat(new(saferith.Nat).SetUint64(1))
	two := group.NewScalar().SetNat(new(saferith.Nat).SetUint64(2))

	_, err := LagrangeFromCoordinates(group, []curve.Scalar{one, two, group.NewScalar().Set(one)})
	assert.ErrorIs(t, err, ErrDuplicateCoordinate)

	_, err = LagrangeFromCoordinates(group, []curve.Scalar{one, group.NewScalar()})
	assert.ErrorIs(t, err, ErrZeroCoordinate)
}

func TestLagrange_Clear(t *testing.T) {
	group := curve.Edwards25519{}
	l := NewLagrangePolynomial(rand.Reader, group, 3)
	l.Clear()
	for j := 0; j < l.Size(); j++ {
		assert.True(t, l.Basis(j).Coordinate().IsZero())
		assert.True(t, l.Basis(j).ValueAtZero().IsZero())
	}
}
