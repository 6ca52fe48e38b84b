package polynomial

import (
	"crypto/rand"
	"io"
	"math/big"
	mrand "math/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/paymo-xmr/vtdlog/pkg/math/curve"
	"github.com/paymo-xmr/vtdlog/pkg/math/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Polynomial represents f(X) = a₀ + a₁⋅X + … + aₜ⋅Xᵗ.
type Polynomial struct {
	group        curve.Curve
	coefficients []curve.Scalar
}

// NewPolynomial generates, for interpolation tests, a Polynomial f(X) = secret + a₁⋅X + … + aₜ⋅Xᵗ,
// with coefficients in ℤₚ, and degree t.
func NewPolynomial(rand io.Reader, group curve.Curve, degree int, constant curve.Scalar) *Polynomial {
	polynomial := &Polynomial{
		group:        group,
		coefficients: make([]curve.Scalar, degree+1),
	}

	// if the constant is nil, we interpret it as 0.
	if constant == nil {
		constant = group.NewScalar()
	}
	polynomial.coefficients[0] = group.NewScalar().Set(constant)

	for i := 1; i <= degree; i++ {
		polynomial.coefficients[i] = sample.Scalar(rand, group)
	}

	return polynomial
}

// Evaluate evaluates a polynomial in a given variable index
// We use Horner's method: https://en.wikipedia.org/wiki/Horner%27s_method
func (p *Polynomial) Evaluate(index curve.Scalar) curve.Scalar {
	if index.IsZero() {
		panic("attempt to leak secret")
	}

	result := p.group.NewScalar()
	// reverse order
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		// bₙ₋₁ = bₙ * x + aₙ₋₁
		result.Mul(index).Add(p.coefficients[i])
	}
	return result
}

// Constant returns a copy of the constant coefficient of the polynomial.
func (p *Polynomial) Constant() curve.Scalar {
	return p.group.NewScalar().Set(p.coefficients[0])
}

// Degree is the highest power of the Polynomial.
func (p *Polynomial) Degree() uint32 {
	return uint32(len(p.coefficients)) - 1
}

func TestPolynomial_Constant(t *testing.T) {
	group := curve.Edwards25519{}
	deg := 10
	secret := sample.Scalar(rand.Reader, group)
	poly := NewPolynomial(rand.Reader, group, deg, secret)
	require.True(t, poly.Constant().Equal(secret))
	assert.Equal(t, uint32(deg), poly.Degree())
}

func TestPolynomial_Evaluate(t *testing.T) {
	group := curve.Secp256k1{}
	natScalar := func(x uint64) curve.Scalar {
		return group.NewScalar().SetNat(new(saferith.Nat).SetUint64(x))
	}
	polynomial := &Polynomial{group: group, coefficients: []curve.Scalar{natScalar(1), natScalar(0), natScalar(1)}}

	for index := 0; index < 100; index++ {
		x := mrand.Uint32()
		if x == 0 {
			continue
		}
		result := big.NewInt(int64(x))
		result.Mul(result, result)
		result.Add(result, big.NewInt(1))
		computedResult := polynomial.Evaluate(natScalar(uint64(x)))
		expectedResult := group.NewScalar().SetNat(new(saferith.Nat).SetBig(result, result.BitLen()))
		assert.True(t, expectedResult.Equal(computedResult))
	}
	assert.Panics(t, func() { polynomial.Evaluate(group.NewScalar()) })
}
