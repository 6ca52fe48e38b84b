package vtdlog

import (
	"fmt"
	"sync/atomic"

	"github.com/paymo-xmr/vtdlog/internal/hash"
	"github.com/paymo-xmr/vtdlog/pkg/math/curve"
	"github.com/paymo-xmr/vtdlog/pkg/math/polynomial"
	"github.com/paymo-xmr/vtdlog/pkg/timelock"
)

// Commitment is the public output of Commit.
//
// It is transmitted as a unit, and consumed by a single Solve.
type Commitment struct {
	group     curve.Curve
	threshold int
	// target H = x⋅G
	target curve.Point
	// shares Hᵢ = xᵢ⋅G
	shares   []curve.Point
	lagrange *polynomial.LagrangePolynomial
	params   *timelock.Params
	// puzzles[i] hides xᵢ
	puzzles []*timelock.Puzzle

	// claimed is set while a Solver owns the commitment
	claimed  atomic.Bool
	consumed atomic.Bool
}

// Group returns the curve of the committed scalar.
func (c *Commitment) Group() curve.Curve {
	return c.group
}

// Threshold returns the number of shares interpolating the secret.
func (c *Commitment) Threshold() int {
	return c.threshold
}

// Size returns the total number of shares.
func (c *Commitment) Size() int {
	return len(c.shares)
}

// Target returns H = x⋅G.
func (c *Commitment) Target() curve.Point {
	return c.target
}

// Share returns Hᵢ for the 0-based index i.
func (c *Commitment) Share(i int) curve.Point {
	return c.shares[i]
}

// Lagrange returns the interpolation domain of the shares.
func (c *Commitment) Lagrange() *polynomial.LagrangePolynomial {
	return c.lagrange
}

// Params returns the time-lock parameters of the puzzles, or nil once consumed.
func (c *Commitment) Params() *timelock.Params {
	return c.params
}

// Hardness returns the number of sequential squarings needed per share, or 0 once consumed.
func (c *Commitment) Hardness() uint64 {
	if c.params == nil {
		return 0
	}
	return c.params.Hardness()
}

// Consumed returns true once the commitment has been solved.
func (c *Commitment) Consumed() bool {
	return c.consumed.Load()
}

// Validate checks that the parts of the commitment fit together.
//
// It cannot check that the puzzles hide the discrete logarithms of the shares,
// which only solving reveals.
func (c *Commitment) Validate() error {
	if c.consumed.Load() {
		return ErrConsumed
	}
	n := len(c.shares)
	if c.group == nil || c.target == nil || c.lagrange == nil || c.params == nil {
		return fmt.Errorf("missing fields: %w", ErrMalformed)
	}
	if c.threshold < 1 || c.threshold > n {
		return fmt.Errorf("threshold %d out of %d shares: %w", c.threshold, n, ErrMalformed)
	}
	if c.lagrange.Size() != n || len(c.puzzles) != n {
		return fmt.Errorf("%d shares, %d coordinates, %d puzzles: %w", n, c.lagrange.Size(), len(c.puzzles), ErrMalformed)
	}
	for i, z := range c.puzzles {
		if z == nil || !z.Params().Equal(c.params) {
			return ShareError{Index: i + 1, Err: timelock.ErrParamsMismatch}
		}
	}
	return nil
}

// Digest returns a blake3 fingerprint of the public parts of the commitment.
func (c *Commitment) Digest() ([]byte, error) {
	h := hash.New("vtdlog.Commitment")
	if err := h.WriteAny([]byte(c.group.Name()), uint64(c.threshold)); err != nil {
		return nil, err
	}
	points := append([]curve.Point{c.target}, c.shares...)
	for _, p := range points {
		data, err := p.MarshalBinary()
		if err != nil {
			return nil, err
		}
		if err = h.WriteAny(&hash.BytesWithDomain{TheDomain: "Point", Bytes: data}); err != nil {
			return nil, err
		}
	}
	for _, x := range c.lagrange.Coordinates() {
		data, err := x.MarshalBinary()
		if err != nil {
			return nil, err
		}
		if err = h.WriteAny(&hash.BytesWithDomain{TheDomain: "Coordinate", Bytes: data}); err != nil {
			return nil, err
		}
	}
	if c.params != nil {
		if err := h.WriteAny(c.params); err != nil {
			return nil, err
		}
		for _, z := range c.puzzles {
			if err := h.WriteAny(z); err != nil {
				return nil, err
			}
		}
	}
	return h.Sum(), nil
}

// Clear overwrites the puzzles, their parameters and the interpolation domain.
// The commitment is consumed afterwards.
func (c *Commitment) Clear() {
	c.consumed.Store(true)
	for _, z := range c.puzzles {
		z.Clear()
	}
	c.puzzles = nil
	c.params.Clear()
	c.params = nil
	if c.lagrange != nil {
		c.lagrange.Clear()
	}
}
