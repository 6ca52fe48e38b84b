// Package vtdlog implements verifiable timed discrete logarithm commitments.
//
// Commit binds a prover to a scalar x through the public point H = x⋅G, and hides x
// in time-lock puzzles so that anyone can recover it, but only after solving
// puzzles sequentially. The scalar is split into Lagrange shares over random coordinates:
// the first threshold-1 shares are random, and exactly one of the remaining shares,
// at a random index, completes the interpolation of x. The others are decoys.
// Every share xᵢ is published as Hᵢ = xᵢ⋅G and locked in its own puzzle.
//
// Solve opens the puzzles in ascending order, checks each share against Hᵢ,
// and stops at the first share completing an interpolation of H. Puzzles are never
// combined homomorphically, so the solver pays the full sequential cost for every share it opens.
//
// The zero-knowledge proof that the shares are well formed, which the full VTD-Log protocol
// requires between Commit and Solve, is not implemented. A malicious committer is only caught
// when its commitment is solved. Real deployments need that proof.
package vtdlog

import (
	"fmt"

	"github.com/paymo-xmr/vtdlog/internal/params"
	"github.com/paymo-xmr/vtdlog/pkg/math/curve"
)

// Parameters sets the shape of a commitment.
type Parameters struct {
	// Shares is the total number N of shares.
	Shares int
	// Threshold is the number of shares interpolating the secret.
	Threshold int
	// ModulusBits is the size of the time-lock modulus.
	ModulusBits int
}

// DefaultParameters returns 11 out of 20 shares, with the default time-lock modulus size.
func DefaultParameters() Parameters {
	return Parameters{
		Shares:      params.Shares,
		Threshold:   params.Threshold,
		ModulusBits: params.BitsTimeLockModulus,
	}
}

// Validate checks that 1 ⩽ Threshold ⩽ Shares, and that the modulus is large enough.
func (p Parameters) Validate() error {
	if p.Threshold < 1 || p.Threshold > p.Shares {
		return fmt.Errorf("threshold %d out of %d shares: %w", p.Threshold, p.Shares, ErrInvalidParameters)
	}
	if p.ModulusBits < params.MinBitsTimeLockModulus || p.ModulusBits%2 != 0 {
		return fmt.Errorf("modulus of %d bits: %w", p.ModulusBits, ErrInvalidParameters)
	}
	return nil
}

// ValidateFor is Validate, also checking that every scalar of group fits below the
// time-lock modulus.
func (p Parameters) ValidateFor(group curve.Curve) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if group == nil {
		return fmt.Errorf("nil group: %w", ErrInvalidParameters)
	}
	// N has exactly ModulusBits bits, so scalars need at most ModulusBits-1.
	if p.ModulusBits <= group.Order().BitLen() {
		return fmt.Errorf("modulus of %d bits cannot hold %s scalars: %w", p.ModulusBits, group.Name(), ErrInvalidParameters)
	}
	return nil
}
