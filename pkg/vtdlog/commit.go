package vtdlog

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"time"

	"github.com/paymo-xmr/vtdlog/pkg/math/curve"
	"github.com/paymo-xmr/vtdlog/pkg/math/polynomial"
	"github.com/paymo-xmr/vtdlog/pkg/math/sample"
	"github.com/paymo-xmr/vtdlog/pkg/pool"
	"github.com/paymo-xmr/vtdlog/pkg/timelock"
	"github.com/rs/zerolog"
)

// Commit locks secret behind hardness sequential squarings per share,
// with the default 11 out of 20 shares.
//
// Puzzle generation is parallelized over pl, which may be nil.
func Commit(ctx context.Context, secret curve.Scalar, hardness uint64, pl *pool.Pool) (*Commitment, error) {
	return CommitWithParameters(ctx, rand.Reader, DefaultParameters(), secret, hardness, pl)
}

// CommitWithParameters is Commit with an explicit source of randomness and commitment shape.
func CommitWithParameters(ctx context.Context, rand io.Reader, p Parameters, secret curve.Scalar, hardness uint64, pl *pool.Pool) (*Commitment, error) {
	return commit(ctx, rand, p, secret, hardness, pl, sample.IntRange)
}

// commit builds the commitment, drawing the index of the completing share with pick,
// in [threshold-1, shares-1].
func commit(ctx context.Context, rand io.Reader, p Parameters, secret curve.Scalar, hardness uint64, pl *pool.Pool,
	pick func(rand io.Reader, lo, hi int) int) (*Commitment, error) {
	if secret == nil {
		return nil, fmt.Errorf("vtdlog: nil secret: %w", ErrInvalidParameters)
	}
	group := secret.Curve()
	if err := p.ValidateFor(group); err != nil {
		return nil, err
	}
	logger := zerolog.Ctx(ctx)
	start := time.Now()
	rand = pool.NewLockedReader(rand)

	pp, err := timelock.Setup(ctx, rand, pl, p.ModulusBits, hardness)
	if err != nil {
		return nil, fmt.Errorf("vtdlog: %w", err)
	}
	if err = ctx.Err(); err != nil {
		pp.Clear()
		return nil, fmt.Errorf("vtdlog: commit interrupted: %w", err)
	}

	n, t := p.Shares, p.Threshold
	lagrange := polynomial.NewLagrangePolynomial(rand, group, n)

	// H = x⋅G
	target := secret.ActOnBase()

	values := make([]curve.Scalar, n)
	shares := make([]curve.Point, n)
	defer func() {
		for _, x := range values {
			curve.Clear(x)
		}
	}()

	// Σ xᵢ⋅lᵢ(0) and Σ lᵢ(0)⋅Hᵢ over the first t-1 shares
	sumX := group.NewScalar()
	sumH := group.NewPoint()
	defer curve.Clear(sumX)
	for i := 0; i < t-1; i++ {
		l := lagrange.Basis(i).ValueAtZero()
		values[i], shares[i] = sample.ScalarPointPair(rand, group)
		sumX.Add(group.NewScalar().Set(values[i]).Mul(l))
		sumH = sumH.Add(l.Act(shares[i]))
	}

	// The index completing the interpolation, hidden among decoys.
	correct := pick(rand, t-1, n-1)
	for i := t - 1; i < n; i++ {
		if i != correct {
			values[i], shares[i] = sample.ScalarPointPair(rand, group)
			continue
		}
		lInv := lagrange.Basis(i).InverseAtZero()
		// xᵢ = (x - Σ xⱼ⋅lⱼ(0)) ⋅ lᵢ(0)⁻¹
		values[i] = group.NewScalar().Set(secret).Sub(sumX).Mul(lInv)
		// Hᵢ = lᵢ(0)⁻¹ ⋅ (H - Σ lⱼ(0)⋅Hⱼ)
		shares[i] = lInv.Act(target.Sub(sumH))
	}

	if err = ctx.Err(); err != nil {
		pp.Clear()
		return nil, fmt.Errorf("vtdlog: commit interrupted: %w", err)
	}

	// Each share gets its own puzzle. Combining them would let a solver
	// open all shares with the sequential work of one.
	results := pl.Parallelize(n, func(i int) interface{} {
		z, err := timelock.GenerateNat(rand, pp, values[i].Nat())
		if err != nil {
			return ShareError{Index: i + 1, Err: err}
		}
		return z
	})
	puzzles := make([]*timelock.Puzzle, n)
	var genErr error
	for i, r := range results {
		switch v := r.(type) {
		case *timelock.Puzzle:
			puzzles[i] = v
		case error:
			if genErr == nil {
				genErr = v
			}
		}
	}
	if genErr != nil {
		clearPuzzles(puzzles)
		pp.Clear()
		return nil, fmt.Errorf("vtdlog: %w", genErr)
	}

	c := &Commitment{
		group:     group,
		threshold: t,
		target:    target,
		shares:    shares,
		lagrange:  lagrange,
		params:    pp,
		puzzles:   puzzles,
	}
	logger.Debug().
		Str("curve", group.Name()).
		Int("shares", n).
		Int("threshold", t).
		Uint64("hardness", hardness).
		Hex("params", pp.Fingerprint()).
		Dur("took", time.Since(start)).
		Msg("commitment created")
	return c, nil
}

// clearPuzzles overwrites every generated puzzle.
func clearPuzzles(puzzles []*timelock.Puzzle) {
	for _, z := range puzzles {
		z.Clear()
	}
}
