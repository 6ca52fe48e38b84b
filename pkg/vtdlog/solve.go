package vtdlog

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/paymo-xmr/vtdlog/pkg/math/curve"
	"github.com/paymo-xmr/vtdlog/pkg/timelock"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Solve recovers the secret committed to in c, solving puzzles in ascending order.
//
// It is equivalent to NewSolver(c).Solve(ctx).
func Solve(ctx context.Context, c *Commitment) (curve.Scalar, error) {
	return NewSolver(c).Solve(ctx)
}

// Solver opens the puzzles of a single Commitment.
type Solver struct {
	c        *Commitment
	attempts atomic.Int64
	progress func(solved, total int)
}

// NewSolver creates a Solver for c.
func NewSolver(c *Commitment) *Solver {
	return &Solver{c: c}
}

// OnProgress registers f to be called after each solved puzzle, with the number
// of puzzles solved so far and the total number of shares.
//
// In parallel mode, f may be called concurrently.
func (s *Solver) OnProgress(f func(solved, total int)) *Solver {
	s.progress = f
	return s
}

// Attempts returns the number of puzzles solved so far.
func (s *Solver) Attempts() int {
	return int(s.attempts.Load())
}

// Solve recovers the committed secret.
//
// Puzzles are solved one at a time, in ascending order, stopping at the first share
// which completes the interpolation of H. At most Size() puzzles are solved.
// Cancellation of ctx is checked between puzzles, and leaves the commitment unconsumed.
// Any other outcome consumes the commitment.
func (s *Solver) Solve(ctx context.Context) (curve.Scalar, error) {
	c := s.c
	if err := s.claim(); err != nil {
		return nil, err
	}
	logger := zerolog.Ctx(ctx)
	start := time.Now()

	running := c.group.NewScalar()
	defer curve.Clear(running)
	for i := 0; i < c.Size(); i++ {
		if err := ctx.Err(); err != nil {
			c.claimed.Store(false)
			return nil, fmt.Errorf("vtdlog: interrupted before share %d: %w", i+1, err)
		}
		x, err := s.solveShare(ctx, i)
		if err != nil {
			c.Clear()
			return nil, fmt.Errorf("vtdlog: %w", err)
		}
		secret, done := s.accumulate(running, x, i)
		if done {
			logger.Info().Int("attempts", s.Attempts()).Dur("took", time.Since(start)).Msg("commitment solved")
			c.Clear()
			return secret, nil
		}
	}
	c.Clear()
	return nil, ErrReconstructionFailed
}

// SolveParallel recovers the committed secret, solving all puzzles on at most workers goroutines.
//
// Every puzzle is solved, then shares are checked and interpolated in ascending order,
// so the result and errors are the same as Solve, but Attempts always reaches Size().
// The sequential work per share is unchanged.
// If workers ⩽ 0, there is no limit.
func (s *Solver) SolveParallel(ctx context.Context, workers int) (curve.Scalar, error) {
	c := s.c
	if err := s.claim(); err != nil {
		return nil, err
	}
	logger := zerolog.Ctx(ctx)
	start := time.Now()

	values := make([]curve.Scalar, c.Size())
	errs := make([]error, c.Size())
	defer func() {
		for _, x := range values {
			curve.Clear(x)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := 0; i < c.Size(); i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// share errors are reported in ascending order below, like Solve does
			values[i], errs[i] = s.solveShare(gctx, i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.claimed.Store(false)
		return nil, fmt.Errorf("vtdlog: interrupted: %w", err)
	}

	running := c.group.NewScalar()
	defer curve.Clear(running)
	for i, x := range values {
		if errs[i] != nil {
			c.Clear()
			return nil, fmt.Errorf("vtdlog: %w", errs[i])
		}
		secret, done := s.accumulate(running, x, i)
		if done {
			logger.Info().Int("attempts", s.Attempts()).Int("workers", workers).Dur("took", time.Since(start)).Msg("commitment solved")
			c.Clear()
			return secret, nil
		}
	}
	c.Clear()
	return nil, ErrReconstructionFailed
}

// claim takes ownership of the commitment for a single solve.
func (s *Solver) claim() error {
	c := s.c
	if c.consumed.Load() || !c.claimed.CompareAndSwap(false, true) {
		return ErrConsumed
	}
	if err := c.Validate(); err != nil {
		c.claimed.Store(false)
		return fmt.Errorf("vtdlog: %w", err)
	}
	return nil
}

// solveShare solves puzzle i, and checks that the solution xᵢ satisfies xᵢ⋅G = Hᵢ.
func (s *Solver) solveShare(ctx context.Context, i int) (curve.Scalar, error) {
	c := s.c
	start := time.Now()
	s.attempts.Add(1)

	sol, err := timelock.Solve(c.params, c.puzzles[i])
	if err != nil {
		return nil, ShareError{Index: i + 1, Err: err}
	}
	defer sol.Clear()

	// a solution is a canonical scalar, not merely congruent to one
	xNat := sol.Nat()
	defer xNat.SetUint64(0)
	if _, _, lt := xNat.CmpMod(c.group.Order()); lt != 1 {
		return nil, ShareError{Index: i + 1, Err: timelock.ErrDecoding}
	}
	x := c.group.NewScalar().SetNat(xNat)
	if !x.ActOnBase().Equal(c.shares[i]) {
		curve.Clear(x)
		return nil, ShareError{Index: i + 1, Err: ErrShareVerificationFailed}
	}

	zerolog.Ctx(ctx).Debug().Int("share", i+1).Int("of", c.Size()).Dur("took", time.Since(start)).Msg("share solved")
	if s.progress != nil {
		s.progress(s.Attempts(), c.Size())
	}
	return x, nil
}

// accumulate adds xᵢ⋅lᵢ(0) to the running sum for the first threshold-1 shares.
// Past those, it returns the candidate running + xᵢ⋅lᵢ(0) when it matches H.
//
// x is overwritten.
func (s *Solver) accumulate(running, x curve.Scalar, i int) (curve.Scalar, bool) {
	c := s.c
	weighted := x.Mul(c.lagrange.Basis(i).ValueAtZero())
	defer curve.Clear(weighted)
	if i < c.threshold-1 {
		running.Add(weighted)
		return nil, false
	}
	candidate := c.group.NewScalar().Set(running).Add(weighted)
	if candidate.ActOnBase().Equal(c.target) {
		return candidate, true
	}
	curve.Clear(candidate)
	return nil, false
}
