package vtdlog

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/paymo-xmr/vtdlog/pkg/math/curve"
	"github.com/paymo-xmr/vtdlog/pkg/math/polynomial"
	"github.com/paymo-xmr/vtdlog/pkg/timelock"
)

// EmptyCommitment creates an empty Commitment with a fixed group, ready for unmarshalling.
//
// This needs to be used for unmarshalling, otherwise the points on the curve can't
// be decoded.
func EmptyCommitment(group curve.Curve) *Commitment {
	return &Commitment{group: group}
}

// commitmentMarshal is the transport form of a Commitment.
//
// Lagrange coefficients are not sent, they are recomputed from the coordinates.
type commitmentMarshal struct {
	Curve       string
	Threshold   int
	Target      []byte
	Shares      [][]byte
	Coordinates [][]byte
	Params      []byte
	Puzzles     [][]byte
}

// CurveOf returns the group of the encoded commitment data, to be passed to EmptyCommitment.
func CurveOf(data []byte) (curve.Curve, error) {
	var header struct{ Curve string }
	if err := cbor.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("vtdlog: %w", err)
	}
	group := curve.FromName(header.Curve)
	if group == nil {
		return nil, fmt.Errorf("vtdlog: unsupported curve %q: %w", header.Curve, ErrMalformed)
	}
	return group, nil
}

func (c *Commitment) MarshalBinary() ([]byte, error) {
	if c.consumed.Load() || c.params == nil {
		return nil, ErrConsumed
	}
	target, err := c.target.MarshalBinary()
	if err != nil {
		return nil, err
	}
	shares := make([][]byte, 0, len(c.shares))
	for _, p := range c.shares {
		data, err := p.MarshalBinary()
		if err != nil {
			return nil, err
		}
		shares = append(shares, data)
	}
	coordinates := make([][]byte, 0, c.lagrange.Size())
	for _, x := range c.lagrange.Coordinates() {
		data, err := x.MarshalBinary()
		if err != nil {
			return nil, err
		}
		coordinates = append(coordinates, data)
	}
	pp, err := c.params.MarshalBinary()
	if err != nil {
		return nil, err
	}
	puzzles := make([][]byte, 0, len(c.puzzles))
	for _, z := range c.puzzles {
		data, err := z.MarshalBinary()
		if err != nil {
			return nil, err
		}
		puzzles = append(puzzles, data)
	}
	return cbor.Marshal(&commitmentMarshal{
		Curve:       c.group.Name(),
		Threshold:   c.threshold,
		Target:      target,
		Shares:      shares,
		Coordinates: coordinates,
		Params:      pp,
		Puzzles:     puzzles,
	})
}

func (c *Commitment) UnmarshalBinary(data []byte) error {
	if c.group == nil {
		return errors.New("vtdlog: commitment must be initialized using EmptyCommitment")
	}
	group := c.group
	cm := &commitmentMarshal{}
	if err := cbor.Unmarshal(data, cm); err != nil {
		return fmt.Errorf("vtdlog: %w", err)
	}
	if cm.Curve != group.Name() {
		return fmt.Errorf("vtdlog: commitment over %q, expected %q: %w", cm.Curve, group.Name(), ErrMalformed)
	}
	n := len(cm.Shares)
	if n == 0 || len(cm.Coordinates) != n || len(cm.Puzzles) != n {
		return fmt.Errorf("vtdlog: %d shares, %d coordinates, %d puzzles: %w", n, len(cm.Coordinates), len(cm.Puzzles), ErrMalformed)
	}
	if cm.Threshold < 1 || cm.Threshold > n {
		return fmt.Errorf("vtdlog: threshold %d out of %d shares: %w", cm.Threshold, n, ErrMalformed)
	}

	target := group.NewPoint()
	if err := target.UnmarshalBinary(cm.Target); err != nil {
		return fmt.Errorf("vtdlog: target: %w", err)
	}
	shares := make([]curve.Point, n)
	coordinates := make([]curve.Scalar, n)
	for i := 0; i < n; i++ {
		shares[i] = group.NewPoint()
		if err := shares[i].UnmarshalBinary(cm.Shares[i]); err != nil {
			return fmt.Errorf("vtdlog: %w", ShareError{Index: i + 1, Err: err})
		}
		coordinates[i] = group.NewScalar()
		if err := coordinates[i].UnmarshalBinary(cm.Coordinates[i]); err != nil {
			return fmt.Errorf("vtdlog: %w", ShareError{Index: i + 1, Err: err})
		}
	}
	lagrange, err := polynomial.LagrangeFromCoordinates(group, coordinates)
	if err != nil {
		return fmt.Errorf("vtdlog: %w", err)
	}

	pp := new(timelock.Params)
	if err = pp.UnmarshalBinary(cm.Params); err != nil {
		return fmt.Errorf("vtdlog: %w", err)
	}
	puzzles := make([]*timelock.Puzzle, n)
	for i := 0; i < n; i++ {
		puzzles[i] = timelock.EmptyPuzzle(pp)
		if err = puzzles[i].UnmarshalBinary(cm.Puzzles[i]); err != nil {
			return fmt.Errorf("vtdlog: %w", ShareError{Index: i + 1, Err: err})
		}
	}

	c.threshold = cm.Threshold
	c.target = target
	c.shares = shares
	c.lagrange = lagrange
	c.params = pp
	c.puzzles = puzzles
	c.claimed.Store(false)
	c.consumed.Store(false)
	return nil
}
