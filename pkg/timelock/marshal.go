package timelock

import (
	"encoding/binary"
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/paymo-xmr/vtdlog/internal/params"
)

// maxFieldBytes bounds a single length-prefixed integer, far above any reasonable N².
const maxFieldBytes = 1 << 16

// MarshalBinary encodes the parameters as the 8 byte big-endian hardness, followed by
// N, g and h, each as a 4 byte length prefixed big-endian integer.
func (pp *Params) MarshalBinary() ([]byte, error) {
	if pp.cleared() {
		return nil, fmt.Errorf("timelock.Params: marshal cleared parameters: %w", ErrParamsMismatch)
	}
	out := make([]byte, 8, 8+3*(4+pp.n.BitLen()/8+1))
	binary.BigEndian.PutUint64(out, pp.hardness)
	for _, x := range []*saferith.Nat{pp.nNat, pp.g, pp.h} {
		out = appendField(out, x)
	}
	return out, nil
}

// UnmarshalBinary decodes parameters produced by MarshalBinary.
//
// It checks that N is odd and large enough, that g, h ∈ ℤₙ, and that the hardness is at least 1.
func (pp *Params) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return fmt.Errorf("timelock.Params: short input: %w", ErrDecoding)
	}
	hardness := binary.BigEndian.Uint64(data)
	if hardness < 1 {
		return ErrInvalidHardness
	}
	fields, err := readFields(data[8:], 3)
	if err != nil {
		return fmt.Errorf("timelock.Params: %w", err)
	}
	nNat, g, h := fields[0], fields[1], fields[2]
	if nNat.TrueLen() < params.MinBitsTimeLockModulus || nNat.Big().Bit(0) != 1 {
		return fmt.Errorf("timelock.Params: invalid modulus: %w", ErrDecoding)
	}
	n := saferith.ModulusFromNat(nNat)
	for _, x := range []*saferith.Nat{g, h} {
		if _, _, lt := x.CmpMod(n); lt != 1 {
			return fmt.Errorf("timelock.Params: generator out of range: %w", ErrDecoding)
		}
	}

	*pp = Params{
		hardness: hardness,
		n:        n,
		nSquared: saferith.ModulusFromNat(new(saferith.Nat).Mul(nNat, nNat, -1)),
		nNat:     n.Nat(),
		g:        g,
		h:        h,
	}
	return nil
}

// MarshalBinary encodes the puzzle as u and v, each as a 4 byte length prefixed big-endian integer.
func (z *Puzzle) MarshalBinary() ([]byte, error) {
	if z.u == nil || z.v == nil {
		return nil, fmt.Errorf("timelock.Puzzle: marshal empty puzzle: %w", ErrDecoding)
	}
	out := appendField(nil, z.u)
	return appendField(out, z.v), nil
}

// UnmarshalBinary decodes a puzzle produced by MarshalBinary.
//
// The puzzle must have been created with EmptyPuzzle, so that u and v can be checked
// against the parameters.
func (z *Puzzle) UnmarshalBinary(data []byte) error {
	if z.params.cleared() {
		return fmt.Errorf("timelock.Puzzle: unmarshal without parameters: %w", ErrParamsMismatch)
	}
	fields, err := readFields(data, 2)
	if err != nil {
		return fmt.Errorf("timelock.Puzzle: %w", err)
	}
	u, v := fields[0], fields[1]
	if _, _, lt := u.CmpMod(z.params.n); lt != 1 {
		return fmt.Errorf("timelock.Puzzle: u out of range: %w", ErrDecoding)
	}
	if _, _, lt := v.CmpMod(z.params.nSquared); lt != 1 {
		return fmt.Errorf("timelock.Puzzle: v out of range: %w", ErrDecoding)
	}
	z.u, z.v = u, v
	return nil
}

func appendField(out []byte, x *saferith.Nat) []byte {
	data := x.Big().Bytes()
	prefix := make([]byte, 4)
	binary.BigEndian.PutUint32(prefix, uint32(len(data)))
	out = append(out, prefix...)
	return append(out, data...)
}

// readFields reads exactly count length prefixed integers, rejecting trailing data.
func readFields(data []byte, count int) ([]*saferith.Nat, error) {
	fields := make([]*saferith.Nat, 0, count)
	for i := 0; i < count; i++ {
		if len(data) < 4 {
			return nil, fmt.Errorf("field %d: short input: %w", i+1, ErrDecoding)
		}
		length := binary.BigEndian.Uint32(data)
		data = data[4:]
		if length > maxFieldBytes || uint32(len(data)) < length {
			return nil, fmt.Errorf("field %d: invalid length %d: %w", i+1, length, ErrDecoding)
		}
		fields = append(fields, new(saferith.Nat).SetBytes(data[:length]))
		data = data[length:]
	}
	if len(data) != 0 {
		return nil, fmt.Errorf("%d trailing bytes: %w", len(data), ErrDecoding)
	}
	return fields, nil
}
