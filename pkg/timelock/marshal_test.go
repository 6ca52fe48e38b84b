package timelock

import (
	"crypto/rand"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParams_Marshal(t *testing.T) {
	pp := newTestParams(t, 12)
	data, err := pp.MarshalBinary()
	require.NoError(t, err)
	assert.EqualValues(t, 12, binary.BigEndian.Uint64(data))

	pp2 := new(Params)
	require.NoError(t, pp2.UnmarshalBinary(data))
	assert.True(t, pp.Equal(pp2))
	assert.Equal(t, pp.Fingerprint(), pp2.Fingerprint())

	// a puzzle made under the original parameters solves under the decoded ones
	z, err := Generate(rand.Reader, pp, []byte("wire"))
	require.NoError(t, err)
	sol, err := Solve(pp2, z)
	require.NoError(t, err)
	out, err := sol.BytesWidth(4)
	require.NoError(t, err)
	assert.Equal(t, []byte("wire"), out)
}

func TestParams_UnmarshalErrors(t *testing.T) {
	pp := newTestParams(t, 3)
	data, err := pp.MarshalBinary()
	require.NoError(t, err)

	assert.ErrorIs(t, new(Params).UnmarshalBinary(data[:5]), ErrDecoding)
	assert.ErrorIs(t, new(Params).UnmarshalBinary(data[:len(data)-1]), ErrDecoding)
	assert.ErrorIs(t, new(Params).UnmarshalBinary(append(data, 0)), ErrDecoding)

	zeroHardness := append([]byte(nil), data...)
	binary.BigEndian.PutUint64(zeroHardness, 0)
	assert.ErrorIs(t, new(Params).UnmarshalBinary(zeroHardness), ErrInvalidHardness)

	// an even modulus: N is the first field, its last byte is its least significant
	nLen := int(binary.BigEndian.Uint32(data[8:]))
	evenN := append([]byte(nil), data...)
	evenN[8+4+nLen-1] &^= 1
	assert.ErrorIs(t, new(Params).UnmarshalBinary(evenN), ErrDecoding)
}

func TestPuzzle_Marshal(t *testing.T) {
	pp := newTestParams(t, 4)
	z, err := Generate(rand.Reader, pp, []byte("paymo!"))
	require.NoError(t, err)

	data, err := z.MarshalBinary()
	require.NoError(t, err)
	uLen := int(binary.BigEndian.Uint32(data))
	vLen := int(binary.BigEndian.Uint32(data[4+uLen:]))
	assert.Equal(t, 8+uLen+vLen, len(data))

	z2 := EmptyPuzzle(pp)
	require.NoError(t, z2.UnmarshalBinary(data))
	assert.True(t, z.Equal(z2))

	sol, err := Solve(pp, z2)
	require.NoError(t, err)
	out, err := sol.BytesWidth(6)
	require.NoError(t, err)
	assert.Equal(t, []byte("paymo!"), out)

	assert.ErrorIs(t, EmptyPuzzle(nil).UnmarshalBinary(data), ErrParamsMismatch)
	assert.ErrorIs(t, EmptyPuzzle(pp).UnmarshalBinary(data[:len(data)-1]), ErrDecoding)

	// u ≥ N is rejected
	bad := appendField(nil, pp.N().Nat())
	bad = append(bad, data[4+uLen:]...)
	assert.ErrorIs(t, EmptyPuzzle(pp).UnmarshalBinary(bad), ErrDecoding)
}
