package timelock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/paymo-xmr/vtdlog/internal/params"
	"github.com/paymo-xmr/vtdlog/pkg/math/curve"
	"github.com/paymo-xmr/vtdlog/pkg/math/sample"
	"github.com/paymo-xmr/vtdlog/pkg/pool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBits = 320

func newTestParams(t testing.TB, hardness uint64) *Params {
	pl := pool.NewPool(0)
	defer pl.TearDown()
	pp, err := Setup(context.Background(), rand.Reader, pl, testBits, hardness)
	require.NoError(t, err)
	return pp
}

func TestSetup(t *testing.T) {
	pp := newTestParams(t, 10)
	assert.Equal(t, testBits, pp.Bits())
	assert.EqualValues(t, 10, pp.Hardness())
	assert.Len(t, pp.Fingerprint(), 8)

	// h = g^(2ᵀ) (mod N), which the trapdoor computed without squaring
	h := squareNaively(pp.g, pp.hardness, pp.n)
	assert.Equal(t, 1, int(h.Eq(pp.h)))

	_, err := Setup(context.Background(), rand.Reader, nil, testBits, 0)
	assert.ErrorIs(t, err, ErrInvalidHardness)
	_, err = Setup(context.Background(), rand.Reader, nil, 32, 1)
	assert.ErrorIs(t, err, ErrInvalidModulusSize)
	_, err = Setup(context.Background(), rand.Reader, nil, 129, 1)
	assert.ErrorIs(t, err, ErrInvalidModulusSize)
}

func TestPuzzle_RoundTrip(t *testing.T) {
	pp := newTestParams(t, 50)

	z, err := Generate(rand.Reader, pp, []byte("paymo!"))
	require.NoError(t, err)
	sol, err := Solve(pp, z)
	require.NoError(t, err)
	assert.Equal(t, uint64(123563951353633), sol.Nat().Big().Uint64())
	out, err := sol.BytesWidth(6)
	require.NoError(t, err)
	assert.Equal(t, []byte("paymo!"), out)
	assert.Len(t, sol.Bytes(), testBits/8)

	_, err = sol.BytesWidth(5)
	assert.ErrorIs(t, err, ErrDecoding)
}

func TestPuzzle_Scalars(t *testing.T) {
	pp := newTestParams(t, 5)
	for _, group := range []curve.Curve{curve.Edwards25519{}, curve.Secp256k1{}} {
		for i := 0; i < 5; i++ {
			s := sample.Scalar(rand.Reader, group)
			z, err := GenerateNat(rand.Reader, pp, s.Nat())
			require.NoError(t, err)
			sol, err := Solve(pp, z)
			require.NoError(t, err)
			assert.True(t, group.NewScalar().SetNat(sol.Nat()).Equal(s))
		}
	}
}

func TestPuzzle_Zero(t *testing.T) {
	pp := newTestParams(t, 3)
	z, err := Generate(rand.Reader, pp, nil)
	require.NoError(t, err)
	sol, err := Solve(pp, z)
	require.NoError(t, err)
	assert.Equal(t, 1, int(sol.Nat().EqZero()))
}

func TestCombine(t *testing.T) {
	pp := newTestParams(t, 20)

	words := []string{"paymo!", "is", "cool", "!!!!", "SENIOR", "PROJECT!"}
	puzzles := make([]*Puzzle, 0, len(words))
	for _, w := range words {
		z, err := Generate(rand.Reader, pp, []byte(w))
		require.NoError(t, err)
		puzzles = append(puzzles, z)
	}
	batch, err := Combine(pp, puzzles...)
	require.NoError(t, err)
	sol, err := Solve(pp, batch)
	require.NoError(t, err)
	out, err := sol.BytesWidth(8)
	require.NoError(t, err)
	assert.Equal(t, "505312f1918b0c94", hex.EncodeToString(out))

	empty, err := Combine(pp)
	require.NoError(t, err)
	sol, err = Solve(pp, empty)
	require.NoError(t, err)
	assert.Equal(t, 1, int(sol.Nat().EqZero()))
}

func TestCombine_Scalars(t *testing.T) {
	pp := newTestParams(t, 5)
	group := curve.Edwards25519{}

	sum := group.NewScalar()
	puzzles := make([]*Puzzle, 0, params.Shares)
	for i := 0; i < params.Shares; i++ {
		s := sample.Scalar(rand.Reader, group)
		sum.Add(s)
		z, err := GenerateNat(rand.Reader, pp, s.Nat())
		require.NoError(t, err)
		puzzles = append(puzzles, z)
	}
	batch, err := Combine(pp, puzzles...)
	require.NoError(t, err)
	sol, err := Solve(pp, batch)
	require.NoError(t, err)
	assert.True(t, group.NewScalar().SetNat(sol.Nat()).Equal(sum), "Σ sᵢ mod ℓ")
}

func TestCombine_ParamsMismatch(t *testing.T) {
	pp1 := newTestParams(t, 5)
	pp2 := newTestParams(t, 5)

	z1, err := Generate(rand.Reader, pp1, []byte{1})
	require.NoError(t, err)
	z2, err := Generate(rand.Reader, pp2, []byte{2})
	require.NoError(t, err)

	_, err = Combine(pp1, z1, z2)
	assert.ErrorIs(t, err, ErrParamsMismatch)
	_, err = Combine(pp1, z1, nil)
	assert.ErrorIs(t, err, ErrParamsMismatch)
	_, err = Solve(pp1, z2)
	assert.ErrorIs(t, err, ErrParamsMismatch)
}

func TestGenerate_Encoding(t *testing.T) {
	pp := newTestParams(t, 1)

	_, err := GenerateNat(rand.Reader, pp, pp.N().Nat())
	assert.ErrorIs(t, err, ErrEncoding)

	tooBig := make([]byte, testBits/8+1)
	tooBig[0] = 1
	_, err = Generate(rand.Reader, pp, tooBig)
	assert.ErrorIs(t, err, ErrEncoding)

	nMinusOne := new(saferith.Nat).Sub(pp.N().Nat(), new(saferith.Nat).SetUint64(1), -1)
	z, err := GenerateNat(rand.Reader, pp, nMinusOne)
	require.NoError(t, err)
	sol, err := Solve(pp, z)
	require.NoError(t, err)
	assert.Equal(t, 1, int(sol.Nat().Eq(nMinusOne)))
}

func TestSolve_Decoding(t *testing.T) {
	pp := newTestParams(t, 5)
	z, err := Generate(rand.Reader, pp, []byte("tamper"))
	require.NoError(t, err)

	tampered := &Puzzle{
		params: pp,
		u:      z.u,
		v:      new(saferith.Nat).ModAdd(z.v, new(saferith.Nat).SetUint64(1), pp.nSquared),
	}
	_, err = Solve(pp, tampered)
	assert.ErrorIs(t, err, ErrDecoding)

	tampered = &Puzzle{params: pp, u: new(saferith.Nat), v: z.v}
	_, err = Solve(pp, tampered)
	assert.ErrorIs(t, err, ErrDecoding)

	_, err = Solve(pp, EmptyPuzzle(pp))
	assert.ErrorIs(t, err, ErrDecoding)
}

func TestSolve_SquaringCount(t *testing.T) {
	for _, hardness := range []uint64{1, 7, 100} {
		pp := newTestParams(t, hardness)
		z, err := Generate(rand.Reader, pp, []byte{42})
		require.NoError(t, err)

		var count, last uint64
		sol, err := SolveWithProgress(pp, z, func(done uint64) {
			count++
			last = done
		})
		require.NoError(t, err)
		assert.Equal(t, hardness, count)
		assert.Equal(t, hardness, last)
		assert.Equal(t, uint64(42), sol.Nat().Big().Uint64())
	}
}

func TestClear(t *testing.T) {
	pp := newTestParams(t, 2)
	z, err := Generate(rand.Reader, pp, []byte{7})
	require.NoError(t, err)
	sol, err := Solve(pp, z)
	require.NoError(t, err)

	sol.Clear()
	assert.Equal(t, 1, int(sol.Nat().EqZero()))

	z.Clear()
	assert.Nil(t, z.Params())
	_, err = z.MarshalBinary()
	assert.Error(t, err)

	pp.Clear()
	_, err = Generate(rand.Reader, pp, []byte{1})
	assert.ErrorIs(t, err, ErrParamsMismatch)
	_, err = pp.MarshalBinary()
	assert.Error(t, err)
}

// squareNaively squares naively, to check the trapdoor computation in Setup.
func squareNaively(x *saferith.Nat, t uint64, n *saferith.Modulus) *saferith.Nat {
	out := new(saferith.Nat).SetNat(x)
	for i := uint64(0); i < t; i++ {
		out.ModMul(out, out, n)
	}
	return out
}

func BenchmarkSolve(b *testing.B) {
	pp := newTestParams(b, 10_000)
	z, err := Generate(rand.Reader, pp, []byte("bench"))
	require.NoError(b, err)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Solve(pp, z)
	}
}
