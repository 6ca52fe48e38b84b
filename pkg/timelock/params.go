package timelock

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cronokirby/saferith"
	"github.com/paymo-xmr/vtdlog/internal/hash"
	"github.com/paymo-xmr/vtdlog/internal/params"
	"github.com/paymo-xmr/vtdlog/pkg/math/arith"
	"github.com/paymo-xmr/vtdlog/pkg/math/sample"
	"github.com/paymo-xmr/vtdlog/pkg/pool"
	"github.com/rs/zerolog"
)

// Params are the public parameters of a set of puzzles.
//
// The factorization of N is not part of Params: it only exists during Setup.
type Params struct {
	// hardness T is the number of sequential squarings needed to solve a puzzle
	hardness uint64
	// n = N, nSquared = N²
	n, nSquared *saferith.Modulus
	// nNat is N as a Nat, for exponents
	nNat *saferith.Nat
	// g generates the group of squares (up to sign), h = g^(2ᵀ) (mod N)
	g, h *saferith.Nat
}

// Setup generates fresh parameters with a modulus of bits bits, for puzzles requiring
// hardness sequential squarings to solve.
//
// The prime search is parallelized over pl, which may be nil.
func Setup(ctx context.Context, rand io.Reader, pl *pool.Pool, bits int, hardness uint64) (*Params, error) {
	if hardness < 1 {
		return nil, ErrInvalidHardness
	}
	if bits < params.MinBitsTimeLockModulus || bits%2 != 0 {
		return nil, fmt.Errorf("%d bits: %w", bits, ErrInvalidModulusSize)
	}
	logger := zerolog.Ctx(ctx)
	start := time.Now()

	p, q := sample.SafePrimes(rand, bits/2, pl)
	logger.Debug().Int("bits", bits).Dur("took", time.Since(start)).Msg("sampled safe primes")

	pp := newParams(p, q, rand, hardness)
	p.SetUint64(0)
	q.SetUint64(0)

	logger.Debug().
		Uint64("hardness", hardness).
		Hex("fingerprint", pp.Fingerprint()).
		Dur("took", time.Since(start)).
		Msg("time-lock parameters ready")
	return pp, nil
}

// newParams computes the parameters for N = p⋅q, with p = 2p'+1 and q = 2q'+1 safe primes.
func newParams(p, q *saferith.Nat, rand io.Reader, hardness uint64) *Params {
	n := arith.ModulusFromFactors(p, q)
	defer n.Forget()

	// The squares mod N form a cyclic group of order p'⋅q'.
	pPrime := new(saferith.Nat).Rsh(p, 1, -1)
	qPrime := new(saferith.Nat).Rsh(q, 1, -1)
	orderNat := new(saferith.Nat).Mul(pPrime, qPrime, -1)
	order := saferith.ModulusFromNat(orderNat)
	defer func() {
		pPrime.SetUint64(0)
		qPrime.SetUint64(0)
		orderNat.SetUint64(0)
	}()

	// g̃² is a square, and g = -g̃²
	gTilde := sample.UnitModN(rand, n.Modulus)
	gTildeSquared := new(saferith.Nat).ModMul(gTilde, gTilde, n.Modulus)
	g := new(saferith.Nat).ModNeg(gTildeSquared, n.Modulus)

	// h = g^(2ᵀ) = (g̃²)^(2ᵀ mod p'q') since 2ᵀ is even
	e := arith.PowerOfTwo(hardness, order)
	h := n.Exp(gTildeSquared, e)

	nNat := n.Nat()
	return &Params{
		hardness: hardness,
		n:        n.Modulus,
		nSquared: saferith.ModulusFromNat(new(saferith.Nat).Mul(nNat, nNat, -1)),
		nNat:     nNat,
		g:        g,
		h:        h,
	}
}

// Hardness returns the number T of sequential squarings needed to solve a puzzle.
func (pp *Params) Hardness() uint64 {
	return pp.hardness
}

// N returns the modulus. It must not be modified.
func (pp *Params) N() *saferith.Modulus {
	return pp.n
}

// Bits returns the bit length of N.
func (pp *Params) Bits() int {
	return pp.n.BitLen()
}

// Equal returns true if both parameters define the same puzzle space.
func (pp *Params) Equal(other *Params) bool {
	if pp == other {
		return true
	}
	if pp == nil || other == nil || pp.n == nil || other.n == nil {
		return false
	}
	return pp.hardness == other.hardness &&
		pp.nNat.Eq(other.nNat) == 1 &&
		pp.g.Eq(other.g) == 1 &&
		pp.h.Eq(other.h) == 1
}

// Fingerprint returns a short digest identifying the parameters, suitable for logs.
func (pp *Params) Fingerprint() []byte {
	h := hash.New("timelock.Params")
	_ = h.WriteAny(pp)
	return h.Sum()[:8]
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (pp *Params) WriteTo(w io.Writer) (int64, error) {
	data, err := pp.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (*Params) Domain() string {
	return "Time-Lock Params"
}

// Clear overwrites the parameters. They cannot be used afterwards.
func (pp *Params) Clear() {
	if pp == nil {
		return
	}
	for _, x := range []*saferith.Nat{pp.nNat, pp.g, pp.h} {
		if x != nil {
			x.SetUint64(0)
		}
	}
	pp.hardness = 0
	pp.n, pp.nSquared, pp.nNat, pp.g, pp.h = nil, nil, nil, nil, nil
}

func (pp *Params) cleared() bool {
	return pp == nil || pp.n == nil
}
