// Package timelock implements linearly homomorphic time-lock puzzles.
//
// A puzzle hides an integer s < N so that recovering it takes T sequential
// squarings modulo an RSA modulus N of unknown factorization. Puzzles generated
// under the same Params can be combined into a single puzzle of the sum of their
// values, without solving any of them.
//
// The construction is the one of Malavolta and Thyagarajan, "Homomorphic Time-Lock Puzzles
// and Applications" (https://eprint.iacr.org/2019/635), section 4.1:
//
//	g = -g̃² (mod N),   h = g^(2ᵀ) (mod N)
//	u = gʳ (mod N),    v = h^(r⋅N)⋅(1+N)ˢ (mod N²)
//
// Only the party running Setup can compute h quickly, through the factorization of N,
// which is forgotten before Setup returns.
package timelock

import "errors"

var (
	// ErrEncoding is returned when a value does not fit below the puzzle modulus.
	ErrEncoding = errors.New("timelock: value does not fit the puzzle modulus")
	// ErrDecoding is returned for malformed puzzles, parameters, or solutions.
	ErrDecoding = errors.New("timelock: malformed puzzle")
	// ErrParamsMismatch is returned when puzzles bound to different parameters are used together.
	ErrParamsMismatch = errors.New("timelock: puzzle parameters mismatch")
	// ErrInvalidHardness is returned when the hardness is 0.
	ErrInvalidHardness = errors.New("timelock: hardness must be at least 1")
	// ErrInvalidModulusSize is returned when the requested modulus is too small or has an odd size.
	ErrInvalidModulusSize = errors.New("timelock: invalid modulus size")
)
