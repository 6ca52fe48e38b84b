// Package keys holds the key helpers the commitment layer is used with:
// Keccak-256 hashing, hashing to scalars, key pairs, and hex scalar encoding.
package keys

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/paymo-xmr/vtdlog/pkg/math/curve"
	"github.com/paymo-xmr/vtdlog/pkg/math/sample"
	"golang.org/x/crypto/sha3"
)

// HashLength is the size of a Keccak-256 digest.
const HashLength = 32

// Hash returns the Keccak-256 digest of data, as used by Monero.
//
// This is the original Keccak padding, not the SHA3-256 standard.
func Hash(data ...[]byte) [HashLength]byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		_, _ = h.Write(d)
	}
	var out [HashLength]byte
	h.Sum(out[:0])
	return out
}

// HashToScalar hashes data with Keccak-256 and reduces the digest to a scalar.
//
// Over edwards25519 the digest is read little-endian, matching Monero's hash_to_scalar.
// Over other groups it is truncated big-endian, as curve.FromHash does.
func HashToScalar(group curve.Curve, data ...[]byte) curve.Scalar {
	digest := Hash(data...)
	if _, ok := group.(curve.Edwards25519); !ok {
		return curve.FromHash(group, digest[:])
	}
	be := make([]byte, HashLength)
	for i := range digest {
		be[HashLength-1-i] = digest[i]
	}
	return group.NewScalar().SetNat(new(saferith.Nat).SetBytes(be))
}

// KeyPair is a secret scalar and its public point Public = Secret⋅G.
type KeyPair struct {
	Secret curve.Scalar
	Public curve.Point
}

// GenerateKeyPair samples a nonzero secret and derives its public point.
func GenerateKeyPair(rand io.Reader, group curve.Curve) *KeyPair {
	secret := sample.ScalarUnit(rand, group)
	return &KeyPair{Secret: secret, Public: secret.ActOnBase()}
}

// Clear overwrites the secret.
func (kp *KeyPair) Clear() {
	curve.Clear(kp.Secret)
}

var ErrInvalidScalar = errors.New("keys: invalid scalar encoding")

// EncodeScalar returns the hex encoding of the canonical bytes of s.
func EncodeScalar(s curve.Scalar) (string, error) {
	data, err := s.MarshalBinary()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(data), nil
}

// ParseScalar decodes a hex encoded canonical scalar of group.
func ParseScalar(group curve.Curve, s string) (curve.Scalar, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScalar, err)
	}
	x := group.NewScalar()
	if err = x.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScalar, err)
	}
	return x, nil
}

// EncodePoint returns the hex encoding of the compressed point p.
func EncodePoint(p curve.Point) (string, error) {
	data, err := p.MarshalBinary()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(data), nil
}
