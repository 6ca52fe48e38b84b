package hash

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/paymo-xmr/vtdlog/internal/params"
	"github.com/zeebo/blake3"
)

const DigestLengthBytes = params.SecBytes * 2 // 32

// Hash is the hash function we use for fingerprinting time-lock parameters and commitments.
//
// Internally, this is a wrapper around blake3, but any hash function with
// an easily extendable output would work as well.
type Hash struct {
	h *blake3.Hasher
}

// New creates a Hash struct where the internal hash function is initialized with the given domain.
func New(domain string) *Hash {
	hash := &Hash{h: blake3.New()}
	_ = hash.WriteAny(&BytesWithDomain{
		TheDomain: "Domain",
		Bytes:     []byte(domain),
	})
	return hash
}

// Digest returns a reader for the current output of the function.
//
// This finalizes the current state of the hash, and returns what's
// essentially a stream of random bytes.
func (hash *Hash) Digest() io.Reader {
	return hash.h.Digest()
}

// Sum returns a slice of length DigestLengthBytes resulting from the current hash state.
// If a different length is required, use io.ReadFull(hash.Digest(), out) instead.
func (hash *Hash) Sum() []byte {
	out := make([]byte, DigestLengthBytes)
	if _, err := io.ReadFull(hash.Digest(), out); err != nil {
		panic(fmt.Sprintf("hash.Sum: internal hash failure: %v", err))
	}
	return out
}

// WriteAny takes many different data types and writes them to the hash state.
//
// Currently supported types:
//
//   - []byte
//   - uint64
//   - *saferith.Nat
//   - *saferith.Modulus
//   - hash.WriterToWithDomain
//
// This function will apply its own domain separation for the first four types.
// The last type already suggests which domain to use, and this function respects it.
func (hash *Hash) WriteAny(data ...interface{}) error {
	var err error
	for _, d := range data {
		switch t := d.(type) {
		case []byte:
			err = writeWithDomain(hash.h, &BytesWithDomain{
				TheDomain: "[]byte",
				Bytes:     t,
			})
			if err != nil {
				return fmt.Errorf("hash.Hash: write []byte: %w", err)
			}
		case uint64:
			buf := make([]byte, 8)
			binary.BigEndian.PutUint64(buf, t)
			err = writeWithDomain(hash.h, &BytesWithDomain{
				TheDomain: "uint64",
				Bytes:     buf,
			})
			if err != nil {
				return fmt.Errorf("hash.Hash: write uint64: %w", err)
			}
		case *saferith.Nat:
			if t == nil {
				return fmt.Errorf("hash.Hash: write *saferith.Nat: nil")
			}
			err = writeWithDomain(hash.h, &BytesWithDomain{
				TheDomain: "saferith.Nat",
				Bytes:     t.Bytes(),
			})
			if err != nil {
				return fmt.Errorf("hash.Hash: write *saferith.Nat: %w", err)
			}
		case *saferith.Modulus:
			if t == nil {
				return fmt.Errorf("hash.Hash: write *saferith.Modulus: nil")
			}
			err = writeWithDomain(hash.h, &BytesWithDomain{
				TheDomain: "saferith.Modulus",
				Bytes:     t.Bytes(),
			})
			if err != nil {
				return fmt.Errorf("hash.Hash: write *saferith.Modulus: %w", err)
			}
		case WriterToWithDomain:
			if err = writeWithDomain(hash.h, t); err != nil {
				return fmt.Errorf("hash.Hash: write io.WriterTo: %w", err)
			}
		default:
			panic("hash.Hash: unsupported type")
		}
	}
	return nil
}

// Clone returns a copy of the Hash in its current state.
func (hash *Hash) Clone() *Hash {
	return &Hash{h: hash.h.Clone()}
}
