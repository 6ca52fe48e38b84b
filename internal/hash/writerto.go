package hash

import (
	"encoding/binary"
	"io"
)

// WriterToWithDomain represents a type writing itself, and knowing its domain.
//
// Providing a domain string lets us distinguish the output of different types
// implementing this same interface.
type WriterToWithDomain interface {
	io.WriterTo

	// Domain returns a context string, which should be unique for each implementor
	Domain() string
}

// writeWithDomain writes out a piece of data, using its domain.
//
// The domain is length prefixed, and the data is buffered so that it can be length
// prefixed as well: `len(domain) ∥ domain ∥ len(data) ∥ data`.
func writeWithDomain(w io.Writer, object WriterToWithDomain) error {
	domain := []byte(object.Domain())
	var data lengthCounter
	if _, err := object.WriteTo(&data); err != nil {
		return err
	}

	prefix := make([]byte, 8)
	binary.BigEndian.PutUint64(prefix, uint64(len(domain)))
	if _, err := w.Write(prefix); err != nil {
		return err
	}
	if _, err := w.Write(domain); err != nil {
		return err
	}
	binary.BigEndian.PutUint64(prefix, uint64(len(data)))
	if _, err := w.Write(prefix); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	return nil
}

// lengthCounter collects the output of a WriterTo before it is framed.
type lengthCounter []byte

func (l *lengthCounter) Write(p []byte) (int, error) {
	*l = append(*l, p...)
	return len(p), nil
}

// BytesWithDomain is a useful wrapper to annotate some chunk of data with a domain.
type BytesWithDomain struct {
	TheDomain string
	Bytes     []byte
}

// WriteTo implements io.WriterTo.
func (b BytesWithDomain) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.Bytes)
	return int64(n), err
}

// Domain implements WriterToWithDomain.
func (b BytesWithDomain) Domain() string {
	return b.TheDomain
}
