package vtdlog

import (
	"errors"
	"fmt"
)

var (
	// ErrShareVerificationFailed means a solved share does not match its public point.
	// The whole commitment must be considered malicious.
	ErrShareVerificationFailed = errors.New("vtdlog: share does not match its commitment")
	// ErrReconstructionFailed means every share was solved and verified, but none completed the secret.
	ErrReconstructionFailed = errors.New("vtdlog: no share reconstructs the committed secret")
	// ErrConsumed is returned when solving a commitment that was already solved.
	ErrConsumed = errors.New("vtdlog: commitment already consumed")
	// ErrInvalidParameters is returned for an invalid number of shares, threshold, or modulus size.
	ErrInvalidParameters = errors.New("vtdlog: invalid parameters")
	// ErrMalformed is returned for commitments whose parts do not fit together.
	ErrMalformed = errors.New("vtdlog: malformed commitment")
)

// ShareError reports a failure attributable to a single share.
type ShareError struct {
	// Index is the 1-based index of the share.
	Index int
	// Err is the underlying error
	Err error
}

func (e ShareError) Error() string {
	return fmt.Sprintf("share %d: %s", e.Index, e.Err)
}

func (e ShareError) Unwrap() error {
	return e.Err
}
