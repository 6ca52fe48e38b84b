package cli

import (
	"fmt"
	"os"

	"github.com/paymo-xmr/vtdlog/pkg/vtdlog"
)

// readCommitment loads a commitment written by the commit command.
func readCommitment(path string) (*vtdlog.Commitment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	group, err := vtdlog.CurveOf(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c := vtdlog.EmptyCommitment(group)
	if err = c.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
