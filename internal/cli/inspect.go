package cli

import (
	"github.com/spf13/cobra"

	"github.com/paymo-xmr/vtdlog/pkg/keys"
)

func (a *app) newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <commitment>",
		Short: "Print the public parameters of a commitment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := readCommitment(args[0])
			if err != nil {
				return err
			}
			defer c.Clear()

			if err = c.Validate(); err != nil {
				return err
			}
			digest, err := c.Digest()
			if err != nil {
				return err
			}
			target, err := keys.EncodePoint(c.Target())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printField(w, "Curve", c.Group().Name())
			printField(w, "Public key", target)
			printField(w, "Shares", c.Size())
			printField(w, "Threshold", c.Threshold())
			printField(w, "Hardness", c.Hardness())
			printField(w, "Modulus bits", c.Params().Bits())
			printHex(w, "Params", c.Params().Fingerprint())
			printHex(w, "Digest", digest)
			return nil
		},
	}
}
