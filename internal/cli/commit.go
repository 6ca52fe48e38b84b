package cli

import (
	"crypto/rand"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/paymo-xmr/vtdlog/pkg/keys"
	"github.com/paymo-xmr/vtdlog/pkg/math/curve"
	"github.com/paymo-xmr/vtdlog/pkg/pool"
	"github.com/paymo-xmr/vtdlog/pkg/vtdlog"
)

func (a *app) newCommitCommand() *cobra.Command {
	var (
		secretHex string
		out       string
		hardness  uint64
	)

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Commit to a secret scalar",
		Long: `Commit locks a secret scalar behind time-lock puzzles and writes the commitment to a file.

The scalar is given as the hex encoding of its canonical bytes. Without --secret, a fresh
key pair is generated and only its public key is printed.`,
		Example: `  # Commit to a fresh key, solvable after 1000000 squarings per share
  vtdlog commit --hardness 1000000 --out commitment.vtd

  # Commit to a known scalar over secp256k1
  VTDLOG_COMMITMENT__CURVE=secp256k1 vtdlog commit --secret 0b1c...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := *a.cfg.Commitment
			if cmd.Flags().Changed("hardness") {
				cc.Hardness = hardness
			}
			if err := cc.Validate(); err != nil {
				return err
			}
			group, err := cc.Group()
			if err != nil {
				return err
			}

			var secret curve.Scalar
			if secretHex != "" {
				if secret, err = keys.ParseScalar(group, secretHex); err != nil {
					return err
				}
			} else {
				secret = keys.GenerateKeyPair(rand.Reader, group).Secret
			}
			defer curve.Clear(secret)

			pl := pool.NewPool(a.cfg.Solver.Workers)
			defer pl.TearDown()

			start := time.Now()
			c, err := vtdlog.CommitWithParameters(cmd.Context(), rand.Reader, cc.Parameters(), secret, cc.Hardness, pl)
			if err != nil {
				return fmt.Errorf("failed to commit: %w", err)
			}
			defer c.Clear()

			data, err := c.MarshalBinary()
			if err != nil {
				return err
			}
			if err = os.WriteFile(out, data, 0o600); err != nil {
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
			green.Fprintf(w, "✓ Commitment written to %s\n", out)
			printField(w, "Public key", target)
			printHex(w, "Digest", digest)
			printField(w, "Shares", fmt.Sprintf("%d, threshold %d", c.Size(), c.Threshold()))
			printField(w, "Hardness", c.Hardness())
			printField(w, "Elapsed", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVarP(&secretHex, "secret", "s", "", "hex encoded secret scalar")
	cmd.Flags().StringVarP(&out, "out", "o", "commitment.vtd", "file to write the commitment to")
	cmd.Flags().Uint64Var(&hardness, "hardness", 0, "sequential squarings per puzzle, overriding the configuration")
	return cmd
}
