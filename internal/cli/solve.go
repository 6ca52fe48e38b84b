package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/paymo-xmr/vtdlog/pkg/keys"
	"github.com/paymo-xmr/vtdlog/pkg/math/curve"
	"github.com/paymo-xmr/vtdlog/pkg/vtdlog"
)

func (a *app) newSolveCommand() *cobra.Command {
	var (
		parallel bool
		workers  int
	)

	cmd := &cobra.Command{
		Use:   "solve <commitment>",
		Short: "Recover the secret of a commitment",
		Long: `Solve opens the puzzles of a commitment until the interpolated shares match its public key.

By default puzzles are solved one after the other, stopping at the completing share.
With --parallel every puzzle is solved concurrently, trading total work for wall time.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("parallel") {
				parallel = a.cfg.Solver.Parallel
			}
			if !cmd.Flags().Changed("workers") {
				workers = a.cfg.Solver.Workers
			}

			c, err := readCommitment(args[0])
			if err != nil {
				return err
			}
			defer c.Clear()

			progress := newProgressPrinter(cmd.ErrOrStderr(), "solved")
			solver := vtdlog.NewSolver(c).OnProgress(progress.update)

			start := time.Now()
			var secret curve.Scalar
			if parallel {
				secret, err = solver.SolveParallel(cmd.Context(), workers)
			} else {
				secret, err = solver.Solve(cmd.Context())
			}
			progress.finish()
			if err != nil {
				return fmt.Errorf("failed to solve after %d puzzles: %w", solver.Attempts(), err)
			}
			defer curve.Clear(secret)

			encoded, err := keys.EncodeScalar(secret)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			green.Fprintln(w, "✓ Secret recovered")
			printField(w, "Secret", encoded)
			printField(w, "Puzzles", fmt.Sprintf("%d of %d", solver.Attempts(), c.Size()))
			printField(w, "Elapsed", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().BoolVar(&parallel, "parallel", false, "solve all puzzles concurrently")
	cmd.Flags().IntVar(&workers, "workers", 0, "goroutines used with --parallel, 0 for one per CPU")
	return cmd
}
