package cli

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/paymo-xmr/vtdlog/pkg/pool"
	"github.com/paymo-xmr/vtdlog/pkg/timelock"
)

// progressSteps is how many times a puzzle solve reports its progress.
const progressSteps = 100

func (a *app) newPuzzleCommand() *cobra.Command {
	var (
		message  string
		hardness uint64
		bits     int
	)

	cmd := &cobra.Command{
		Use:   "puzzle",
		Short: "Lock and reopen a single message",
		Long: `Puzzle sets up fresh time-lock parameters, locks a message and solves it again.

This measures how long a given hardness takes on this machine.`,
		Example: `  vtdlog puzzle --message paymo! --hardness 5000000`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := a.cfg.Commitment
			if !cmd.Flags().Changed("hardness") {
				hardness = cc.Hardness
			}
			if !cmd.Flags().Changed("bits") {
				bits = cc.ModulusBits
			}
			ctx := cmd.Context()

			pl := pool.NewPool(a.cfg.Solver.Workers)
			defer pl.TearDown()

			start := time.Now()
			pp, err := timelock.Setup(ctx, rand.Reader, pl, bits, hardness)
			if err != nil {
				return err
			}
			defer pp.Clear()
			setup := time.Since(start)

			z, err := timelock.Generate(rand.Reader, pp, []byte(message))
			if err != nil {
				return err
			}

			progress := newProgressPrinter(cmd.ErrOrStderr(), "squarings")
			every := hardness / progressSteps
			if every == 0 {
				every = 1
			}
			start = time.Now()
			sol, err := timelock.SolveWithProgress(pp, z, func(done uint64) {
				if done%every == 0 || done == hardness {
					progress.update(int(done), int(hardness))
				}
			})
			progress.finish()
			if err != nil {
				return fmt.Errorf("failed to solve: %w", err)
			}
			defer sol.Clear()
			opened, err := sol.BytesWidth(len(message))
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			green.Fprintln(w, "✓ Puzzle solved")
			printField(w, "Message", string(opened))
			printField(w, "Setup", setup.Round(time.Millisecond))
			printField(w, "Solve", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "message to lock, shorter than the modulus")
	cmd.Flags().Uint64Var(&hardness, "hardness", 0, "sequential squarings, overriding the configuration")
	cmd.Flags().IntVar(&bits, "bits", 0, "modulus size, overriding the configuration")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}
