// Package cli implements the commands of the vtdlog executable.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paymo-xmr/vtdlog/config"
	"github.com/paymo-xmr/vtdlog/log"
)

const moduleName = "vtdlog"

// app holds the state shared by the sub-commands, populated before any of them runs.
type app struct {
	configPath string
	cfg        *config.Config
}

// NewRootCommand creates the vtdlog command with all of its sub-commands.
func NewRootCommand() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "vtdlog",
		Short: "Verifiable timed commitments to discrete logarithms",
		Long: `vtdlog locks a scalar x behind a chain of time-lock puzzles, publishing H = x⋅G.

Anyone holding the commitment can recover x by performing the sequential squarings
of the puzzles, stopping as soon as the interpolated shares reach H.

Configuration is read from an optional yaml file, and from VTDLOG_ environment
variables, e.g. VTDLOG_COMMITMENT__HARDNESS=1000000.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
	}
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a yaml config file")

	cmd.AddCommand(
		a.newCommitCommand(),
		a.newSolveCommand(),
		a.newInspectCommand(),
		a.newPuzzleCommand(),
	)
	return cmd
}

// init loads the configuration, and attaches a logger to the context of cmd.
func (a *app) init(cmd *cobra.Command, _ []string) error {
	cfg, err := config.InitConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger, err := log.FromStrings(moduleName, cmd.ErrOrStderr(), cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return err
	}
	a.cfg = cfg

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logger.WithContext(ctx))
	return nil
}
