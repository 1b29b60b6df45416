// Package cli provides the command-line interface of cell-lock.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/taurusgroup/cell-lock/internal/config"
	"github.com/taurusgroup/cell-lock/pkg/lock"
)

// GlobalFlags holds flags available to all commands.
type GlobalFlags struct {
	// ConfigFile is an optional YAML configuration file.
	ConfigFile string
	// Verbose enables debug-level logging.
	Verbose bool
	// Quiet only logs warnings and errors.
	Quiet bool
}

// app is the state shared by subcommands once the root command has run its
// PersistentPreRunE.
type app struct {
	flags  GlobalFlags
	cfg    *config.Config
	logger zerolog.Logger
	stdout io.Writer
	stderr io.Writer
}

// verifier builds the configured lock.Verifier, logging through the app logger.
func (a *app) verifier() (*lock.Verifier, error) {
	return a.cfg.Verifier(lock.WithLogger(a.logger))
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cell-lock",
		Short: "Verify recoverable secp256k1 signatures guarding cells",
		Long: `cell-lock checks that a cell may be consumed: the witness must hold a
signature over the hash of the cell's data, made by the key whose hash is the
lock's argument.

Exit status is 0 when authorized, and the rejection code (100-106) otherwise.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(config.NewViper(), a.flags.ConfigFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = InitLogger(a.stderr, cfg.Log.Level, a.flags.Verbose, a.flags.Quiet)
			a.logger.Debug().
				Str("hash", cfg.Hash.Algorithm).
				Str("personalization", cfg.Hash.Personalization).
				Str("backend", cfg.Recovery.Backend).
				Msg("configuration loaded")
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&a.flags.ConfigFile, "config", "c", "", "path to a YAML configuration file")
	cmd.PersistentFlags().BoolVarP(&a.flags.Verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&a.flags.Quiet, "quiet", "q", false, "only log warnings and errors")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	addVerifyCommand(cmd, a)
	addRunCommand(cmd, a)
	addFingerprintCommand(cmd, a)
	addSignCommand(cmd, a)
	addFixtureCommand(cmd, a)
	addBatchCommand(cmd, a)

	return cmd
}

// Execute runs the command line args and returns the process exit status.
//
// Lock rejections exit with their code, see lock.ExitCode.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{
		logger: zerolog.Nop(),
		stdout: stdout,
		stderr: stderr,
	}
	cmd := newRootCmd(a)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		if _, ok := lock.CodeOf(err); !ok {
			_, _ = fmt.Fprintln(stderr, "Error:", err)
		}
	}
	return lock.ExitCode(err)
}
