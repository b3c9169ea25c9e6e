// Package cli implements the binscope command tree.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/robert-malhotra/binscope/internal/config"
	"github.com/robert-malhotra/binscope/internal/logging"
)

// Version is set at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

// app holds the state shared by every subcommand of one invocation.
type app struct {
	logLevel   string
	configPath string
	save       bool

	logger  zerolog.Logger
	loader  *config.Loader
	session *config.Session
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:   "binscope",
		Short: "Inspect binary files as grids of numbers or as text",
		Long: `binscope reinterprets any file as a grid of fixed-width numbers
(int8 to int64, float32, float64) or as text, and helps locate regions that
look like deliberately written data.

Layouts are described by --start (elements skipped), --phase (bytes skipped),
--columns and --type. The last layout and file can be kept in a session file
with --save so later commands pick them up.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level (trace, debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Session file (default $"+config.EnvConfig+" or the user config dir)")
	cmd.PersistentFlags().BoolVar(&a.save, "save", false, "Save the effective file and layout to the session")

	cmd.AddCommand(newInfoCmd(a))
	cmd.AddCommand(newDumpCmd(a))
	cmd.AddCommand(newTextCmd(a))
	cmd.AddCommand(newScanCmd(a))
	cmd.AddCommand(newSearchCmd(a))
	cmd.AddCommand(newNextAOICmd(a))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg := logging.DefaultConfig()
	cfg.Level = a.logLevel
	cfg.Pretty = isTerminal(os.Stderr)
	cfg.Output = cmd.ErrOrStderr()
	a.logger = logging.NewWithComponent(cfg, "binscope")

	if a.configPath != "" {
		a.loader = config.NewLoaderAt(a.configPath)
	} else {
		a.loader = config.NewLoader()
	}
	s, err := a.loader.Load()
	if err != nil {
		return err
	}
	a.session = s
	a.logger.Debug().Str("session", a.loader.Path()).Msg("loaded session")
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("binscope version %s\n", Version)
		},
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
