package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/workspace-patcher/internal/config"
	"github.com/oshokin/workspace-patcher/internal/logger"
	"github.com/oshokin/workspace-patcher/internal/service/patcher"
	"github.com/oshokin/workspace-patcher/internal/version"
)

// errUnknownLogLevel is returned for an unrecognized --log-level value.
var errUnknownLogLevel = errors.New("unknown log level")

// NewRootCommand builds the workspace-patcher command.
func NewRootCommand() *cobra.Command {
	var (
		rootDir      string
		configPath   string
		rustVersion  string
		logLevel     string
		atomicWrites bool
		dryRun       bool
	)

	rootCmd := &cobra.Command{
		Use:   "workspace-patcher [flags]",
		Short: "Register extra workspace crates and pin the Rust toolchain version.",
		Long: `Patches a Rust repository checkout in four steps:

  1. adds the configured crates to workspace.members of Cargo.toml;
  2. sets channel in rust-toolchain.toml;
  3. sets the rust tool version in .config/mise/config.toml;
  4. sets the rust base image and install command of the Dockerfile.

The version comes from --rust-version, then the ` + config.DefaultVersionEnv + ` environment
variable (or a .env file in the root), then "` + config.DefaultVersion + `".
Steps 2-4 are skipped when their file is absent.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			level, ok := logger.ParseLogLevel(logLevel)
			if !ok {
				return fmt.Errorf("%w: %s", errUnknownLogLevel, logLevel)
			}

			logger.SetLevel(level)

			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &patcher.Options{
				RootDir:      rootDir,
				ConfigPath:   configPath,
				Version:      rustVersion,
				AtomicWrites: atomicWrites,
				DryRun:       dryRun,
				Stdout:       cmd.OutOrStdout(),
			}

			_, err := patcher.Run(ctx, options)

			return err
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&rootDir, "root", "r", ".", "repository root to patch")
	flags.StringVarP(&configPath, "config", "c", "",
		"path to settings file (default <root>/"+config.DefaultConfigFilename+" when present)")
	flags.StringVar(&rustVersion, "rust-version", "", "toolchain version, overrides $"+config.DefaultVersionEnv)
	flags.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.BoolVar(&atomicWrites, "atomic", false, "replace files through a rename instead of overwriting in place")
	flags.BoolVar(&dryRun, "dry-run", false, "report the changes without writing files")

	version.AttachCobraVersionCommand(rootCmd)

	return rootCmd
}

// Execute runs the workspace-patcher CLI and exits with non-zero status on error.
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		logger.ErrorKV(context.Background(), "workspace-patcher failed", "error", err)
		os.Exit(1)
	}
}
