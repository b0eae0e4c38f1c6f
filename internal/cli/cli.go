// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// options are the global flags shared by every command.
type options struct {
	configPath string
	jsonMode   bool
}

// NewRootCommand builds the composer command tree. Without a subcommand it
// starts the interactive composer.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	var printSubmissions bool

	root := &cobra.Command{
		Use:   "composer",
		Short: "Chat composer with @file mentions",
		Long: `composer is a terminal chat composer. Type @ to mention a file from the
project file table; mentioned files are attached to the message when it is sent.

The file table is kept in ~/.composer/files.db and can be scripted with the
"files" subcommands.`,
		Args:          noArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts, printSubmissions, cmd.OutOrStdout())
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.composer/config.toml)")
	root.PersistentFlags().BoolVar(&opts.jsonMode, "json", false, "output JSON")
	root.Flags().BoolVar(&printSubmissions, "print", false, "print sent messages with their attached files on exit")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.AddCommand(
		newFilesCommand(opts),
		newConfigCommand(opts),
		newVersionCommand(opts),
	)
	return root
}

// Execute runs the command line args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	cmd, err := root.ExecuteContextC(ctx)
	if err != nil {
		jsonMode, _ := root.PersistentFlags().GetBool("json")
		w := stderr
		if jsonMode {
			w = stdout
		}
		DisplayError(w, err, jsonMode, cmd.CommandPath())
		return GetExitCode(err)
	}
	return ExitSuccess
}

// =============================================================================
// VERSION
// =============================================================================

// VersionInfo is the payload of "composer version".
type VersionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
}

func newVersionCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := VersionInfo{Version: Version, GitCommit: GitCommit, BuildDate: BuildDate}
			if opts.jsonMode {
				return NewJSONResponse("version", info).Write(cmd.OutOrStdout())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "composer %s (commit %s, built %s)\n", info.Version, info.GitCommit, info.BuildDate)
			return nil
		},
	}
}

// =============================================================================
// ARGUMENT VALIDATION
// =============================================================================

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return &usageError{err: err}
	}
	return nil
}
