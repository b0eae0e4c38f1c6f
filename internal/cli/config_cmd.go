// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Config file inspection and editing.

package cli

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/jeranaias/composer/internal/config"
)

// ConfigValue is the payload of "config get" and "config set".
type ConfigValue struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

func newConfigCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change configuration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  noArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig(opts)
				if err != nil {
					return err
				}
				if opts.jsonMode {
					return NewJSONResponse("config show", cfg).Write(cmd.OutOrStdout())
				}
				return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
			},
		},
		&cobra.Command{
			Use:   "get KEY",
			Short: "Print one value, e.g. ui.menu_width",
			Args:  exactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig(opts)
				if err != nil {
					return err
				}
				v, err := cfg.Get(args[0])
				if err != nil {
					return &usageError{err: err}
				}
				if opts.jsonMode {
					return NewJSONResponse("config get", ConfigValue{Key: args[0], Value: v}).Write(cmd.OutOrStdout())
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set KEY VALUE",
			Short: "Change one value and save the config file",
			Args:  exactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig(opts)
				if err != nil {
					return err
				}
				if err := cfg.Set(args[0], args[1]); err != nil {
					return &usageError{err: err}
				}
				if err := cfg.Validate(); err != nil {
					return err
				}
				if opts.configPath != "" {
					err = config.SaveTOML(cfg, opts.configPath)
				} else {
					err = config.Save(cfg)
				}
				if err != nil {
					return err
				}
				v, _ := cfg.Get(args[0])
				if opts.jsonMode {
					return NewJSONResponse("config set", ConfigValue{Key: args[0], Value: v}).Write(cmd.OutOrStdout())
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %v\n", SuccessStyle.Render("ok"), args[0], v)
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file location",
			Args:  noArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path := opts.configPath
				if path == "" {
					var err error
					if path, err = config.Path(); err != nil {
						return err
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
	)
	return cmd
}
