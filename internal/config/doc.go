// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for composer.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - UIConfig: Popup geometry, theme, language and chat mode
//   - FilesConfig: Initial files, folder placeholder, mirror and snapshot paths
//   - UploadConfig: Image paste endpoint and limits
//   - LogConfig: Log file and level
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (COMPOSER_*)
//   - ~/.composer/config.toml (or $COMPOSER_HOME/config.toml)
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	width := cfg.UI.MenuWidth
package config
