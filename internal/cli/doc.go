// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the composer command line.
//
// Without a subcommand composer starts the interactive composer on the
// terminal. The subcommands script the persisted file table and the config
// file without a terminal:
//
//	composer files ls [--tree]
//	composer files cat PATH
//	composer files add PATH [--content TEXT | --from FILE]
//	composer files write PATH [--content TEXT | --from FILE]
//	composer files rm PATH
//	composer files mv OLD NEW
//	composer files mkdir PATH
//	composer files export DIR
//	composer files import DIR
//	composer config show|get|set|path
//	composer version
//
// Every command accepts --json, which wraps its output in a JSONResponse.
// Errors map to exit codes through GetExitCode.
package cli
