// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mirror keeps a directory on disk in step with the file table.
//
// DiskSyncer writes the table into the directory after every mutation.
// Watcher goes the other way: edits made to the directory by other tools
// are loaded back into the table.
package mirror
