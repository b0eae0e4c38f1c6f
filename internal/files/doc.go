// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package files provides the virtual file table behind the explorer and the
// composer's @ mentions.
//
// The table maps "/"-delimited paths to string contents and remembers
// insertion order. Folders are emulated: a folder exists while any path has
// it as a prefix, and deleting a folder deletes every path below it.
//
// Every mutation is followed by a call to the configured Syncer. Sync errors
// are returned to the caller unchanged; the table itself is already updated
// when the syncer runs.
//
// # Usage
//
//	store := files.NewStore(files.DefaultConfig())
//	store.SetSyncer(mirror)
//	if err := store.AddFile(ctx, "src/main.go", "package main", false); err != nil {
//		// the file is in the table, mirroring failed
//	}
package files
