// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists the virtual file table in SQLite.
//
// SQLiteSyncer implements files.Syncer: every sync writes the whole table
// and its send flags in one transaction, so the database always holds a
// complete snapshot. Load restores that snapshot into a store at startup.
//
// # Usage
//
//	db, err := storage.Open(path, logger)
//	if err := db.Load(ctx, store); err != nil && !errors.Is(err, storage.ErrNotFound) {
//	    return err
//	}
//	store.SetSyncer(db)
//
// # Storage Location
//
// The database lives at ~/.composer/files.db unless files.database_path is set.
package storage
