// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jeranaias/composer/internal/config"
	"github.com/jeranaias/composer/internal/files"
	"github.com/jeranaias/composer/internal/logging"
	"github.com/jeranaias/composer/internal/mirror"
	"github.com/jeranaias/composer/internal/storage"
)

// project is the file table with its persistence, opened from config.
type project struct {
	cfg    *config.Config
	log    *zap.Logger
	store  *files.Store
	db     *storage.SQLiteSyncer
	disk   *mirror.DiskSyncer // nil without a mirror dir
	syncer files.MultiSyncer
}

func loadConfig(opts *options) (*config.Config, error) {
	if opts.configPath != "" {
		return config.LoadFromPath(opts.configPath)
	}
	return config.Load()
}

// openProject loads config, opens the log and the snapshot database, and
// restores the file table. Without a stored snapshot the table starts from
// the configured initial files.
func openProject(ctx context.Context, opts *options) (*project, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logPath, err := cfg.LogPath()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(logPath, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}

	store := files.NewStore(files.Config{
		Placeholder: cfg.Files.Placeholder,
		Initial:     cfg.Files.Initial,
		Logger:      log,
	})

	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return nil, err
	}
	db, err := storage.Open(dbPath, log)
	if err != nil {
		return nil, err
	}
	if err := db.Load(ctx, store); err != nil && !errors.Is(err, storage.ErrNotFound) {
		db.Close()
		return nil, err
	}

	p := &project{cfg: cfg, log: log, store: store, db: db, syncer: files.MultiSyncer{db}}
	if cfg.Files.MirrorDir != "" {
		p.disk = mirror.NewDiskSyncer(cfg.Files.MirrorDir, store, log)
		p.syncer = append(p.syncer, p.disk)
	}
	store.SetSyncer(p.syncer)
	return p, nil
}

// Close closes the database and flushes the log.
func (p *project) Close() error {
	err := p.db.Close()
	_ = p.log.Sync()
	return err
}
