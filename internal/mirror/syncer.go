// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mirror

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/jeranaias/composer/internal/files"
	"github.com/jeranaias/composer/internal/logging"
	"github.com/jeranaias/composer/internal/util"
)

// ErrUnsafePath is returned for table paths that would escape the mirror dir.
var ErrUnsafePath = errors.New("path escapes mirror directory")

// DiskSyncer mirrors a files.Store into a directory. It implements
// files.Syncer.
type DiskSyncer struct {
	dir   string
	store *files.Store
	log   *zap.Logger

	mu      sync.Mutex
	written map[string]string // table path -> content last written
}

// NewDiskSyncer creates a syncer writing store into dir.
func NewDiskSyncer(dir string, store *files.Store, logger *zap.Logger) *DiskSyncer {
	return &DiskSyncer{
		dir:     dir,
		store:   store,
		log:     logging.OrNop(logger).Named("mirror"),
		written: make(map[string]string),
	}
}

// Dir returns the mirror directory.
func (d *DiskSyncer) Dir() string { return d.dir }

// Sync writes every entry whose content changed and removes files that left
// the table since the previous sync.
func (d *DiskSyncer) Sync(ctx context.Context, closeFlag bool) error {
	snap := d.store.Snapshot()

	d.mu.Lock()
	defer d.mu.Unlock()

	var errs []error
	seen := make(map[string]bool, len(snap.Entries))
	for _, e := range snap.Entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		seen[e.Path] = true
		if prev, ok := d.written[e.Path]; ok && prev == e.Content {
			continue
		}
		target, err := d.resolve(e.Path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.Path, err))
			continue
		}
		if err := util.AtomicWriteFile(target, []byte(e.Content), 0644); err != nil {
			errs = append(errs, fmt.Errorf("failed to mirror %s: %w", e.Path, err))
			continue
		}
		d.written[e.Path] = e.Content
	}

	for path := range d.written {
		if seen[path] {
			continue
		}
		delete(d.written, path)
		target, err := d.resolve(path)
		if err != nil {
			continue
		}
		if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("failed to remove %s: %w", path, err))
			continue
		}
		d.pruneDirs(filepath.Dir(target))
	}

	if err := errors.Join(errs...); err != nil {
		d.log.Warn("Mirror sync incomplete", zap.Error(err))
		return err
	}
	d.log.Debug("Mirror synced", zap.Int("files", len(snap.Entries)), zap.Bool("close", closeFlag))
	return nil
}

// Wrote reports whether content is what the syncer last wrote for path.
func (d *DiskSyncer) Wrote(path, content string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	prev, ok := d.written[path]
	return ok && prev == content
}

func (d *DiskSyncer) resolve(path string) (string, error) {
	local := filepath.FromSlash(path)
	if !filepath.IsLocal(local) {
		return "", ErrUnsafePath
	}
	return filepath.Join(d.dir, local), nil
}

// pruneDirs removes now-empty directories up to, not including, the root.
func (d *DiskSyncer) pruneDirs(dir string) {
	root := filepath.Clean(d.dir)
	for dir != root && len(dir) > len(root) {
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}
