// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package files

import (
	"context"
	"errors"
)

// Syncer is invoked after every table mutation.
// closeFlag is forwarded from AddFile/UpdateContent and is false otherwise.
type Syncer interface {
	Sync(ctx context.Context, closeFlag bool) error
}

// SyncFunc adapts a function to the Syncer interface.
type SyncFunc func(ctx context.Context, closeFlag bool) error

// Sync calls f.
func (f SyncFunc) Sync(ctx context.Context, closeFlag bool) error {
	return f(ctx, closeFlag)
}

// nopSyncer is used when no syncer is configured.
type nopSyncer struct{}

func (nopSyncer) Sync(context.Context, bool) error { return nil }

// MultiSyncer runs several syncers in order. Every syncer runs even when an
// earlier one fails; the failures are joined.
type MultiSyncer []Syncer

// Sync runs each syncer.
func (m MultiSyncer) Sync(ctx context.Context, closeFlag bool) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Sync(ctx, closeFlag); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
