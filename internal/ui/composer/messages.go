// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import (
	"github.com/jeranaias/composer/internal/files"
	"github.com/jeranaias/composer/internal/upload"
)

// =============================================================================
// MESSAGES
// =============================================================================

// SyncErrorMsg reports a failed file table sync. Send it from the syncer
// installed on the store; the composer lists the error and shows a toast.
type SyncErrorMsg struct {
	Err error
}

// storeChangedMsg carries a file table change into the update loop.
type storeChangedMsg struct {
	change files.Change
}

// resizeSettledMsg fires once the terminal stopped resizing.
type resizeSettledMsg struct {
	seq int
}

// pasteResultMsg is the outcome of an image paste upload.
type pasteResultMsg struct {
	result upload.Result
	err    error
}
