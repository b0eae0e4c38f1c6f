// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mention provides the @ mention editing state machine for the composer.
//
// The Editor tracks the input buffer, the committed mention spans inside it,
// the transient highlight of the most recent commit, and the suggestion menu.
// Spans are half-open rune ranges bound to a file path and are kept
// consistent as the buffer is edited.
//
// # Key Types
//
//   - Span: committed mention range and its path
//   - Range: transient highlight range
//   - Trigger: the active "@query" in front of the caret
//   - Editor: state container with pure update methods and subscriptions
//
// # Editing Rules
//
//   - Deleting or inserting strictly inside a span is rejected
//   - Backspace/Delete with the caret on a span's end removes the whole mention
//   - Edits before a span shift it by the length delta
//   - Replacing the buffer wholesale drops every span
//
// # Usage
//
//	ed := mention.NewEditor(store.Paths)
//	outcome := ed.KeyDown(mention.KeyEvent{Key: mention.KeyBackspace, Caret: pos})
//	if !ed.Change(old, next, caret) {
//		// restore old buffer
//	}
//	msg := mention.Expand(ed.Buffer(), ed.Spans(), store.Lookup)
package mention
