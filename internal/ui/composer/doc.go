// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package composer provides the message composer view of the TUI.
//
// The composer drives a mention.Editor from bubbletea key messages. Every
// key first goes to the editor, which may consume it (menu navigation,
// mention commit, whole-mention delete) or ask for a submit; remaining keys
// are applied by a textinput and reported back to the editor, which rejects
// edits that would cut into a mention.
//
// Around the input line the composer shows the suggestion popup at the
// caret column, the project error list, pasted images, toasts and an
// optional file tree. Messages leave through Deps.OnSubmit.
package composer
