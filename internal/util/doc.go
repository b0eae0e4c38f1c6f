// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the composer packages.
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe string truncation with ellipsis
//   - TruncateWidth: display-width truncation for popup cells
//   - SafeSubstring: rune-indexed slicing for mention ranges
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
package util
