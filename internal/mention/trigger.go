// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"path"
	"strings"
)

// Trigger is the "@query" immediately before the caret.
type Trigger struct {
	// At is the rune offset of the '@'
	At int

	// Query is the text between '@' and the caret
	Query string
}

// DetectTrigger finds the rightmost '@' at or before caret with no space
// between it and the caret. Earlier '@' characters are plain text.
func DetectTrigger(buffer []rune, caret int) (Trigger, bool) {
	if caret > len(buffer) {
		caret = len(buffer)
	}
	for i := caret - 1; i >= 0; i-- {
		switch buffer[i] {
		case '@':
			return Trigger{At: i, Query: string(buffer[i+1 : caret])}, true
		case ' ':
			return Trigger{}, false
		}
	}
	return Trigger{}, false
}

// Filter returns the paths matching query, preserving input order.
// A path matches when its full path or basename contains query, ignoring case.
func Filter(query string, paths []string) []string {
	q := strings.ToLower(query)
	var out []string
	for _, p := range paths {
		full := strings.ToLower(p)
		if strings.Contains(full, q) || strings.Contains(path.Base(full), q) {
			out = append(out, p)
		}
	}
	return out
}
