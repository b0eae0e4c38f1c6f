// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import "strings"

// =============================================================================
// EXPANSION
// =============================================================================

// Lookup resolves a mentioned path to its content.
type Lookup func(path string) (string, bool)

// Paths returns the distinct mentioned paths ordered by position in the buffer.
func Paths(spans []Span) []string {
	seen := make(map[string]bool, len(spans))
	var out []string
	for _, s := range Sorted(spans) {
		if seen[s.Path] {
			continue
		}
		seen[s.Path] = true
		out = append(out, s.Path)
	}
	return out
}

// Expand prepends the content of every mentioned file to message, wrapped in a
// <context> block. Paths the lookup cannot resolve are skipped. Without any
// resolvable mention the message is returned unchanged.
func Expand(message string, spans []Span, lookup Lookup) string {
	if lookup == nil {
		return message
	}

	var sb strings.Builder
	found := false
	for _, p := range Paths(spans) {
		content, ok := lookup(p)
		if !ok {
			continue
		}
		if !found {
			sb.WriteString("<context>\n")
			found = true
		}
		sb.WriteString("\n<file path=\"")
		sb.WriteString(p)
		sb.WriteString("\">\n")
		sb.WriteString(content)
		sb.WriteString("\n</file>\n")
	}
	if !found {
		return message
	}
	sb.WriteString("\n</context>\n\n")
	sb.WriteString(message)
	return sb.String()
}
