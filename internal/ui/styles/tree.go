// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "strings"

// TreeChars for rendering the explorer tree (ASCII-safe)
var TreeChars = struct {
	Pipe   string
	Tee    string
	Corner string
	Dash   string
}{
	Pipe:   "|",
	Tee:    "+",
	Corner: "`",
	Dash:   "-",
}

// RenderTreeLine creates a tree line prefix.
// isLast: true if this is the last item among its siblings
func RenderTreeLine(isLast bool) string {
	if isLast {
		return TreeChars.Corner + TreeChars.Dash + " "
	}
	return TreeChars.Tee + TreeChars.Dash + " "
}

// RenderTreeIndent returns the prefix drawn under ancestors; lastAt[i]
// reports whether the ancestor at depth i was the last of its siblings.
func RenderTreeIndent(lastAt []bool) string {
	var b strings.Builder
	for _, last := range lastAt {
		if last {
			b.WriteString("   ")
		} else {
			b.WriteString(TreeChars.Pipe + "  ")
		}
	}
	return b.String()
}
