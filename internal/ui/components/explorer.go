// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/composer/internal/files"
	"github.com/jeranaias/composer/internal/ui/styles"
	"github.com/jeranaias/composer/internal/util"
)

// =============================================================================
// EXPLORER PANEL
// =============================================================================

// RenderExplorer draws the file tree as an ASCII outline, at most height
// rows of width cells. Folders end in "/".
func RenderExplorer(theme *styles.Theme, root *files.Node, width, height int) string {
	if root == nil || width <= 0 {
		return ""
	}
	var lines []string
	var walk func(n *files.Node, lastAt []bool)
	walk = func(n *files.Node, lastAt []bool) {
		for i, c := range n.Children {
			last := i == len(n.Children)-1
			prefix := styles.RenderTreeIndent(lastAt) + styles.RenderTreeLine(last)
			name := c.Name
			style := theme.TreeFile
			if c.IsDir {
				name += "/"
				style = theme.TreeDir
			}
			avail := width - util.StringWidth(prefix)
			lines = append(lines, prefix+style.Render(util.TruncateWidth(name, avail)))
			if c.IsDir {
				walk(c, append(lastAt, last))
			}
		}
	}
	walk(root, nil)

	if height > 0 && len(lines) > height {
		lines = append(lines[:height-1], theme.ShortcutDesc.Render("..."))
	}
	return theme.TreePanel.Width(width).Render(strings.Join(lines, "\n"))
}
