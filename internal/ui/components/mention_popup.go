// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/jeranaias/composer/internal/ui/styles"
	"github.com/jeranaias/composer/internal/util"
)

// =============================================================================
// MENTION POPUP COMPONENT
// =============================================================================

// PreviewFunc returns the content of a candidate path for the preview pane.
type PreviewFunc func(path string) (string, bool)

// MentionPopup renders the @mention suggestion list. It holds no selection
// state of its own; the editor owns candidates and cursor.
type MentionPopup struct {
	maxVisible   int
	width        int
	previewLines int
	preview      PreviewFunc
	theme        *styles.Theme
}

// NewMentionPopup creates a new mention popup.
func NewMentionPopup(theme *styles.Theme) *MentionPopup {
	return &MentionPopup{
		maxVisible:   8,
		width:        40,
		previewLines: 6,
		theme:        theme,
	}
}

// SetWidth sets the popup width.
func (c *MentionPopup) SetWidth(width int) {
	c.width = width
}

// Width returns the popup width.
func (c *MentionPopup) Width() int {
	return c.width
}

// SetMaxVisible sets the maximum number of visible rows.
func (c *MentionPopup) SetMaxVisible(max int) {
	if max > 0 {
		c.maxVisible = max
	}
}

// SetPreview installs the preview source; lines <= 0 disables the preview.
func (c *MentionPopup) SetPreview(fn PreviewFunc, lines int) {
	c.preview = fn
	c.previewLines = lines
}

// visibleRange returns the scrolling window around selected.
func (c *MentionPopup) visibleRange(n, selected int) (int, int) {
	start, end := 0, n
	if n > c.maxVisible {
		// Center the selected item in the window
		start = selected - c.maxVisible/2
		if start < 0 {
			start = 0
		}
		end = start + c.maxVisible
		if end > n {
			end = n
			start = end - c.maxVisible
		}
	}
	return start, end
}

// View renders the popup for candidates with the row at selected
// highlighted. query is emphasised inside each row.
func (c *MentionPopup) View(candidates []string, selected int, query string) string {
	if len(candidates) == 0 {
		return ""
	}

	inner := c.width - 4 // border and padding
	if inner < 8 {
		inner = 8
	}

	start, end := c.visibleRange(len(candidates), selected)
	rows := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		rows = append(rows, c.renderItem(candidates[i], query, i == selected, inner))
	}
	if end < len(candidates) || start > 0 {
		rows = append(rows, c.theme.ShortcutDesc.Render(
			util.TruncateWidth(strings.Repeat(".", 3)+" "+strconv.Itoa(len(candidates))+" files", inner)))
	}
	content := strings.Join(rows, "\n")

	if c.preview != nil && c.previewLines > 0 && selected >= 0 && selected < len(candidates) {
		if p := c.renderPreview(candidates[selected], inner); p != "" {
			content += "\n" + c.theme.PopupPreview.Width(inner).Render(p)
		}
	}

	return c.theme.Popup.Width(c.width - 2).Render(content)
}

// renderItem renders a single row: indicator, path with the query match
// emphasised, truncated to width cells.
func (c *MentionPopup) renderItem(path, query string, isSelected bool, width int) string {
	indicator := "  "
	if isSelected {
		indicator = "> "
	}
	text := util.TruncateWidth(path, width-2)

	base := c.theme.PopupItem
	if isSelected {
		base = c.theme.PopupSelected
	}

	before, match, after := splitMatch(text, query)
	if match == "" {
		return base.Render(indicator + text)
	}
	return base.Render(indicator+before) + c.theme.PopupMatch.Inherit(base).Render(match) + base.Render(after)
}

// renderPreview shows the first lines of the selected file, highlighted by
// file name.
func (c *MentionPopup) renderPreview(path string, width int) string {
	content, ok := c.preview(path)
	if !ok || strings.TrimSpace(content) == "" {
		return ""
	}
	lines := strings.Split(content, "\n")
	if len(lines) > c.previewLines {
		lines = lines[:c.previewLines]
	}
	for i, l := range lines {
		lines[i] = util.TruncateWidth(strings.ReplaceAll(l, "\t", "  "), width)
	}
	return strings.TrimRight(HighlightFile(path, strings.Join(lines, "\n")), "\n")
}

// splitMatch splits s around the first case-insensitive occurrence of q.
func splitMatch(s, q string) (before, match, after string) {
	if q == "" {
		return s, "", ""
	}
	runes := []rune(s)
	lower := []rune(strings.ToLower(s))
	ql := []rune(strings.ToLower(q))
	if len(lower) != len(runes) {
		return s, "", ""
	}
	for i := 0; i+len(ql) <= len(lower); i++ {
		if string(lower[i:i+len(ql)]) == string(ql) {
			return string(runes[:i]), string(runes[i : i+len(ql)]), string(runes[i+len(ql):])
		}
	}
	return s, "", ""
}
