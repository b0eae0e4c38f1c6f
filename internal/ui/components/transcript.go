// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/composer/internal/ui/styles"
)

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Transcript keeps the submitted messages and renders them as markdown.
type Transcript struct {
	entries  []string
	renderer *glamour.TermRenderer
	width    int
	theme    *styles.Theme
}

// NewTranscript creates an empty transcript.
func NewTranscript(theme *styles.Theme) *Transcript {
	return &Transcript{theme: theme}
}

// SetWidth sets the wrap width; the markdown renderer is rebuilt lazily.
func (t *Transcript) SetWidth(width int) {
	if width != t.width {
		t.width = width
		t.renderer = nil
	}
}

// Append adds a submitted message.
func (t *Transcript) Append(markdown string) {
	t.entries = append(t.entries, markdown)
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	return len(t.entries)
}

// Last returns the most recent entry.
func (t *Transcript) Last() string {
	if len(t.entries) == 0 {
		return ""
	}
	return t.entries[len(t.entries)-1]
}

func (t *Transcript) render(md string) string {
	if t.renderer == nil {
		wrap := t.width - 4
		if wrap < 20 {
			wrap = 80
		}
		style := "light"
		if t.theme.IsDark {
			style = "dark"
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wrap),
		)
		if err != nil {
			return md
		}
		t.renderer = r
	}
	out, err := t.renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

// View renders the last height lines of the transcript.
func (t *Transcript) View(height int) string {
	if len(t.entries) == 0 {
		return ""
	}
	var parts []string
	for _, e := range t.entries {
		parts = append(parts, t.theme.UserLabel.Render("you")+"\n"+t.render(e))
	}
	lines := strings.Split(strings.Join(parts, "\n\n"), "\n")
	if height > 0 && len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	return t.theme.Transcript.Render(strings.Join(lines, "\n"))
}
