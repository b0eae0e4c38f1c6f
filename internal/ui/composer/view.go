// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/composer/internal/mention"
	"github.com/jeranaias/composer/internal/ui/components"
	"github.com/jeranaias/composer/internal/ui/styles"
	"github.com/jeranaias/composer/internal/util"
)

// explorerWidth is the width of the file tree panel.
const explorerWidth = 28

// View renders the composer.
func (m Model) View() string {
	// Bottom section first; the transcript takes what is left.
	var bottom []string
	if s := components.RenderToastStack(m.theme, m.toasts.Toasts(), m.width); s != "" {
		bottom = append(bottom, s)
	}
	if s := components.RenderErrors(m.theme, m.store.Errors(), m.width); s != "" {
		bottom = append(bottom, s)
	}
	if s := components.RenderImages(m.theme, m.images, m.width); s != "" {
		bottom = append(bottom, s)
	}
	if s := m.renderPopup(); s != "" {
		bottom = append(bottom, s)
	}
	bottom = append(bottom, m.renderInput(), m.renderStatusBar())
	tail := lipgloss.JoinVertical(lipgloss.Left, bottom...)

	bodyHeight := m.height - lipgloss.Height(tail)
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	body := m.transcript.View(bodyHeight)
	if m.showExplorer && m.theme.GetLayoutMode() != styles.LayoutNarrow {
		tree := components.RenderExplorer(m.theme, m.store.Tree(), explorerWidth, bodyHeight)
		body = lipgloss.JoinHorizontal(lipgloss.Top, tree, " ", body)
	}
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	return body + "\n" + tail
}

// renderPopup renders the suggestion list indented to the caret column.
func (m Model) renderPopup() string {
	if !m.editor.MenuOpen() {
		return ""
	}
	query := ""
	if trig, ok := mention.DetectTrigger([]rune(m.editor.Buffer()), m.editor.Caret()); ok {
		query = trig.Query
	}
	popup := m.popup.View(m.editor.Candidates(), m.editor.Cursor(), query)
	if popup == "" {
		return ""
	}
	return lipgloss.NewStyle().MarginLeft(m.menuLeft).Render(popup)
}

// =============================================================================
// INPUT LINE
// =============================================================================

// cell classes of the input line
type cellClass int

const (
	cellText cellClass = iota
	cellSpan
	cellHighlight
)

// renderInput draws the buffer with mention spans, the highlight and the
// caret, scrolled so the caret stays visible.
func (m Model) renderInput() string {
	prompt := m.theme.InputPrompt.Render(m.input.Prompt)
	container := m.theme.InputContainer.Width(m.width)

	buffer := []rune(m.editor.Buffer())
	if len(buffer) == 0 {
		placeholder := util.TruncateWidth(m.input.Placeholder, inputAvail(m.input.Prompt, m.width)-1)
		return container.Render(prompt + m.theme.InputText.Reverse(true).Render(" ") +
			m.theme.InputPlaceholder.Render(placeholder))
	}

	caret := m.editor.Caret()
	avail := inputAvail(m.input.Prompt, m.width)
	start := scrollStart(buffer, caret, avail)

	classes := make([]cellClass, len(buffer))
	for _, s := range m.editor.Spans() {
		for i := max(s.Start, 0); i < s.End && i < len(buffer); i++ {
			classes[i] = cellSpan
		}
	}
	if h, ok := m.editor.Highlight(); ok {
		for i := max(h.Start, 0); i < h.End && i < len(buffer); i++ {
			classes[i] = cellHighlight
		}
	}

	var sb strings.Builder
	sb.WriteString(prompt)
	used := 0
	runStart := start
	flush := func(end int) {
		if end > runStart {
			sb.WriteString(m.cellStyle(classes[runStart]).Render(string(buffer[runStart:end])))
		}
		runStart = end
	}
	for i := start; i < len(buffer); i++ {
		w := util.StringWidth(string(buffer[i]))
		if used+w > avail {
			flush(i)
			return container.Render(sb.String())
		}
		used += w
		if i == caret {
			flush(i)
			sb.WriteString(m.cellStyle(classes[i]).Reverse(true).Render(string(buffer[i])))
			runStart = i + 1
			continue
		}
		if classes[i] != classes[runStart] {
			flush(i)
		}
	}
	flush(len(buffer))
	if caret >= len(buffer) {
		sb.WriteString(m.theme.InputText.Reverse(true).Render(" "))
	}
	return container.Render(sb.String())
}

func (m Model) cellStyle(c cellClass) lipgloss.Style {
	switch c {
	case cellSpan:
		return m.theme.MentionSpan
	case cellHighlight:
		return m.theme.MentionHighlight
	default:
		return m.theme.InputText
	}
}

// =============================================================================
// STATUS BAR
// =============================================================================

func (m Model) renderStatusBar() string {
	mode := m.theme.ModeChat.Render(m.mode.String())
	if m.mode == ModeBuilder {
		mode = m.theme.ModeBuilder.Render(m.mode.String())
	}

	parts := []string{mode, strconv.Itoa(m.store.Len()) + " files"}
	if m.spinner.IsActive() {
		parts = append(parts, m.spinner.View())
	}
	left := strings.Join(parts, "  ")

	m.help.Width = m.width - lipgloss.Width(left) - 4
	right := m.help.ShortHelpView(m.keys.ShortHelp())

	gap := m.width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return m.theme.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}
