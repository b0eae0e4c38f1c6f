// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/composer/internal/files"
	"github.com/jeranaias/composer/internal/i18n"
	"github.com/jeranaias/composer/internal/mention"
	"github.com/jeranaias/composer/internal/ui/components"
	"github.com/jeranaias/composer/internal/upload"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case resizeSettledMsg:
		if msg.seq == m.resizeID {
			m.positionMenu()
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Paste {
			return m.handlePaste(msg)
		}
		return m.handleKey(msg)

	case storeChangedMsg:
		if msg.change.Op != files.OpErrors && m.editor.MenuOpen() {
			m.editor.Refresh()
			m.positionMenu()
		}
		return m, m.waitForChange()

	case SyncErrorMsg:
		return m.handleSyncError(msg)

	case pasteResultMsg:
		return m.handlePasteResult(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case components.ToastTickMsg:
		if m.toasts.Tick() {
			return m, components.ToastTickCmd()
		}
		m.ticking = false
		return m, nil
	}
	return m, nil
}

// =============================================================================
// RESIZE
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(m.width, m.height)
	m.transcript.SetWidth(m.width)
	m.input.Width = inputAvail(m.input.Prompt, m.width) - 1

	menuWidth := m.ui.MenuWidth
	if menuWidth > m.width-2 {
		menuWidth = m.width - 2
	}
	m.popup.SetWidth(menuWidth)

	// Repositioning waits until the terminal stops resizing.
	m.resizeID++
	id := m.resizeID
	return m, tea.Tick(m.ui.ResizeDebounce(), func(time.Time) tea.Msg {
		return resizeSettledMsg{seq: id}
	})
}

// positionMenu places the popup at the caret column.
func (m *Model) positionMenu() {
	if !m.editor.MenuOpen() {
		return
	}
	m.menuLeft = menuLeft(m.input.Prompt, []rune(m.editor.Buffer()), m.editor.Caret(),
		m.width, m.popup.Width())
}

// =============================================================================
// KEYS
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.ToggleMode):
		if m.mode == ModeChat {
			m.mode = ModeBuilder
		} else {
			m.mode = ModeChat
		}
		m.applyMode()
		return m, nil

	case key.Matches(msg, m.keys.ToggleExplorer):
		m.showExplorer = !m.showExplorer
		return m, nil

	case key.Matches(msg, m.keys.FixError):
		return m.fixError()

	case key.Matches(msg, m.keys.DismissError):
		if len(m.store.Errors()) > 0 {
			m.store.RemoveError(0)
		}
		return m, nil

	case key.Matches(msg, m.keys.RemoveImage):
		if n := len(m.images); n > 0 {
			m.images = m.images[:n-1]
		}
		return m, nil
	}

	ev := m.keys.editorKey(msg, m.input.Position())
	switch m.editor.KeyDown(ev) {
	case mention.Submit:
		return m.submitBuffer()
	case mention.Consumed:
		m.syncInput()
		return m, nil
	}

	// The input is single-line; a shifted Enter that falls through is dropped.
	if ev.Key == mention.KeyEnter {
		return m, nil
	}
	return m.applyInput(msg)
}

// applyInput lets the text input apply msg and reports the edit to the
// editor, reverting edits the editor rejects.
func (m Model) applyInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	prev, prevPos := m.input.Value(), m.input.Position()

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	next := m.input.Value()
	switch {
	case next == prev:
		m.editor.MoveCaret(m.input.Position())
	case !m.editor.Change(next, m.input.Position()):
		m.input.SetValue(prev)
		m.input.SetCursor(prevPos)
		return m, cmd
	}
	m.positionMenu()
	return m, cmd
}

// syncInput copies the editor's buffer and caret into the text input.
func (m *Model) syncInput() {
	m.input.SetValue(m.editor.Buffer())
	m.input.SetCursor(m.editor.Caret())
	m.positionMenu()
}

// =============================================================================
// SUBMIT
// =============================================================================

// submitBuffer sends the buffer with its mentions and clears it.
func (m Model) submitBuffer() (tea.Model, tea.Cmd) {
	text := m.editor.Buffer()
	if strings.TrimSpace(text) == "" && len(m.images) == 0 {
		return m, nil
	}
	m.send(text, m.editor.Spans())
	m.editor.SetBuffer("")
	m.syncInput()
	return m, nil
}

// fixError asks for a fix of the first listed error and removes it.
func (m Model) fixError() (tea.Model, tea.Cmd) {
	errs := m.store.Errors()
	if len(errs) == 0 {
		return m, nil
	}
	m.send(m.tr.T(i18n.KeyFixError)+"\n"+errs[0].Code, nil)
	m.store.RemoveError(0)
	return m, nil
}

// send hands a message to the submit callback and records it in the
// transcript. Attached images go with it and the send flags are reset.
func (m *Model) send(text string, spans []mention.Span) {
	snap := m.store.Snapshot()
	sub := Submission{
		Text:     text,
		Expanded: mention.Expand(text, spans, m.store.Lookup),
		Mentions: mention.Paths(spans),
		Images:   m.images,
		Mode:     m.mode,
	}
	for _, e := range snap.Entries {
		if snap.FirstSend[e.Path] {
			sub.Added = append(sub.Added, e.Path)
		}
		if snap.UpdateSend[e.Path] {
			sub.Updated = append(sub.Updated, e.Path)
		}
	}
	m.store.ResetFirstSend()
	m.store.ResetUpdateSend()

	m.log.Info("Message submitted",
		zap.String("mode", m.mode.String()),
		zap.Strings("mentions", sub.Mentions),
		zap.Int("images", len(sub.Images)))

	m.transcript.Append(transcriptEntry(sub))
	m.images = nil

	if m.onSubmit != nil {
		m.onSubmit(sub)
	}
}

// transcriptEntry renders a submission as markdown.
func transcriptEntry(sub Submission) string {
	var sb strings.Builder
	sb.WriteString(sub.Text)
	for _, p := range sub.Mentions {
		sb.WriteString("\n- `" + p + "`")
	}
	for _, img := range sub.Images {
		sb.WriteString("\n\n![" + filepath.Base(img.Path) + "](" + img.URL + ")")
	}
	return sb.String()
}

// =============================================================================
// PASTE
// =============================================================================

// handlePaste uploads pasted image paths; anything else is inserted as text.
func (m Model) handlePaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	paths, ok := upload.ImagePaths(string(msg.Runes))
	if !ok || m.paster == nil {
		return m.applyInput(msg)
	}

	if !m.paster.UseImage() || m.paster.Uploading() {
		notice := i18n.KeyImagesDisabled
		if m.paster.UseImage() {
			notice = i18n.KeyUploadBusy
		}
		cmd := m.toast(components.ToastKindStatus, m.tr.T(notice))
		next, inputCmd := m.applyInput(msg)
		return next, tea.Batch(cmd, inputCmd)
	}

	paster, ctx := m.paster, m.ctx
	run := func() tea.Msg {
		res, err := paster.Paste(ctx, paths)
		return pasteResultMsg{result: res, err: err}
	}
	return m, tea.Batch(run, m.spinner.Start())
}

func (m Model) handlePasteResult(msg pasteResultMsg) (tea.Model, tea.Cmd) {
	if !m.paster.Uploading() {
		m.spinner.Stop()
	}
	switch {
	case errors.Is(msg.err, upload.ErrBusy):
		return m, m.toast(components.ToastKindStatus, m.tr.T(i18n.KeyUploadBusy))
	case errors.Is(msg.err, upload.ErrImagesDisabled):
		return m, m.toast(components.ToastKindStatus, m.tr.T(i18n.KeyImagesDisabled))
	case msg.err != nil:
		m.log.Warn("Paste rejected", zap.Error(msg.err))
		return m, nil
	case msg.result.Err != nil:
		return m, m.toast(components.ToastKindError, msg.result.Message)
	}
	m.images = append(m.images, msg.result.Images...)
	return m, m.toast(components.ToastKindSuccess, msg.result.Message)
}

// =============================================================================
// SYNC ERRORS
// =============================================================================

func (m Model) handleSyncError(msg SyncErrorMsg) (tea.Model, tea.Cmd) {
	if msg.Err == nil {
		return m, nil
	}
	m.log.Warn("File sync failed", zap.Error(msg.Err))
	m.store.AddError(files.ErrorMessage{
		Message:  m.tr.T(i18n.KeySyncFailed),
		Code:     msg.Err.Error(),
		Severity: files.SeverityWarning,
	})
	return m, m.toast(components.ToastKindError, m.tr.T(i18n.KeySyncFailed))
}

// toast shows a notification and starts the expiry ticker if needed.
func (m *Model) toast(kind components.ToastKind, text string) tea.Cmd {
	m.toasts.Add(kind, text)
	if m.ticking {
		return nil
	}
	m.ticking = true
	return components.ToastTickCmd()
}
