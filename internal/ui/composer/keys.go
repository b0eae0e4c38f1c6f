// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/composer/internal/mention"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the keyboard bindings of the composer.
type KeyMap struct {
	Submit         key.Binding
	Newline        key.Binding
	Up             key.Binding
	Down           key.Binding
	CloseMenu      key.Binding
	Backspace      key.Binding
	Delete         key.Binding
	ToggleMode     key.Binding
	FixError       key.Binding
	DismissError   key.Binding
	RemoveImage    key.Binding
	ToggleExplorer key.Binding
	Quit           key.Binding
}

// DefaultKeyMap returns the default key bindings.
// Terminals cannot report Shift+Enter, so Alt+Enter stands in for it.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send / pick"),
		),
		Newline: key.NewBinding(
			key.WithKeys("alt+enter"),
			key.WithHelp("alt+enter", "keep typing"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("up", "previous file"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("down", "next file"),
		),
		CloseMenu: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close menu"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace"),
		),
		Delete: key.NewBinding(
			key.WithKeys("delete"),
		),
		ToggleMode: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("C-b", "mode"),
		),
		FixError: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("C-f", "fix error"),
		),
		DismissError: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("C-x", "dismiss error"),
		),
		RemoveImage: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "remove image"),
		),
		ToggleExplorer: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("C-e", "files"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("C-c", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.ToggleMode, k.ToggleExplorer, k.Quit}
}

// FullHelp returns every documented binding, grouped.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Newline, k.Up, k.Down, k.CloseMenu},
		{k.ToggleMode, k.FixError, k.DismissError, k.RemoveImage},
		{k.ToggleExplorer, k.Quit},
	}
}

// editorKey translates a key press into the event the mention editor sees.
func (k KeyMap) editorKey(msg tea.KeyMsg, caret int) mention.KeyEvent {
	ev := mention.KeyEvent{Key: mention.KeyOther, Caret: caret}
	switch {
	case key.Matches(msg, k.Submit):
		ev.Key = mention.KeyEnter
	case key.Matches(msg, k.Newline):
		ev.Key = mention.KeyEnter
		ev.Shift = true
	case key.Matches(msg, k.Up):
		ev.Key = mention.KeyUp
	case key.Matches(msg, k.Down):
		ev.Key = mention.KeyDown
	case key.Matches(msg, k.CloseMenu):
		ev.Key = mention.KeyEscape
	case key.Matches(msg, k.Backspace):
		ev.Key = mention.KeyBackspace
	case key.Matches(msg, k.Delete):
		ev.Key = mention.KeyDelete
	}
	return ev
}
