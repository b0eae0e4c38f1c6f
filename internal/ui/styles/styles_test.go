// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// THEME CREATION TESTS
// =============================================================================

func TestNewTheme_Forced(t *testing.T) {
	if theme := NewTheme("dark"); !theme.IsDark {
		t.Error("NewTheme(dark) should be dark")
	}
	if theme := NewTheme("light"); theme.IsDark {
		t.Error("NewTheme(light) should be light")
	}
}

func TestThemeInitStyles(t *testing.T) {
	theme := NewTheme("dark")

	styles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"InputContainer", theme.InputContainer},
		{"MentionSpan", theme.MentionSpan},
		{"Popup", theme.Popup},
		{"PopupSelected", theme.PopupSelected},
		{"ErrorItem", theme.ErrorItem},
		{"TreePanel", theme.TreePanel},
		{"StatusBar", theme.StatusBar},
	}

	for _, s := range styles {
		if !strings.Contains(s.style.Render("test"), "test") {
			t.Errorf("%s style should render its content", s.name)
		}
	}
}

func TestLayoutMode(t *testing.T) {
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
	}

	theme := NewTheme("dark")
	for _, tt := range tests {
		theme.SetSize(tt.width, 30)
		if got := theme.GetLayoutMode(); got != tt.want {
			t.Errorf("GetLayoutMode(width=%d) = %v, want %v", tt.width, got, tt.want)
		}
	}
}

// =============================================================================
// STATUS RENDERING TESTS
// =============================================================================

func TestRenderStatusIndicators(t *testing.T) {
	tests := []struct {
		name   string
		render func(string) string
		marker string
	}{
		{"success", RenderSuccess, "[OK]"},
		{"error", RenderError, "[X]"},
		{"warning", RenderWarning, "[!]"},
		{"info", RenderInfo, "[i]"},
	}

	for _, tt := range tests {
		out := tt.render("saved")
		if !strings.Contains(out, tt.marker) || !strings.Contains(out, "saved") {
			t.Errorf("%s: %q should contain %q and the message", tt.name, out, tt.marker)
		}
	}
}

// =============================================================================
// TREE TESTS
// =============================================================================

func TestRenderTreeLine(t *testing.T) {
	if got := RenderTreeLine(false); got != "+- " {
		t.Errorf("RenderTreeLine(false) = %q", got)
	}
	if got := RenderTreeLine(true); got != "`- " {
		t.Errorf("RenderTreeLine(true) = %q", got)
	}
}

func TestRenderTreeIndent(t *testing.T) {
	if got := RenderTreeIndent([]bool{false, true}); got != "|     " {
		t.Errorf("RenderTreeIndent = %q", got)
	}
	if got := RenderTreeIndent(nil); got != "" {
		t.Errorf("RenderTreeIndent(nil) = %q", got)
	}
}
