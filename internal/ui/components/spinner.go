// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/composer/internal/ui/styles"
)

// Spinner is the activity indicator shown in the status bar while images
// upload.
type Spinner struct {
	spinner   spinner.Model
	message   string
	startTime time.Time
	isActive  bool

	// now is replaced in tests
	now func() time.Time
}

// NewSpinner creates an inactive ASCII spinner labelled message.
func NewSpinner(message string) Spinner {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	return Spinner{spinner: s, message: message, now: time.Now}
}

// Start activates the spinner and returns its first tick.
func (s *Spinner) Start() tea.Cmd {
	if s.isActive {
		return nil
	}
	s.isActive = true
	s.startTime = s.now()
	return s.spinner.Tick
}

// Stop deactivates the spinner. Pending ticks are ignored.
func (s *Spinner) Stop() {
	s.isActive = false
}

// IsActive returns whether the spinner is running.
func (s Spinner) IsActive() bool {
	return s.isActive
}

// Update advances the animation on its own tick messages.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if !s.isActive {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the frame, the message and the elapsed time.
func (s Spinner) View() string {
	if !s.isActive {
		return ""
	}
	frame := lipgloss.NewStyle().Foreground(styles.Purple).Render(s.spinner.View())
	elapsed := lipgloss.NewStyle().Foreground(styles.TextMuted).
		Render(" (" + formatElapsed(s.now().Sub(s.startTime)) + ")")
	return frame + " " + s.message + elapsed
}

// formatElapsed formats a duration as "12s" or "3m 4s".
func formatElapsed(d time.Duration) string {
	seconds := int(d.Seconds())
	if seconds < 60 {
		return strconv.Itoa(seconds) + "s"
	}
	return strconv.Itoa(seconds/60) + "m " + strconv.Itoa(seconds%60) + "s"
}
