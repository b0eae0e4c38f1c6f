// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the composer.
//
// # Colors
//
// All colors are lipgloss.AdaptiveColor values with a light and a dark
// variant. NewTheme("dark"|"light") pins the variant; "auto" asks the
// terminal.
//
// # Accessibility
//
// Status messages always carry an ASCII shape ([OK], [X], [!], [i]) so
// they read without color.
//
// # Layout
//
// Theme.GetLayoutMode buckets the terminal width; the explorer panel is
// only drawn in LayoutWide.
package styles
