// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the rendering pieces of the composer.

# Components

MentionPopup (mention_popup.go) - Suggestion list for @mentions with the
matched part of each path emphasized and an optional preview of the
selected file, highlighted with Chroma.

Transcript (transcript.go) - Sent messages rendered as markdown with Glamour.

ToastManager (toast.go) - Short-lived notifications that expire on a tick.

Spinner (spinner.go) - Upload activity indicator for the status bar.

# Render Functions

RenderExplorer draws the file table as a tree. RenderErrors and RenderImages
draw the error list of the file table and the images attached to the next
message.

All components take a *styles.Theme:

	theme := styles.NewTheme("auto")
	popup := components.NewMentionPopup(theme)
	popup.SetWidth(40)
	view := popup.View(candidates, selected, query)
*/
package components
