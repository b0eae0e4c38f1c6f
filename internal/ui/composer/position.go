// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import "github.com/mattn/go-runewidth"

// containerPadding is the horizontal padding of the input container.
const containerPadding = 1

// inputAvail returns the cells left for text on an input line of width
// columns after padding and prompt.
func inputAvail(prompt string, width int) int {
	avail := width - 2*containerPadding - runewidth.StringWidth(prompt)
	if avail < 1 {
		avail = 1
	}
	return avail
}

// scrollStart returns the first rune shown on an input line of avail cells
// so that the caret cell stays visible.
func scrollStart(buffer []rune, caret, avail int) int {
	if caret > len(buffer) {
		caret = len(buffer)
	}
	start := 0
	width := runewidth.StringWidth(string(buffer[:caret]))
	for start < caret && width+1 > avail {
		width -= runewidth.RuneWidth(buffer[start])
		start++
	}
	return start
}

// menuLeft returns the column of the popup's left edge: the caret column on
// screen, pulled left so a popup of menuWidth fits inside width.
func menuLeft(prompt string, buffer []rune, caret, width, menuWidth int) int {
	if caret > len(buffer) {
		caret = len(buffer)
	}
	start := scrollStart(buffer, caret, inputAvail(prompt, width))
	left := containerPadding + runewidth.StringWidth(prompt) +
		runewidth.StringWidth(string(buffer[start:caret]))

	if limit := width - menuWidth - 1; left > limit {
		left = limit
	}
	if left < 0 {
		left = 0
	}
	return left
}
