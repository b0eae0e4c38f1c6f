// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import "testing"

func TestScrollStart(t *testing.T) {
	tests := []struct {
		name   string
		buffer string
		caret  int
		avail  int
		want   int
	}{
		{"fits", "hello", 5, 10, 0},
		{"caret cell needs room", "hello", 5, 5, 1},
		{"scrolls to caret", "abcdefghij", 10, 4, 7},
		{"caret early", "abcdefghij", 2, 4, 0},
		{"wide runes", "日本語テキスト", 4, 5, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scrollStart([]rune(tt.buffer), tt.caret, tt.avail); got != tt.want {
				t.Errorf("scrollStart(%q, %d, %d) = %d, want %d", tt.buffer, tt.caret, tt.avail, got, tt.want)
			}
		})
	}
}

func TestMenuLeft(t *testing.T) {
	tests := []struct {
		name      string
		buffer    string
		caret     int
		width     int
		menuWidth int
		want      int
	}{
		{"at start", "@", 1, 80, 40, 4},
		{"after text", "see @Re", 7, 80, 40, 10},
		{"wide text before caret", "日本 @", 4, 80, 40, 9},
		{"clamped to fit", "a long line of text before @", 28, 50, 40, 9},
		{"never negative", "@", 1, 20, 40, 0},
		{"caret past end", "@x", 9, 80, 40, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := menuLeft("> ", []rune(tt.buffer), tt.caret, tt.width, tt.menuWidth)
			if got != tt.want {
				t.Errorf("menuLeft(%q, %d) = %d, want %d", tt.buffer, tt.caret, got, tt.want)
			}
		})
	}
}

func TestInputAvail(t *testing.T) {
	if got := inputAvail("> ", 80); got != 76 {
		t.Errorf("inputAvail = %d, want 76", got)
	}
	if got := inputAvail("> ", 2); got != 1 {
		t.Errorf("inputAvail on a tiny terminal = %d, want 1", got)
	}
}
