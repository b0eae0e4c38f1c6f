// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import "sort"

// =============================================================================
// SPAN
// =============================================================================

// Span is a committed mention: the rune range [Start, End) of the buffer
// holding "@path " and the path it refers to.
type Span struct {
	Start int
	End   int
	Path  string
}

// Len returns the number of runes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether pos lies strictly inside the span.
func (s Span) Contains(pos int) bool {
	return pos > s.Start && pos < s.End
}

// Range is a transient highlight range over the buffer.
type Range struct {
	Start int
	End   int
}

// Contains reports whether pos lies within the range, bounds included.
func (r Range) Contains(pos int) bool {
	return pos >= r.Start && pos <= r.End
}

// =============================================================================
// SPAN SET HELPERS
// =============================================================================

// shiftFrom moves every span whose start satisfies keep by delta.
func shiftFrom(spans []Span, delta int, keep func(Span) bool) []Span {
	out := make([]Span, len(spans))
	for i, s := range spans {
		if keep(s) {
			s.Start += delta
			s.End += delta
		}
		out[i] = s
	}
	return out
}

// spanEndingAt returns the index of the span whose End equals pos, or -1.
func spanEndingAt(spans []Span, pos int) int {
	for i, s := range spans {
		if s.End == pos {
			return i
		}
	}
	return -1
}

// spanContaining returns the index of the span strictly containing pos, or -1.
func spanContaining(spans []Span, pos int) int {
	for i, s := range spans {
		if s.Contains(pos) {
			return i
		}
	}
	return -1
}

// deleteRange applies the deletion of [at, end) to spans. Spans inside the
// range are dropped and spans after it move left. It reports false when the
// range cuts into a span.
func deleteRange(spans []Span, at, end int) ([]Span, bool) {
	out := make([]Span, 0, len(spans))
	for _, s := range spans {
		switch {
		case s.End <= at:
			out = append(out, s)
		case s.Start >= end:
			s.Start -= end - at
			s.End -= end - at
			out = append(out, s)
		case s.Start >= at && s.End <= end:
			// deleted with its text
		default:
			return nil, false
		}
	}
	return out, true
}

// removeAt returns spans without the element at i.
func removeAt(spans []Span, i int) []Span {
	out := make([]Span, 0, len(spans)-1)
	out = append(out, spans[:i]...)
	return append(out, spans[i+1:]...)
}

// Sorted returns a copy of spans ordered by start offset.
func Sorted(spans []Span) []Span {
	out := append([]Span(nil), spans...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Start < out[j].Start
	})
	return out
}

// Consistent reports whether every span is non-empty, inside [0, length]
// and no two spans overlap.
func Consistent(spans []Span, length int) bool {
	sorted := Sorted(spans)
	prevEnd := 0
	for _, s := range sorted {
		if s.Start >= s.End || s.Start < prevEnd || s.End > length {
			return false
		}
		prevEnd = s.End
	}
	return true
}
