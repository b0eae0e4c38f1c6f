// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import "sort"

// =============================================================================
// KEYS AND OUTCOMES
// =============================================================================

// Key identifies the keys the editor reacts to.
type Key int

const (
	KeyOther Key = iota
	KeyBackspace
	KeyDelete
	KeyEnter
	KeyUp
	KeyDown
	KeyEscape
)

// KeyEvent is a key press observed before the input applies it.
type KeyEvent struct {
	Key   Key
	Shift bool
	// Caret is the rune offset of the cursor when the key was pressed
	Caret int
}

// Outcome tells the caller what to do with a key after KeyDown.
type Outcome int

const (
	// Pass lets the input apply the key normally.
	Pass Outcome = iota
	// Consumed means the editor handled the key; Buffer and Caret may differ.
	Consumed
	// Submit means Enter was pressed with the menu closed.
	Submit
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Pass:
		return "pass"
	case Consumed:
		return "consumed"
	case Submit:
		return "submit"
	default:
		return "unknown"
	}
}

// =============================================================================
// STATE
// =============================================================================

// State is an immutable snapshot of the editor handed to subscribers.
type State struct {
	Buffer     string
	Caret      int
	Spans      []Span
	Highlight  *Range
	MenuOpen   bool
	Candidates []string
	Cursor     int
}

// PathSource returns the known file paths in insertion order.
type PathSource func() []string

// Editor owns the composer buffer and its mention spans.
// It is not safe for concurrent use; the UI loop drives it.
type Editor struct {
	paths PathSource

	buffer    []rune
	caret     int
	spans     []Span
	highlight *Range

	menuOpen   bool
	candidates []string
	cursor     int

	subs    map[int]func(State)
	nextSub int
}

// NewEditor creates an empty editor that draws candidates from paths.
func NewEditor(paths PathSource) *Editor {
	if paths == nil {
		paths = func() []string { return nil }
	}
	return &Editor{
		paths: paths,
		subs:  make(map[int]func(State)),
	}
}

// Buffer returns the buffer text.
func (e *Editor) Buffer() string { return string(e.buffer) }

// Caret returns the caret rune offset.
func (e *Editor) Caret() int { return e.caret }

// Spans returns a copy of the active spans.
func (e *Editor) Spans() []Span { return append([]Span(nil), e.spans...) }

// Highlight returns the active highlight range, if any.
func (e *Editor) Highlight() (Range, bool) {
	if e.highlight == nil {
		return Range{}, false
	}
	return *e.highlight, true
}

// MenuOpen reports whether the suggestion menu is open.
func (e *Editor) MenuOpen() bool { return e.menuOpen }

// Candidates returns the filtered suggestions while the menu is open.
func (e *Editor) Candidates() []string { return append([]string(nil), e.candidates...) }

// Cursor returns the menu cursor index.
func (e *Editor) Cursor() int { return e.cursor }

// Selected returns the candidate under the menu cursor.
func (e *Editor) Selected() (string, bool) {
	if !e.menuOpen || e.cursor < 0 || e.cursor >= len(e.candidates) {
		return "", false
	}
	return e.candidates[e.cursor], true
}

// State returns a snapshot of the editor.
func (e *Editor) State() State {
	st := State{
		Buffer:     e.Buffer(),
		Caret:      e.caret,
		Spans:      Sorted(e.spans),
		MenuOpen:   e.menuOpen,
		Candidates: e.Candidates(),
		Cursor:     e.cursor,
	}
	if e.highlight != nil {
		h := *e.highlight
		st.Highlight = &h
	}
	return st
}

// Subscribe registers fn to be called after every state change.
// The returned function removes the subscription.
func (e *Editor) Subscribe(fn func(State)) func() {
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	return func() { delete(e.subs, id) }
}

func (e *Editor) notify() {
	if len(e.subs) == 0 {
		return
	}
	st := e.State()
	ids := make([]int, 0, len(e.subs))
	for id := range e.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		e.subs[id](st)
	}
}

// =============================================================================
// BUFFER UPDATES
// =============================================================================

// SetBuffer replaces the buffer wholesale. Spans, highlight and menu are reset
// and the caret moves to the end.
func (e *Editor) SetBuffer(text string) {
	e.buffer = []rune(text)
	e.caret = len(e.buffer)
	e.spans = nil
	e.highlight = nil
	e.closeMenu()
	e.notify()
}

// Change applies an edit made by the input. next is the new buffer and caret
// the caret after the edit. The edit is inferred as a single contiguous
// deletion starting at the caret or insertion ending at it. A deletion that
// covers whole spans drops them; an edit that cuts into a span is rejected
// and Change returns false, leaving the editor untouched.
func (e *Editor) Change(next string, caret int) bool {
	nextRunes := []rune(next)
	caret = clamp(caret, 0, len(nextRunes))
	delta := len(nextRunes) - len(e.buffer)

	spans := e.spans
	highlight := e.highlight

	switch {
	case delta < 0:
		at, end := caret, caret-delta
		var ok bool
		if spans, ok = deleteRange(spans, at, end); !ok {
			return false
		}
		if highlight != nil && at < highlight.End && end > highlight.Start {
			highlight = nil
		} else {
			highlight = adjustHighlight(highlight, at, delta, false)
		}
	case delta > 0:
		at := caret - delta
		if at < 0 || spanContaining(spans, at) >= 0 {
			return false
		}
		spans = shiftFrom(spans, delta, func(s Span) bool { return s.Start >= at })
		highlight = adjustHighlight(highlight, at, delta, true)
	}

	e.buffer = nextRunes
	e.caret = caret
	e.spans = spans
	e.highlight = highlight
	e.detect()
	e.notify()
	return true
}

// adjustHighlight clears h when the edit at pos falls outside it, and shifts it
// when the edit happened at its start.
func adjustHighlight(h *Range, pos, delta int, inclusive bool) *Range {
	if h == nil || !h.Contains(pos) {
		return nil
	}
	moved := *h
	if moved.Start > pos || (inclusive && moved.Start == pos) {
		moved.Start += delta
		moved.End += delta
	}
	return &moved
}

// MoveCaret records a caret move that did not change the buffer.
func (e *Editor) MoveCaret(caret int) {
	caret = clamp(caret, 0, len(e.buffer))
	if caret == e.caret {
		return
	}
	e.caret = caret
	e.notify()
}

// detect opens or closes the menu from the trigger before the caret.
func (e *Editor) detect() {
	trig, ok := DetectTrigger(e.buffer, e.caret)
	if !ok {
		e.closeMenu()
		return
	}
	matches := Filter(trig.Query, e.paths())
	if len(matches) == 0 {
		e.closeMenu()
		return
	}
	e.menuOpen = true
	e.candidates = matches
	e.cursor = 0
}

// Refresh re-runs trigger detection, e.g. after the file table changed.
func (e *Editor) Refresh() {
	e.detect()
	e.notify()
}

func (e *Editor) closeMenu() {
	e.menuOpen = false
	e.candidates = nil
	e.cursor = 0
}

// CloseMenu closes the suggestion menu without committing.
func (e *Editor) CloseMenu() {
	if !e.menuOpen {
		return
	}
	e.closeMenu()
	e.notify()
}

// =============================================================================
// KEY HANDLING
// =============================================================================

// KeyDown handles a key before the input applies it.
func (e *Editor) KeyDown(ev KeyEvent) Outcome {
	e.caret = clamp(ev.Caret, 0, len(e.buffer))

	if ev.Key == KeyBackspace || ev.Key == KeyDelete {
		if i := spanEndingAt(e.spans, e.caret); i >= 0 {
			e.deleteSpan(i)
			return Consumed
		}
	}

	if ev.Key == KeyEnter && e.highlight != nil {
		e.highlight = nil
		e.notify()
	}

	if !e.menuOpen {
		if ev.Key == KeyEnter && !ev.Shift {
			return Submit
		}
		return Pass
	}

	switch ev.Key {
	case KeyDown:
		if e.cursor < len(e.candidates)-1 {
			e.cursor++
			e.notify()
		}
		return Consumed
	case KeyUp:
		if e.cursor > 0 {
			e.cursor--
			e.notify()
		}
		return Consumed
	case KeyEnter:
		if ev.Shift {
			return Pass
		}
		if path, ok := e.Selected(); ok {
			e.Commit(path)
		}
		return Consumed
	case KeyEscape:
		e.CloseMenu()
		return Consumed
	}
	return Pass
}

// deleteSpan removes span i and its text, shifting the spans after it.
func (e *Editor) deleteSpan(i int) {
	s := e.spans[i]
	if s.Start < 0 || s.End > len(e.buffer) || s.Start >= s.End {
		e.spans = removeAt(e.spans, i)
		e.notify()
		return
	}
	buf := make([]rune, 0, len(e.buffer)-s.Len())
	buf = append(buf, e.buffer[:s.Start]...)
	buf = append(buf, e.buffer[s.End:]...)

	spans := removeAt(e.spans, i)
	spans = shiftFrom(spans, -s.Len(), func(o Span) bool { return o.Start >= s.End })

	e.buffer = buf
	e.spans = spans
	e.caret = s.Start
	e.highlight = nil
	e.notify()
}

// =============================================================================
// COMMIT
// =============================================================================

// Commit replaces "@partial" before the caret with "@path " and records a span
// for it. It returns false when there is no '@' before the caret.
func (e *Editor) Commit(path string) bool {
	if path == "" {
		return false
	}
	caret := e.caret
	at := lastIndexRune(e.buffer[:caret], '@')
	if at < 0 {
		return false
	}

	insert := []rune("@" + path + " ")
	buf := make([]rune, 0, len(e.buffer)+len(insert))
	buf = append(buf, e.buffer[:at]...)
	buf = append(buf, insert...)
	buf = append(buf, e.buffer[caret:]...)

	// Spans overwritten by the replaced text are dropped.
	var spans []Span
	for _, s := range e.spans {
		if s.End > at && s.Start < caret {
			continue
		}
		spans = append(spans, s)
	}
	delta := len(insert) - (caret - at)
	spans = shiftFrom(spans, delta, func(s Span) bool { return s.Start >= caret })
	spans = append(spans, Span{Start: at, End: at + len(insert), Path: path})

	pathLen := len([]rune(path))
	e.buffer = buf
	e.spans = spans
	e.highlight = &Range{Start: at, End: at + pathLen + 1}
	e.caret = at + len(insert)
	e.closeMenu()
	e.notify()
	return true
}

// Select commits the candidate at index i.
func (e *Editor) Select(i int) bool {
	if !e.menuOpen || i < 0 || i >= len(e.candidates) {
		return false
	}
	return e.Commit(e.candidates[i])
}

func lastIndexRune(rs []rune, r rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == r {
			return i
		}
	}
	return -1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
