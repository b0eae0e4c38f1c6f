// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package files

// =============================================================================
// ERROR LIST
// =============================================================================

// Severity classifies an ErrorMessage.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// MaxErrors is the number of errors kept in the list.
const MaxErrors = 4

// ErrorMessage is a problem reported against the project, shown above the
// composer with an option to ask for a fix.
type ErrorMessage struct {
	Message  string   `json:"message"`
	Code     string   `json:"code"`
	Number   int      `json:"number"`
	Severity Severity `json:"severity"`
}

// SetLoading toggles error suppression. While loading, AddError is ignored.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
}

// AddError records e. An error with a code already in the list only bumps that
// entry's Number; a new one is put in front and the list is capped at
// MaxErrors.
func (s *Store) AddError(e ErrorMessage) {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return
	}
	for i := range s.errors {
		if s.errors[i].Code == e.Code {
			s.errors[i].Number++
			s.mu.Unlock()
			s.publish(Change{Op: OpErrors})
			return
		}
	}
	kept := s.errors
	if len(kept) > MaxErrors-1 {
		kept = kept[:MaxErrors-1]
	}
	s.errors = append([]ErrorMessage{e}, kept...)
	s.mu.Unlock()

	s.publish(Change{Op: OpErrors})
}

// RemoveError drops the error at index. Out of range indexes are ignored.
func (s *Store) RemoveError(index int) {
	s.mu.Lock()
	if index < 0 || index >= len(s.errors) {
		s.mu.Unlock()
		return
	}
	out := make([]ErrorMessage, 0, len(s.errors)-1)
	out = append(out, s.errors[:index]...)
	s.errors = append(out, s.errors[index+1:]...)
	s.mu.Unlock()

	s.publish(Change{Op: OpErrors})
}

// ClearErrors empties the error list.
func (s *Store) ClearErrors() {
	s.mu.Lock()
	s.errors = nil
	s.mu.Unlock()

	s.publish(Change{Op: OpErrors})
}

// Errors returns a copy of the error list, newest first.
func (s *Store) Errors() []ErrorMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ErrorMessage(nil), s.errors...)
}
