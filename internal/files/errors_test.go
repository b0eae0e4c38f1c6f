// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package files

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors_DedupeByCode(t *testing.T) {
	s := NewStore(Config{})
	s.AddError(ErrorMessage{Message: "x", Code: "E1", Number: 1, Severity: SeverityError})
	s.AddError(ErrorMessage{Message: "x again", Code: "E1", Number: 1, Severity: SeverityError})

	errs := s.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, 2, errs[0].Number)
	assert.Equal(t, "x", errs[0].Message)
}

func TestErrors_NewestFirstAndCapped(t *testing.T) {
	s := NewStore(Config{})
	for _, code := range []string{"E1", "E2", "E3", "E4", "E5"} {
		s.AddError(ErrorMessage{Code: code, Number: 1})
	}

	var codes []string
	for _, e := range s.Errors() {
		codes = append(codes, e.Code)
	}
	assert.Equal(t, []string{"E5", "E4", "E3", "E2"}, codes)
}

func TestErrors_SuppressedWhileLoading(t *testing.T) {
	s := NewStore(Config{})
	s.SetLoading(true)
	s.AddError(ErrorMessage{Code: "E1"})
	assert.Empty(t, s.Errors())

	s.SetLoading(false)
	s.AddError(ErrorMessage{Code: "E1"})
	assert.Len(t, s.Errors(), 1)
}

func TestErrors_RemoveAndClear(t *testing.T) {
	s := NewStore(Config{})
	s.AddError(ErrorMessage{Code: "E1"})
	s.AddError(ErrorMessage{Code: "E2"})

	s.RemoveError(5)
	assert.Len(t, s.Errors(), 2)

	s.RemoveError(0)
	errs := s.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "E1", errs[0].Code)

	s.ClearErrors()
	assert.Empty(t, s.Errors())
}

func TestErrors_NotifySubscribers(t *testing.T) {
	s := NewStore(Config{})
	var ops []Op
	s.Subscribe(func(c Change) { ops = append(ops, c.Op) })

	s.AddError(ErrorMessage{Code: "E1"})
	s.RemoveError(0)
	assert.Equal(t, []Op{OpErrors, OpErrors}, ops)
}
