// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/composer/internal/config"
	"github.com/jeranaias/composer/internal/storage"
)

// run executes args against a fresh home directory shared within a test.
func run(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = Execute(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), code
}

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("COMPOSER_HOME", home)
	for _, k := range []string{"COMPOSER_DB", "COMPOSER_MIRROR_DIR", "COMPOSER_UPLOAD_URL", "COMPOSER_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	return home
}

// decode parses a --json response with its data into data.
func decode(t *testing.T, out string, data interface{}) JSONResponse {
	t.Helper()
	resp := JSONResponse{Data: data}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	return resp
}

// =============================================================================
// FILES
// =============================================================================

func TestFiles_AddCatList(t *testing.T) {
	setupHome(t)

	_, stderr, code := run(t, "files", "add", "src/index.ts", "--content", "export {}")
	require.Equal(t, ExitSuccess, code, stderr)

	out, _, code := run(t, "files", "cat", "src/index.ts")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "export {}", out)

	out, _, code = run(t, "files", "ls")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "README.md")
	assert.Contains(t, out, "src/index.ts")
	assert.Contains(t, out, "+")
}

func TestFiles_ListJSON(t *testing.T) {
	setupHome(t)

	_, _, code := run(t, "files", "add", "a.md", "--content", "hello")
	require.Equal(t, ExitSuccess, code)

	out, _, code := run(t, "--json", "files", "ls")
	require.Equal(t, ExitSuccess, code)

	var rows []FileInfo
	resp := decode(t, out, &rows)
	assert.True(t, resp.Success)
	assert.Equal(t, "files ls", resp.Command)
	require.Len(t, rows, 2)
	assert.Equal(t, FileInfo{Path: "README.md"}, rows[0])
	assert.Equal(t, FileInfo{Path: "a.md", Size: 5, FirstSend: true}, rows[1])
}

func TestFiles_WriteMarksUpdate(t *testing.T) {
	setupHome(t)

	_, _, code := run(t, "files", "write", "README.md", "--content", "# Title")
	require.Equal(t, ExitSuccess, code)

	out, _, code := run(t, "--json", "files", "ls")
	require.Equal(t, ExitSuccess, code)
	var rows []FileInfo
	decode(t, out, &rows)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].UpdateSend)
	assert.False(t, rows[0].FirstSend)
}

func TestFiles_AddFromFile(t *testing.T) {
	setupHome(t)
	src := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(src, []byte("line one\n"), 0644))

	_, _, code := run(t, "files", "add", "notes.txt", "--from", src)
	require.Equal(t, ExitSuccess, code)

	out, _, _ := run(t, "files", "cat", "notes.txt")
	assert.Equal(t, "line one\n", out)

	_, _, code = run(t, "files", "add", "x.txt", "--from", src, "--content", "y")
	assert.Equal(t, ExitUsageError, code)
}

func TestFiles_MoveAndRemove(t *testing.T) {
	setupHome(t)
	run(t, "files", "add", "src/a.ts", "--content", "a")
	run(t, "files", "add", "src/b.ts", "--content", "b")

	_, _, code := run(t, "files", "mv", "src/a.ts", "lib/a.ts")
	require.Equal(t, ExitSuccess, code)
	out, _, _ := run(t, "files", "cat", "lib/a.ts")
	assert.Equal(t, "a", out)

	_, _, code = run(t, "files", "mv", "missing.ts", "other.ts")
	assert.Equal(t, ExitNotFoundError, code)

	// Removing a folder removes everything below it.
	_, _, code = run(t, "files", "rm", "src/")
	require.Equal(t, ExitSuccess, code)
	_, _, code = run(t, "files", "cat", "src/b.ts")
	assert.Equal(t, ExitNotFoundError, code)

	_, _, code = run(t, "files", "rm", "src")
	assert.Equal(t, ExitNotFoundError, code)
}

func TestFiles_Mkdir(t *testing.T) {
	setupHome(t)

	_, _, code := run(t, "files", "mkdir", "components")
	require.Equal(t, ExitSuccess, code)

	out, _, code := run(t, "files", "cat", "components/index.tsx")
	require.Equal(t, ExitSuccess, code)
	assert.Empty(t, out)

	out, _, _ = run(t, "files", "ls", "--tree")
	assert.Contains(t, out, "components/")
	assert.Contains(t, out, "index.tsx")
}

func TestFiles_ExportImport(t *testing.T) {
	setupHome(t)
	run(t, "files", "add", "src/main.go", "--content", "package main")

	dir := t.TempDir()
	_, stderr, code := run(t, "files", "export", dir)
	require.Equal(t, ExitSuccess, code, stderr)

	data, err := os.ReadFile(filepath.Join(dir, "src", "main.go"))
	require.NoError(t, err)
	assert.Equal(t, "package main", string(data))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tmp-123"), []byte("partial"), 0644))

	_, stderr, code = run(t, "files", "import", dir)
	require.Equal(t, ExitSuccess, code, stderr)

	out, _, _ := run(t, "--json", "files", "ls")
	var rows []FileInfo
	decode(t, out, &rows)
	var paths []string
	for _, r := range rows {
		paths = append(paths, r.Path)
	}
	assert.ElementsMatch(t, []string{"README.md", "extra.txt", "src/main.go"}, paths)

	_, _, code = run(t, "files", "import", filepath.Join(dir, "nope"))
	assert.Equal(t, ExitNotFoundError, code)
}

func TestFiles_Errors(t *testing.T) {
	setupHome(t)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"cat missing", []string{"files", "cat", "nope.md"}, ExitNotFoundError},
		{"cat without path", []string{"files", "cat"}, ExitUsageError},
		{"absolute path", []string{"files", "add", "/etc/passwd", "--content", ""}, ExitUsageError},
		{"parent segment", []string{"files", "add", "a/../b", "--content", ""}, ExitUsageError},
		{"unknown flag", []string{"files", "ls", "--bogus"}, ExitUsageError},
		{"stray argument", []string{"version", "extra"}, ExitUsageError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, code := run(t, tt.args...)
			assert.Equal(t, tt.want, code)
			assert.Contains(t, stderr, "[ERROR]")
		})
	}
}

func TestFiles_ErrorJSON(t *testing.T) {
	setupHome(t)

	out, _, code := run(t, "--json", "files", "cat", "nope.md")
	assert.Equal(t, ExitNotFoundError, code)

	resp := decode(t, out, nil)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "file not found: nope.md", *resp.Error)
}

// =============================================================================
// CONFIG AND VERSION
// =============================================================================

func TestConfig_SetGet(t *testing.T) {
	home := setupHome(t)

	_, stderr, code := run(t, "config", "set", "ui.menu_width", "50")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.FileExists(t, filepath.Join(home, "config.toml"))

	out, _, code := run(t, "config", "get", "ui.menu_width")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "50\n", out)

	_, _, code = run(t, "config", "set", "ui.menu_width", "5")
	assert.Equal(t, ExitConfigError, code)

	_, _, code = run(t, "config", "set", "ui.menu_width", "wide")
	assert.Equal(t, ExitUsageError, code)

	_, _, code = run(t, "config", "get", "ui.nope")
	assert.Equal(t, ExitUsageError, code)

	out, _, code = run(t, "config", "path")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, filepath.Join(home, "config.toml")+"\n", out)
}

func TestConfig_Show(t *testing.T) {
	setupHome(t)

	out, _, code := run(t, "config", "show")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "menu_width = 40")
	assert.Contains(t, out, "[files]")
}

func TestVersion(t *testing.T) {
	out, _, code := run(t, "version")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "composer "+Version)

	out, _, code = run(t, "--json", "version")
	require.Equal(t, ExitSuccess, code)
	var info VersionInfo
	decode(t, out, &info)
	assert.Equal(t, Version, info.Version)
}

func TestRootRequiresTerminal(t *testing.T) {
	setupHome(t)
	if IsTTY() && IsStdoutTTY() {
		t.Skip("running on a terminal")
	}
	_, stderr, code := run(t)
	assert.Equal(t, ExitGeneralError, code)
	assert.Contains(t, stderr, "terminal")
}

// =============================================================================
// EXIT CODES
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"not found", ErrNotFound("file", "a"), ExitNotFoundError},
		{"no snapshot", storage.ErrNotFound, ExitNotFoundError},
		{"validation", config.ValidateErrors{{Field: "ui.mode", Message: "bad"}}, ExitConfigError},
		{"usage", &usageError{err: errors.New("bad flag")}, ExitUsageError},
		{"wrapped", NewCommandError("files", "rm", "sync failed", ErrNotFound("file", "a")), ExitNotFoundError},
		{"other", errors.New("boom"), ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}
