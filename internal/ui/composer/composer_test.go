// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jeranaias/composer/internal/config"
	"github.com/jeranaias/composer/internal/files"
	"github.com/jeranaias/composer/internal/mention"
	"github.com/jeranaias/composer/internal/ui/styles"
	"github.com/jeranaias/composer/internal/upload"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// =============================================================================
// HELPERS
// =============================================================================

type fakeUploader struct {
	url string
	err error
}

func (f fakeUploader) Upload(_ context.Context, path string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.url + filepath.Base(path), nil
}

type harness struct {
	store *files.Store
	sent  []Submission
}

func newHarness(t *testing.T, paster *upload.Paster) (Model, *harness) {
	t.Helper()
	h := &harness{
		store: files.NewStore(files.Config{Initial: []files.Entry{
			{Path: "README.md", Content: "# readme"},
			{Path: "src/index.ts", Content: "export {}"},
		}}),
	}
	m := New(Deps{
		Store:    h.store,
		Paster:   paster,
		Theme:    styles.NewTheme("dark"),
		UI:       config.Default().UI,
		OnSubmit: func(s Submission) { h.sent = append(h.sent, s) },
	})
	t.Cleanup(m.Close)
	return m, h
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func press(t *testing.T, m Model, kt tea.KeyType) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: kt})
	return m
}

func requireInSync(t *testing.T, m Model) {
	t.Helper()
	require.Equal(t, m.editor.Buffer(), m.input.Value())
	require.Equal(t, m.editor.Caret(), m.input.Position())
}

// =============================================================================
// MENTION FLOW TESTS
// =============================================================================

func TestComposer_TypingOpensMenu(t *testing.T) {
	m, _ := newHarness(t, nil)

	m = typeText(t, m, "see @Read")

	assert.True(t, m.editor.MenuOpen())
	assert.Equal(t, []string{"README.md"}, m.editor.Candidates())
	requireInSync(t, m)

	m = typeText(t, m, "xyz")
	assert.False(t, m.editor.MenuOpen())
}

func TestComposer_EnterCommitsMention(t *testing.T) {
	m, h := newHarness(t, nil)

	m = typeText(t, m, "see @Read")
	m = press(t, m, tea.KeyEnter)

	assert.Equal(t, "see @README.md ", m.Buffer())
	assert.False(t, m.editor.MenuOpen())
	if diff := cmp.Diff([]mention.Span{{Start: 4, End: 15, Path: "README.md"}}, m.editor.Spans()); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}
	hl, ok := m.editor.Highlight()
	require.True(t, ok)
	assert.Equal(t, mention.Range{Start: 4, End: 14}, hl)
	assert.Empty(t, h.sent, "committing must not submit")
	requireInSync(t, m)
}

func TestComposer_MenuNavigation(t *testing.T) {
	m, _ := newHarness(t, nil)
	m = typeText(t, m, "@")
	require.Len(t, m.editor.Candidates(), 2)

	m = press(t, m, tea.KeyDown)
	assert.Equal(t, 1, m.editor.Cursor())
	m = press(t, m, tea.KeyDown)
	assert.Equal(t, 1, m.editor.Cursor(), "cursor clamps at the last item")
	m = press(t, m, tea.KeyUp)
	assert.Equal(t, 0, m.editor.Cursor())

	m = press(t, m, tea.KeyEsc)
	assert.False(t, m.editor.MenuOpen())
	assert.Equal(t, "@", m.Buffer())
}

func TestComposer_ShiftedEnterFallsThrough(t *testing.T) {
	m, h := newHarness(t, nil)
	m = typeText(t, m, "@src")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter, Alt: true})

	assert.True(t, m.editor.MenuOpen())
	assert.Equal(t, "@src", m.Buffer())
	assert.Empty(t, h.sent)
}

func TestComposer_BackspaceAtSpanEndRemovesMention(t *testing.T) {
	m, _ := newHarness(t, nil)
	m = typeText(t, m, "see @Read")
	m = press(t, m, tea.KeyEnter)

	m = press(t, m, tea.KeyBackspace)

	assert.Equal(t, "see ", m.Buffer())
	assert.Empty(t, m.editor.Spans())
	_, ok := m.editor.Highlight()
	assert.False(t, ok)
	requireInSync(t, m)
}

func TestComposer_EditInsideSpanIsReverted(t *testing.T) {
	m, _ := newHarness(t, nil)
	m = typeText(t, m, "see @Read")
	m = press(t, m, tea.KeyEnter)
	m = press(t, m, tea.KeyLeft)
	m = press(t, m, tea.KeyLeft)
	require.Equal(t, 13, m.editor.Caret())

	m = typeText(t, m, "x")
	assert.Equal(t, "see @README.md ", m.Buffer())
	assert.Equal(t, "see @README.md ", m.input.Value())

	m = press(t, m, tea.KeyBackspace)
	assert.Equal(t, "see @README.md ", m.Buffer())
	assert.Equal(t, "see @README.md ", m.input.Value())
	assert.Equal(t, 13, m.input.Position())
	assert.Len(t, m.editor.Spans(), 1)
}

func TestComposer_TypingBeforeSpanShiftsIt(t *testing.T) {
	m, _ := newHarness(t, nil)
	m = typeText(t, m, "@Read")
	m = press(t, m, tea.KeyEnter)
	m = press(t, m, tea.KeyHome)

	m = typeText(t, m, "hi ")

	assert.Equal(t, "hi @README.md ", m.Buffer())
	assert.Equal(t, []mention.Span{{Start: 3, End: 14, Path: "README.md"}}, m.editor.Spans())
	assert.True(t, mention.Consistent(m.editor.Spans(), len([]rune(m.Buffer()))))
}

func TestComposer_KillLineDropsMention(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyType
	}{
		{"ctrl+k from line start", []tea.KeyType{tea.KeyHome, tea.KeyCtrlK}},
		{"ctrl+u from line end", []tea.KeyType{tea.KeyCtrlU}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newHarness(t, nil)
			m = typeText(t, m, "hi @Read")
			m = press(t, m, tea.KeyEnter)
			require.Len(t, m.editor.Spans(), 1)

			for _, k := range tt.keys {
				m = press(t, m, k)
			}

			assert.Empty(t, m.Buffer())
			assert.Empty(t, m.editor.Spans())
			_, ok := m.editor.Highlight()
			assert.False(t, ok)
			requireInSync(t, m)

			require.NotPanics(t, func() {
				m = press(t, m, tea.KeyBackspace)
				_ = m.View()
			})
			assert.Empty(t, m.Buffer())
		})
	}
}

func TestComposer_DeleteWordDropsMention(t *testing.T) {
	m, h := newHarness(t, nil)
	m = typeText(t, m, "hi @Read")
	m = press(t, m, tea.KeyEnter)
	require.Equal(t, "hi @README.md ", m.Buffer())

	m = press(t, m, tea.KeyCtrlW)
	assert.Equal(t, "hi ", m.Buffer())
	assert.Empty(t, m.editor.Spans())
	requireInSync(t, m)

	m = typeText(t, m, "thanks")
	m = press(t, m, tea.KeyEnter)

	require.Len(t, h.sent, 1)
	assert.Equal(t, "hi thanks", h.sent[0].Text)
	assert.Empty(t, h.sent[0].Mentions)
	assert.NotContains(t, h.sent[0].Expanded, "# readme")
}

func TestComposer_CommitPastLongBufferStaysInSync(t *testing.T) {
	m, _ := newHarness(t, nil)
	long := strings.Repeat("word ", 1640)
	m, _ = paste(t, m, long)
	require.Equal(t, long, m.Buffer())

	m = typeText(t, m, "@Read")
	m = press(t, m, tea.KeyEnter)

	assert.Equal(t, long+"@README.md ", m.Buffer())
	assert.Greater(t, len([]rune(m.Buffer())), 8192)
	require.Len(t, m.editor.Spans(), 1)
	requireInSync(t, m)
}

// =============================================================================
// SUBMIT TESTS
// =============================================================================

func TestComposer_SubmitExpandsMentions(t *testing.T) {
	m, h := newHarness(t, nil)
	m = typeText(t, m, "explain @index")
	m = press(t, m, tea.KeyEnter)
	m = press(t, m, tea.KeyEnter)

	require.Len(t, h.sent, 1)
	sub := h.sent[0]
	assert.Equal(t, "explain @src/index.ts ", sub.Text)
	assert.Equal(t, []string{"src/index.ts"}, sub.Mentions)
	assert.Contains(t, sub.Expanded, "export {}")
	assert.Contains(t, sub.Expanded, sub.Text)
	assert.Equal(t, ModeChat, sub.Mode)

	assert.Empty(t, m.Buffer())
	assert.Empty(t, m.editor.Spans())
	assert.Equal(t, 1, m.transcript.Len())
	requireInSync(t, m)
}

func TestComposer_EmptySubmitIsIgnored(t *testing.T) {
	m, h := newHarness(t, nil)
	m = typeText(t, m, "   ")
	m = press(t, m, tea.KeyEnter)

	assert.Empty(t, h.sent)
	assert.Equal(t, "   ", m.Buffer())
}

func TestComposer_SubmitReportsAndResetsSendFlags(t *testing.T) {
	m, h := newHarness(t, nil)
	ctx := context.Background()
	require.NoError(t, h.store.AddFile(ctx, "new.ts", "x", false))
	require.NoError(t, h.store.UpdateContent(ctx, "README.md", "# changed", false))

	m = typeText(t, m, "go")
	m = press(t, m, tea.KeyEnter)

	require.Len(t, h.sent, 1)
	assert.Equal(t, []string{"new.ts"}, h.sent[0].Added)
	assert.Equal(t, []string{"README.md"}, h.sent[0].Updated)
	assert.False(t, h.store.IsFirstSend("new.ts"))
	assert.False(t, h.store.IsUpdateSend("README.md"))

	m = typeText(t, m, "again")
	press(t, m, tea.KeyEnter)
	require.Len(t, h.sent, 2)
	assert.Empty(t, h.sent[1].Added)
	assert.Empty(t, h.sent[1].Updated)
}

// =============================================================================
// ERROR LIST TESTS
// =============================================================================

func TestComposer_FixErrorSubmitsCode(t *testing.T) {
	m, h := newHarness(t, nil)
	m = typeText(t, m, "draft")
	h.store.AddError(files.ErrorMessage{Message: "Build failed", Code: "TypeError: x is undefined"})

	m = press(t, m, tea.KeyCtrlF)

	require.Len(t, h.sent, 1)
	assert.Equal(t, "Please help me fix this error:\nTypeError: x is undefined", h.sent[0].Text)
	assert.Empty(t, h.store.Errors())
	assert.Equal(t, "draft", m.Buffer(), "the draft is kept")
}

func TestComposer_FixErrorWithoutErrors(t *testing.T) {
	m, h := newHarness(t, nil)
	press(t, m, tea.KeyCtrlF)
	assert.Empty(t, h.sent)
}

func TestComposer_DismissError(t *testing.T) {
	m, h := newHarness(t, nil)
	h.store.AddError(files.ErrorMessage{Message: "a", Code: "A"})
	h.store.AddError(files.ErrorMessage{Message: "b", Code: "B"})

	press(t, m, tea.KeyCtrlX)

	errs := h.store.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "A", errs[0].Code)
}

func TestComposer_SyncErrorIsListedAndToasted(t *testing.T) {
	m, h := newHarness(t, nil)

	m, cmd := update(t, m, SyncErrorMsg{Err: errors.New("disk full")})

	errs := h.store.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "Failed to sync files", errs[0].Message)
	assert.Equal(t, "disk full", errs[0].Code)
	assert.Equal(t, files.SeverityWarning, errs[0].Severity)
	assert.Len(t, m.toasts.Toasts(), 1)
	assert.NotNil(t, cmd, "first toast starts the ticker")

	_, cmd = update(t, m, SyncErrorMsg{Err: errors.New("again")})
	assert.Nil(t, cmd, "ticker already running")
}

// =============================================================================
// MODE AND STORE TESTS
// =============================================================================

func TestComposer_ToggleMode(t *testing.T) {
	m, _ := newHarness(t, nil)
	chatPlaceholder := m.input.Placeholder

	m = press(t, m, tea.KeyCtrlB)
	assert.Equal(t, ModeBuilder, m.Mode())
	assert.NotEqual(t, chatPlaceholder, m.input.Placeholder)
	assert.Contains(t, m.View(), "builder")

	m = press(t, m, tea.KeyCtrlB)
	assert.Equal(t, ModeChat, m.Mode())
	assert.Equal(t, chatPlaceholder, m.input.Placeholder)
}

func TestComposer_StoreChangeRefreshesMenu(t *testing.T) {
	m, h := newHarness(t, nil)
	m = typeText(t, m, "@")
	require.Len(t, m.editor.Candidates(), 2)

	require.NoError(t, h.store.AddFile(context.Background(), "docs/guide.md", "", false))

	select {
	case c := <-m.changes:
		var cmd tea.Cmd
		m, cmd = update(t, m, storeChangedMsg{change: c})
		assert.NotNil(t, cmd, "keeps listening")
	case <-time.After(time.Second):
		t.Fatal("change not delivered")
	}
	assert.Equal(t, []string{"README.md", "src/index.ts", "docs/guide.md"}, m.editor.Candidates())
}

func TestComposer_CloseStopsListening(t *testing.T) {
	m, h := newHarness(t, nil)
	wait := m.waitForChange()
	m.Close()

	require.NoError(t, h.store.AddFile(context.Background(), "late.ts", "", false))
	assert.Nil(t, wait())
}

// =============================================================================
// PASTE TESTS
// =============================================================================

func writePNG(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shot.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG"), 0600))
	return path
}

func paste(t *testing.T, m Model, text string) (Model, tea.Cmd) {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text), Paste: true})
}

// uploadResult runs the upload command batched by a paste and returns its
// result message.
func uploadResult(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok, "paste should batch the upload with the spinner")
	for _, c := range batch {
		if c == nil {
			continue
		}
		if msg, ok := c().(pasteResultMsg); ok {
			return msg
		}
	}
	t.Fatal("no upload result in batch")
	return nil
}

func TestComposer_PasteImageUploads(t *testing.T) {
	p := upload.NewPaster(fakeUploader{url: "https://cdn.example/"}, true, nil, nil)
	m, h := newHarness(t, p)
	path := writePNG(t)

	m, cmd := paste(t, m, path)
	require.NotNil(t, cmd)
	assert.Empty(t, m.Buffer(), "image paths are not inserted")

	assert.True(t, m.spinner.IsActive())
	assert.Contains(t, m.View(), "uploading")

	m, _ = update(t, m, uploadResult(t, cmd))
	assert.False(t, m.spinner.IsActive())
	imgs := m.Images()
	require.Len(t, imgs, 1)
	assert.Equal(t, "https://cdn.example/shot.png", imgs[0].URL)
	assert.Equal(t, upload.StatusDone, imgs[0].Status)
	require.Len(t, m.toasts.Toasts(), 1)
	assert.Equal(t, "Image pasted successfully", m.toasts.Toasts()[0].Message)

	m = press(t, m, tea.KeyEnter)
	require.Len(t, h.sent, 1)
	assert.Len(t, h.sent[0].Images, 1)
	assert.Empty(t, m.Images())
}

func TestComposer_PasteUploadFailure(t *testing.T) {
	p := upload.NewPaster(fakeUploader{err: errors.New("503")}, true, nil, nil)
	m, _ := newHarness(t, p)

	m, cmd := paste(t, m, writePNG(t))
	m, _ = update(t, m, uploadResult(t, cmd))

	assert.Empty(t, m.Images())
	toasts := m.toasts.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, "Failed to upload pasted images", toasts[0].Message)
	assert.False(t, p.Uploading())
}

func TestComposer_PasteWithImagesDisabledInsertsText(t *testing.T) {
	p := upload.NewPaster(fakeUploader{url: "u/"}, false, nil, nil)
	m, _ := newHarness(t, p)
	path := writePNG(t)

	m, _ = paste(t, m, path)

	assert.Equal(t, path, m.Buffer())
	assert.Empty(t, m.Images())
	require.Len(t, m.toasts.Toasts(), 1)
	requireInSync(t, m)
}

func TestComposer_PasteTextInsertsText(t *testing.T) {
	p := upload.NewPaster(fakeUploader{url: "u/"}, true, nil, nil)
	m, _ := newHarness(t, p)
	m = typeText(t, m, "a ")

	m, _ = paste(t, m, "hello @Read")

	assert.Equal(t, "a hello @Read", m.Buffer())
	assert.True(t, m.editor.MenuOpen())
}

func TestComposer_RemoveImage(t *testing.T) {
	m, _ := newHarness(t, nil)
	m.images = []upload.UploadedImage{{ID: "1"}, {ID: "2"}}

	m = press(t, m, tea.KeyCtrlR)

	require.Len(t, m.Images(), 1)
	assert.Equal(t, "1", m.Images()[0].ID)
}

// =============================================================================
// RESIZE AND VIEW TESTS
// =============================================================================

func TestComposer_ResizeRepositionsAfterDebounce(t *testing.T) {
	m, _ := newHarness(t, nil)
	m, cmd := update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	require.NotNil(t, cmd)
	m, _ = update(t, m, resizeSettledMsg{seq: m.resizeID})

	m = typeText(t, m, "@")
	assert.Equal(t, 4, m.menuLeft, "padding + prompt + '@'")

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 30, Height: 30})
	first := m.resizeID
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 30, Height: 30})
	assert.Equal(t, 4, m.menuLeft, "stale until settled")

	m, _ = update(t, m, resizeSettledMsg{seq: first})
	assert.Equal(t, 4, m.menuLeft, "superseded tick is ignored")

	m, _ = update(t, m, resizeSettledMsg{seq: m.resizeID})
	assert.Equal(t, 1, m.menuLeft, "clamped so the popup fits")
}

func TestComposer_View(t *testing.T) {
	m, _ := newHarness(t, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.Contains(t, m.View(), "mention a file")

	m = typeText(t, m, "@src")
	view := m.View()
	assert.Contains(t, view, "index.ts")
	assert.Contains(t, view, "chat")

	m = press(t, m, tea.KeyEsc)
	assert.NotContains(t, m.View(), "src/")
	m = press(t, m, tea.KeyCtrlE)
	assert.Contains(t, m.View(), "src/")
}
