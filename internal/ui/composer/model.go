// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/composer/internal/config"
	"github.com/jeranaias/composer/internal/files"
	"github.com/jeranaias/composer/internal/i18n"
	"github.com/jeranaias/composer/internal/logging"
	"github.com/jeranaias/composer/internal/mention"
	"github.com/jeranaias/composer/internal/ui/components"
	"github.com/jeranaias/composer/internal/ui/styles"
	"github.com/jeranaias/composer/internal/upload"
)

// =============================================================================
// MODE
// =============================================================================

// Mode selects how a message is meant to be used.
type Mode int

const (
	ModeChat Mode = iota
	ModeBuilder
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeBuilder {
		return "builder"
	}
	return "chat"
}

// ParseMode maps a configured mode name to a Mode; unknown names are chat.
func ParseMode(name string) Mode {
	if name == "builder" {
		return ModeBuilder
	}
	return ModeChat
}

// =============================================================================
// SUBMISSION
// =============================================================================

// Submission is a message leaving the composer.
type Submission struct {
	// Text is the message as typed
	Text string

	// Expanded is Text with the content of every mentioned file attached
	Expanded string

	// Mentions are the mentioned paths in buffer order
	Mentions []string

	// Images attached to the message
	Images []upload.UploadedImage

	// Added and Updated list the files created or changed since the
	// previous submission
	Added   []string
	Updated []string

	Mode Mode
}

// =============================================================================
// MODEL
// =============================================================================

// Deps are the collaborators of the composer.
type Deps struct {
	Store      *files.Store
	Paster     *upload.Paster // nil disables image paste
	Translator *i18n.Translator
	Theme      *styles.Theme
	UI         config.UIConfig
	Logger     *zap.Logger

	// OnSubmit receives every sent message
	OnSubmit func(Submission)
}

// Model is the bubbletea model of the composer.
type Model struct {
	editor *mention.Editor
	input  textinput.Model
	keys   KeyMap
	help   help.Model

	store    *files.Store
	paster   *upload.Paster
	tr       *i18n.Translator
	theme    *styles.Theme
	ui       config.UIConfig
	log      *zap.Logger
	onSubmit func(Submission)

	popup      *components.MentionPopup
	transcript *components.Transcript
	toasts     *components.ToastManager
	ticking    bool
	spinner    components.Spinner

	mode         Mode
	images       []upload.UploadedImage
	showExplorer bool

	// Dimensions
	width    int
	height   int
	menuLeft int
	resizeID int

	changes     chan files.Change
	unsubscribe func()
	ctx         context.Context
	cancel      context.CancelFunc
}

// New creates a composer bound to d.Store.
func New(d Deps) Model {
	if d.Store == nil {
		d.Store = files.NewStore(files.DefaultConfig())
	}
	if d.Translator == nil {
		d.Translator = i18n.New("")
	}
	if d.Theme == nil {
		d.Theme = styles.NewTheme("auto")
	}
	if d.UI.MenuWidth == 0 {
		d.UI = config.Default().UI
	}
	log := logging.OrNop(d.Logger).Named("composer")

	ti := textinput.New()
	ti.Prompt = "> "
	// Unlimited: Commit inserts text the input never saw typed.
	ti.CharLimit = 0
	ti.Focus()

	h := help.New()
	h.Styles.ShortKey = d.Theme.ShortcutKey
	h.Styles.ShortDesc = d.Theme.ShortcutDesc

	popup := components.NewMentionPopup(d.Theme)
	popup.SetWidth(d.UI.MenuWidth)
	popup.SetMaxVisible(d.UI.MenuMaxVisible)
	popup.SetPreview(d.Store.Lookup, d.UI.PreviewLines)

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan files.Change, 16)
	unsubscribe := d.Store.Subscribe(func(c files.Change) {
		select {
		case changes <- c:
		case <-ctx.Done():
		default:
			// The loop is behind; a later change triggers the same refresh.
		}
	})

	m := Model{
		editor:      mention.NewEditor(d.Store.Paths),
		input:       ti,
		keys:        DefaultKeyMap(),
		help:        h,
		store:       d.Store,
		paster:      d.Paster,
		tr:          d.Translator,
		theme:       d.Theme,
		ui:          d.UI,
		log:         log,
		onSubmit:    d.OnSubmit,
		popup:       popup,
		transcript:  components.NewTranscript(d.Theme),
		toasts:      components.NewToastManager(),
		spinner:     components.NewSpinner("uploading"),
		mode:        ParseMode(d.UI.Mode),
		width:       80,
		height:      24,
		changes:     changes,
		unsubscribe: unsubscribe,
		ctx:         ctx,
		cancel:      cancel,
	}
	m.applyMode()
	return m
}

// Init starts listening for file table changes.
func (m Model) Init() tea.Cmd {
	return m.waitForChange()
}

// Close stops the store subscription and cancels running uploads.
func (m Model) Close() {
	m.unsubscribe()
	m.cancel()
}

// waitForChange delivers the next file table change to the update loop.
func (m Model) waitForChange() tea.Cmd {
	changes, done := m.changes, m.ctx.Done()
	return func() tea.Msg {
		select {
		case c := <-changes:
			return storeChangedMsg{change: c}
		case <-done:
			return nil
		}
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Buffer returns the composer text.
func (m Model) Buffer() string { return m.editor.Buffer() }

// Mode returns the current chat mode.
func (m Model) Mode() Mode { return m.mode }

// Images returns the images attached to the next message.
func (m Model) Images() []upload.UploadedImage {
	return append([]upload.UploadedImage(nil), m.images...)
}

// applyMode sets the placeholder for the current mode.
func (m *Model) applyMode() {
	key := i18n.KeyPlaceholderChat
	if m.mode == ModeBuilder {
		key = i18n.KeyPlaceholderBuilder
	}
	m.input.Placeholder = m.tr.T(key)
}
