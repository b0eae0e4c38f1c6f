// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package files

import (
	"context"
	"sort"
	"strings"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.uber.org/zap"
)

// =============================================================================
// TYPES
// =============================================================================

// DefaultPlaceholder is the file seeded into folders created by CreateFolder.
const DefaultPlaceholder = "index.tsx"

// Entry is one file of the table.
type Entry struct {
	Path    string `json:"path" toml:"path"`
	Content string `json:"content" toml:"content"`
}

// Op names a table mutation.
type Op string

const (
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpRename Op = "rename"
	OpDelete Op = "delete"
	OpFolder Op = "folder"
	OpSet    Op = "set"
	OpClear  Op = "clear"
	OpErrors Op = "errors"
)

// Change describes a mutation delivered to subscribers.
type Change struct {
	Op      Op
	Path    string
	NewPath string // rename target
}

// Snapshot is a consistent copy of the table and its send flags.
type Snapshot struct {
	Entries    []Entry
	FirstSend  map[string]bool
	UpdateSend map[string]bool
}

// Config holds store configuration.
type Config struct {
	// Placeholder is the file name seeded into new folders
	Placeholder string

	// Initial entries, in order
	Initial []Entry

	// Logger for mutation tracing (nil = no logging)
	Logger *zap.Logger
}

// DefaultConfig returns the default configuration: a single empty README.md.
func DefaultConfig() Config {
	return Config{
		Placeholder: DefaultPlaceholder,
		Initial:     []Entry{{Path: "README.md", Content: ""}},
	}
}

// =============================================================================
// STORE
// =============================================================================

// Store is the virtual file table. It is safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	files      *orderedmap.OrderedMap[string, string]
	firstSend  map[string]bool
	updateSend map[string]bool
	errors     []ErrorMessage
	loading    bool

	placeholder string
	syncer      Syncer
	log         *zap.Logger

	subMu   sync.Mutex
	subs    map[int]func(Change)
	nextSub int
}

// NewStore creates a store seeded with cfg.Initial.
func NewStore(cfg Config) *Store {
	if cfg.Placeholder == "" {
		cfg.Placeholder = DefaultPlaceholder
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	s := &Store{
		files:       orderedmap.New[string, string](),
		firstSend:   make(map[string]bool),
		updateSend:  make(map[string]bool),
		placeholder: cfg.Placeholder,
		syncer:      nopSyncer{},
		log:         cfg.Logger.Named("files"),
		subs:        make(map[int]func(Change)),
	}
	for _, e := range cfg.Initial {
		s.files.Set(e.Path, e.Content)
	}
	return s
}

// SetSyncer installs the syncer called after every mutation.
func (s *Store) SetSyncer(syncer Syncer) {
	if syncer == nil {
		syncer = nopSyncer{}
	}
	s.mu.Lock()
	s.syncer = syncer
	s.mu.Unlock()
}

// Subscribe registers fn to be called after every change. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) publish(c Change) {
	s.subMu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Change), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

// commit publishes c and runs the syncer. Callers must not hold s.mu.
func (s *Store) commit(ctx context.Context, c Change, closeFlag bool) error {
	s.log.Debug("file table changed",
		zap.String("op", string(c.Op)),
		zap.String("path", c.Path),
		zap.String("new_path", c.NewPath))

	s.publish(c)

	s.mu.RLock()
	syncer := s.syncer
	s.mu.RUnlock()
	return syncer.Sync(ctx, closeFlag)
}

// =============================================================================
// READS
// =============================================================================

// Content returns the content of path, or "" when absent.
func (s *Store) Content(path string) string {
	c, _ := s.Lookup(path)
	return c
}

// Lookup returns the content of path and whether it exists.
func (s *Store) Lookup(path string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.files.Get(path)
}

// Paths returns every path in insertion order.
func (s *Store) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, s.files.Len())
	for p := s.files.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Key)
	}
	return out
}

// Len returns the number of files.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.files.Len()
}

// Snapshot returns a copy of the table and send flags.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Entries:    make([]Entry, 0, s.files.Len()),
		FirstSend:  copyFlags(s.firstSend),
		UpdateSend: copyFlags(s.updateSend),
	}
	for p := s.files.Oldest(); p != nil; p = p.Next() {
		snap.Entries = append(snap.Entries, Entry{Path: p.Key, Content: p.Value})
	}
	return snap
}

func copyFlags(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// =============================================================================
// SEND FLAGS
// =============================================================================

// IsFirstSend reports whether path was added since the last ResetFirstSend.
func (s *Store) IsFirstSend(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.firstSend[path]
}

// IsUpdateSend reports whether path was updated after its first send.
func (s *Store) IsUpdateSend(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updateSend[path]
}

// ResetFirstSend clears every first-send flag.
func (s *Store) ResetFirstSend() {
	s.mu.Lock()
	s.firstSend = make(map[string]bool)
	s.mu.Unlock()
}

// ResetUpdateSend clears every update-send flag.
func (s *Store) ResetUpdateSend() {
	s.mu.Lock()
	s.updateSend = make(map[string]bool)
	s.mu.Unlock()
}

// =============================================================================
// MUTATIONS
// =============================================================================

// AddFile creates or replaces path and marks it for a first send.
func (s *Store) AddFile(ctx context.Context, path, content string, closeFlag bool) error {
	s.mu.Lock()
	s.files.Set(path, content)
	s.firstSend[path] = true
	s.mu.Unlock()

	return s.commit(ctx, Change{Op: OpAdd, Path: path}, closeFlag)
}

// UpdateContent creates or replaces path. The update-send flag is set unless
// the file is still waiting for its first send.
func (s *Store) UpdateContent(ctx context.Context, path, content string, closeFlag bool) error {
	s.mu.Lock()
	s.files.Set(path, content)
	s.updateSend[path] = !s.firstSend[path]
	s.mu.Unlock()

	return s.commit(ctx, Change{Op: OpUpdate, Path: path}, closeFlag)
}

// RenameFile moves the content of oldPath to newPath. It does nothing when
// oldPath does not exist.
func (s *Store) RenameFile(ctx context.Context, oldPath, newPath string) error {
	s.mu.Lock()
	content, ok := s.files.Get(oldPath)
	if !ok {
		s.mu.Unlock()
		return nil
	}
	s.files.Delete(oldPath)
	s.files.Set(newPath, content)
	s.mu.Unlock()

	return s.commit(ctx, Change{Op: OpRename, Path: oldPath, NewPath: newPath}, false)
}

// DeleteFile removes path and every path below it. It does nothing when no
// path matches.
func (s *Store) DeleteFile(ctx context.Context, path string) error {
	prefix := folderPrefix(path)

	s.mu.Lock()
	var doomed []string
	for p := s.files.Oldest(); p != nil; p = p.Next() {
		if p.Key == path || strings.HasPrefix(p.Key, prefix) {
			doomed = append(doomed, p.Key)
		}
	}
	for _, k := range doomed {
		s.files.Delete(k)
	}
	s.mu.Unlock()

	if len(doomed) == 0 {
		return nil
	}
	return s.commit(ctx, Change{Op: OpDelete, Path: path}, false)
}

// CreateFolder seeds "<path>/<placeholder>" unless some path already lives
// below path.
func (s *Store) CreateFolder(ctx context.Context, path string) error {
	prefix := folderPrefix(path)

	s.mu.Lock()
	for p := s.files.Oldest(); p != nil; p = p.Next() {
		if strings.HasPrefix(p.Key, prefix) {
			s.mu.Unlock()
			return nil
		}
	}
	s.files.Set(prefix+s.placeholder, "")
	s.mu.Unlock()

	return s.commit(ctx, Change{Op: OpFolder, Path: path}, false)
}

// SetFiles replaces the whole table.
func (s *Store) SetFiles(ctx context.Context, entries []Entry) error {
	s.mu.Lock()
	s.files = orderedmap.New[string, string]()
	for _, e := range entries {
		s.files.Set(e.Path, e.Content)
	}
	s.mu.Unlock()

	return s.commit(ctx, Change{Op: OpSet}, false)
}

// Restore replaces the table and send flags with snap without syncing.
// It is used to load persisted state at startup.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	s.files = orderedmap.New[string, string]()
	for _, e := range snap.Entries {
		s.files.Set(e.Path, e.Content)
	}
	s.firstSend = copyFlags(snap.FirstSend)
	s.updateSend = copyFlags(snap.UpdateSend)
	s.mu.Unlock()

	s.publish(Change{Op: OpSet})
}

// Clear empties the table without syncing.
func (s *Store) Clear() {
	s.mu.Lock()
	s.files = orderedmap.New[string, string]()
	s.mu.Unlock()

	s.publish(Change{Op: OpClear})
}

func folderPrefix(path string) string {
	if strings.HasSuffix(path, "/") {
		return path
	}
	return path + "/"
}
