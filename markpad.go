// Package markpad is the runtime façade for a Markdown authoring core:
// sanitized preview rendering, draft persistence, line diffs, editor session
// state, and editor/preview scroll coupling.
package markpad

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-markpad/diffview"
	"github.com/goliatone/go-markpad/drafts"
	"github.com/goliatone/go-markpad/editor"
	"github.com/goliatone/go-markpad/internal/logging"
	"github.com/goliatone/go-markpad/internal/logging/gologger"
	"github.com/goliatone/go-markpad/internal/runtimeconfig"
	"github.com/goliatone/go-markpad/markdown"
	"github.com/goliatone/go-markpad/pkg/interfaces"
	"github.com/goliatone/go-markpad/scrollsync"
)

var (
	// ErrDraftNotFound reports a missing draft id.
	ErrDraftNotFound = drafts.ErrNotFound
	// ErrNoCurrentDraft reports an absent current-draft pointer.
	ErrNoCurrentDraft = drafts.ErrNoCurrent
	// ErrDiscardDeclined reports a confirmation callback keeping unsaved edits.
	ErrDiscardDeclined = editor.ErrDiscardDeclined
)

// Renderer exports the Markdown renderer for consumers of the markpad package.
type Renderer = markdown.Renderer

// RenderResult exports the renderer output DTO.
type RenderResult = markdown.Result

// Heading exports a single outline entry.
type Heading = markdown.Heading

// Draft exports the persisted draft record.
type Draft = drafts.Draft

// DraftStore exports the draft persistence contract.
type DraftStore = drafts.Store

// DiffRenderer exports the line-diff renderer.
type DiffRenderer = diffview.Renderer

// Session exports the editor session state.
type Session = editor.Session

// Surface exports the host editing-widget capability contract.
type Surface = editor.Surface

// Span exports the rune-offset selection range.
type Span = editor.Span

// Suggestion exports the external-collaborator edit proposal.
type Suggestion = editor.Suggestion

// ConfirmFunc exports the unsaved-changes confirmation callback.
type ConfirmFunc = editor.ConfirmFunc

// Synchronizer exports the scroll coupling state machine.
type Synchronizer = scrollsync.Synchronizer

// Pane exports the scrollable surface contract.
type Pane = scrollsync.Pane

// AnchorPane exports the anchor-capable scrollable surface contract.
type AnchorPane = scrollsync.AnchorPane

// ScrollInfo exports the scroll geometry snapshot.
type ScrollInfo = scrollsync.ScrollInfo

// Module wires the authoring components behind a single entry point.
type Module struct {
	cfg      Config
	provider interfaces.LoggerProvider
	renderer *markdown.Renderer
	diff     *diffview.Renderer
	store    drafts.Store
}

// Option overrides module wiring.
type Option func(*Module)

// WithLoggerProvider replaces the logging backend.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(m *Module) {
		if provider != nil {
			m.provider = provider
		}
	}
}

// WithDraftStore replaces the configured persistence backend, bypassing
// Storage config entirely.
func WithDraftStore(store drafts.Store) Option {
	return func(m *Module) { m.store = store }
}

// New constructs a markpad module from the provided configuration.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Module{cfg: cfg}
	for _, opt := range opts {
		opt(m)
	}

	if m.provider == nil {
		switch strings.ToLower(strings.TrimSpace(cfg.Logging.Provider)) {
		case "noop":
			m.provider = logging.NoOpProvider()
		default:
			provider, err := gologger.NewProvider(gologger.Config{
				Level:     cfg.Logging.Level,
				Format:    cfg.Logging.Format,
				AddSource: cfg.Logging.AddSource,
				Focus:     cfg.Logging.Focus,
			})
			if err != nil {
				return nil, err
			}
			m.provider = provider
		}
	}

	if m.store == nil {
		store, err := newStore(cfg.Storage, m.provider)
		if err != nil {
			return nil, err
		}
		m.store = store
	}

	m.renderer = markdown.NewRenderer(cfg.Markdown,
		markdown.WithLogger(logging.MarkdownLogger(m.provider)))
	m.diff = diffview.NewRenderer(cfg.Diff,
		diffview.WithLogger(logging.DiffLogger(m.provider)))

	return m, nil
}

// Markdown returns the configured preview renderer.
func (m *Module) Markdown() *Renderer {
	return m.renderer
}

// Drafts returns the configured draft store.
func (m *Module) Drafts() DraftStore {
	return m.store
}

// Diff returns the configured line-diff renderer.
func (m *Module) Diff() *DiffRenderer {
	return m.diff
}

// NewSession builds an editor session over the module's store and renderer.
// surface and confirm may be nil for headless use.
func (m *Module) NewSession(surface Surface, confirm ConfirmFunc) *Session {
	opts := []editor.SessionOption{
		editor.WithSessionLogger(logging.EditorLogger(m.provider)),
		editor.WithDiffRenderer(m.diff),
	}
	if surface != nil {
		opts = append(opts, editor.WithSurface(surface))
	}
	if confirm != nil {
		opts = append(opts, editor.WithConfirm(confirm))
	}
	return editor.NewSession(m.store, m.renderer, m.cfg.Autosave, opts...)
}

// NewScrollSync couples an editor pane and a preview pane using the module's
// scroll-sync configuration.
func (m *Module) NewScrollSync(editorPane, previewPane Pane) *Synchronizer {
	return scrollsync.New(editorPane, previewPane, m.cfg.ScrollSync,
		scrollsync.WithSyncLogger(logging.ScrollSyncLogger(m.provider)))
}

func newStore(cfg runtimeconfig.StorageConfig, provider interfaces.LoggerProvider) (drafts.Store, error) {
	logger := logging.DraftsLogger(provider)

	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "memory":
		return drafts.NewKVStore(drafts.NewMemoryKV(), cfg,
			drafts.WithStoreLogger(logger)), nil
	case "", "kv":
		kv, err := drafts.NewFileKV(cfg.Path)
		if err != nil {
			return nil, err
		}
		return drafts.NewKVStore(kv, cfg, drafts.WithStoreLogger(logger)), nil
	case "bun":
		db, err := drafts.OpenSQLite(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return drafts.NewBunStore(db, drafts.WithBunLogger(logger))
	default:
		return nil, fmt.Errorf("markpad: %w: %q", ErrStorageBackendUnknown, cfg.Backend)
	}
}
