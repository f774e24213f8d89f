// Package editor holds the authoritative state of the document being
// written: content, selection, saved flag, heading outline, and derived
// counters. Every mutation funnels through the session so the derived state
// never drifts from the content that produced it.
package editor

import (
	"errors"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/bep/debounce"

	"github.com/goliatone/go-markpad/diffview"
	"github.com/goliatone/go-markpad/drafts"
	"github.com/goliatone/go-markpad/internal/logging"
	"github.com/goliatone/go-markpad/internal/runtimeconfig"
	"github.com/goliatone/go-markpad/markdown"
	"github.com/goliatone/go-markpad/pkg/interfaces"
)

// blankTemplate seeds a fresh document.
const blankTemplate = "# Untitled\n\n"

// ConfirmFunc asks the user whether unsaved edits may be discarded. It is
// the one place the session is allowed to block on user interaction.
type ConfirmFunc func(prompt string) bool

// Session is the single source of truth for the in-progress document.
type Session struct {
	mu       sync.Mutex
	store    drafts.Store
	renderer *markdown.Renderer
	diff     *diffview.Renderer
	surface  Surface
	confirm  ConfirmFunc
	logger   interfaces.Logger

	content   string
	selection Span
	saved     bool
	fileName  *string
	draftID   string
	headings  []markdown.Heading

	autosave        func(func())
	autosaveEnabled bool
}

// SessionOption customizes session construction.
type SessionOption func(*Session)

// WithSurface binds a host editing widget.
func WithSurface(surface Surface) SessionOption {
	return func(s *Session) { s.surface = surface }
}

// WithConfirm installs the unsaved-changes confirmation callback. Without
// one, destructive navigation proceeds unguarded.
func WithConfirm(confirm ConfirmFunc) SessionOption {
	return func(s *Session) { s.confirm = confirm }
}

// WithDiffRenderer overrides the diff renderer used by suggestion previews.
func WithDiffRenderer(diff *diffview.Renderer) SessionOption {
	return func(s *Session) { s.diff = diff }
}

// WithSessionLogger attaches a module logger.
func WithSessionLogger(logger interfaces.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// withAutosaveScheduler replaces the debounce wrapper, used by tests to fire
// autosave deterministically.
func withAutosaveScheduler(schedule func(func())) SessionOption {
	return func(s *Session) {
		s.autosave = schedule
		s.autosaveEnabled = schedule != nil
	}
}

// NewSession builds a session over the given draft store and renderer. The
// session starts as a saved blank document.
func NewSession(store drafts.Store, renderer *markdown.Renderer, cfg runtimeconfig.AutosaveConfig, opts ...SessionOption) *Session {
	s := &Session{
		store:    store,
		renderer: renderer,
		content:  blankTemplate,
		saved:    true,
		logger:   logging.NoOp(),
	}
	if cfg.Enabled {
		quiet := cfg.Quiet
		if quiet <= 0 {
			quiet = 3 * time.Second
		}
		s.autosave = debounce.New(quiet)
		s.autosaveEnabled = true
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetContent replaces the document content, flips the saved flag, and
// reschedules autosave. Headings are intentionally left alone: the outline
// refreshes on the next Render, decoupled from typing.
func (s *Session) SetContent(text string) {
	s.mu.Lock()
	s.content = text
	s.saved = false
	s.selection = s.selection.clamp(utf8.RuneCountInString(text))
	s.mu.Unlock()
	s.scheduleAutosave()
}

// Content returns the current document text.
func (s *Session) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content
}

// Stats returns the live word and character counters.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return statsFor(s.content)
}

// Saved reports whether the content matches the last persisted state.
func (s *Session) Saved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved
}

// DraftID returns the id of the backing draft, empty for a never-saved
// document.
func (s *Session) DraftID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draftID
}

// FileName returns a copy of the document's file name, nil when unnamed.
func (s *Session) FileName() *string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneName(s.fileName)
}

// SetFileName names or renames the document. The new name is picked up by
// the next save.
func (s *Session) SetFileName(name *string) {
	s.mu.Lock()
	s.fileName = cloneName(name)
	s.saved = false
	s.mu.Unlock()
	s.scheduleAutosave()
}

// Selection returns the tracked selection.
func (s *Session) Selection() Span {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// SetSelection records the selection reported by the host widget.
func (s *Session) SetSelection(span Span) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = span.clamp(utf8.RuneCountInString(s.content))
}

// Render produces the sanitized preview for the current content and
// refreshes the heading outline.
func (s *Session) Render() markdown.Result {
	s.mu.Lock()
	content := s.content
	s.mu.Unlock()

	result := s.renderer.Render(content)
	s.SetHeadings(result.Headings)
	return result
}

// SetHeadings replaces the heading outline. Called by the render pipeline,
// never by direct user action.
func (s *Session) SetHeadings(headings []markdown.Heading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.headings = append([]markdown.Heading(nil), headings...)
}

// Headings returns the current outline.
func (s *Session) Headings() []markdown.Heading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]markdown.Heading(nil), s.headings...)
}

// Save persists the document and then reloads the persisted draft so the
// in-memory state exactly matches what was durably written.
func (s *Session) Save() (string, error) {
	s.mu.Lock()
	content, fileName, draftID := s.content, cloneName(s.fileName), s.draftID
	s.mu.Unlock()

	id, err := s.store.Save(content, fileName, draftID)
	if err != nil {
		s.logger.Error("draft save failed", "error", err)
		return "", err
	}

	persisted, err := s.store.Load(id)
	if err != nil {
		s.logger.Warn("saved draft could not be reloaded", "draft_id", id, "error", err)
		s.mu.Lock()
		s.draftID = id
		s.saved = true
		s.mu.Unlock()
		return id, nil
	}

	s.mu.Lock()
	s.content = persisted.Content
	s.fileName = cloneName(persisted.FileName)
	s.draftID = persisted.ID
	s.selection = s.selection.clamp(utf8.RuneCountInString(persisted.Content))
	s.saved = true
	s.mu.Unlock()
	return id, nil
}

// LoadDraft replaces the session state with a stored draft. Unsaved edits
// must be confirmed away first.
func (s *Session) LoadDraft(id string) error {
	if err := s.guardDiscard(); err != nil {
		return err
	}
	draft, err := s.store.Load(id)
	if err != nil {
		if !errors.Is(err, drafts.ErrNotFound) {
			s.logger.Error("draft load failed", "draft_id", id, "error", err)
		}
		return err
	}
	s.adopt(draft)
	return nil
}

// RestoreLast reopens the draft recorded as current, or resets to a blank
// document when none exists.
func (s *Session) RestoreLast() error {
	draft, err := s.store.LoadLast()
	if err != nil {
		if errors.Is(err, drafts.ErrNoCurrent) || errors.Is(err, drafts.ErrNotFound) {
			s.reset()
			return nil
		}
		return err
	}
	s.adopt(draft)
	return nil
}

// NewDocument discards the session (guarded when unsaved), clears the
// current-draft pointer, and resets to the blank template.
func (s *Session) NewDocument() error {
	if err := s.guardDiscard(); err != nil {
		return err
	}
	s.store.ClearCurrentID()
	s.reset()
	return nil
}

// ScrollToHeading jumps the bound surface to a heading anchor.
func (s *Session) ScrollToHeading(id string) {
	s.mu.Lock()
	surface := s.surface
	s.mu.Unlock()
	if surface != nil {
		surface.ScrollToAnchor(id)
	}
}

func (s *Session) adopt(draft *drafts.Draft) {
	s.mu.Lock()
	previous := utf8.RuneCountInString(s.content)
	s.content = draft.Content
	s.fileName = cloneName(draft.FileName)
	s.draftID = draft.ID
	s.saved = true
	s.selection = Span{}
	s.headings = nil
	surface := s.surface
	s.mu.Unlock()

	if surface != nil {
		surface.ApplyEdit(Span{Start: 0, End: previous}, draft.Content)
	}
}

func (s *Session) reset() {
	s.mu.Lock()
	previous := utf8.RuneCountInString(s.content)
	s.content = blankTemplate
	s.fileName = nil
	s.draftID = ""
	s.saved = true
	s.selection = Span{}
	s.headings = nil
	surface := s.surface
	s.mu.Unlock()

	if surface != nil {
		surface.ApplyEdit(Span{Start: 0, End: previous}, blankTemplate)
	}
}

func (s *Session) guardDiscard() error {
	s.mu.Lock()
	unsaved := !s.saved
	confirm := s.confirm
	s.mu.Unlock()

	if !unsaved {
		return nil
	}
	if confirm != nil && !confirm("Discard unsaved changes?") {
		return ErrDiscardDeclined
	}
	return nil
}

func (s *Session) scheduleAutosave() {
	s.mu.Lock()
	enabled := s.autosaveEnabled
	schedule := s.autosave
	s.mu.Unlock()
	if enabled && schedule != nil {
		schedule(s.autosaveFire)
	}
}

// autosaveFire persists the live content at the moment the quiet period
// elapses, not a copy captured when typing happened. It silently does
// nothing while the document is saved or unnamed: autosave must never
// interrupt the user with a filename prompt.
func (s *Session) autosaveFire() {
	s.mu.Lock()
	if s.saved || s.fileName == nil {
		s.mu.Unlock()
		return
	}
	content, fileName, draftID := s.content, cloneName(s.fileName), s.draftID
	s.mu.Unlock()

	id, err := s.store.Save(content, fileName, draftID)
	if err != nil {
		s.logger.Warn("autosave failed", "error", err)
		return
	}

	s.mu.Lock()
	s.draftID = id
	if s.content == content {
		s.saved = true
	}
	s.mu.Unlock()
}

func cloneName(name *string) *string {
	if name == nil {
		return nil
	}
	v := *name
	return &v
}
