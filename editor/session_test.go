package editor

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-markpad/drafts"
	"github.com/goliatone/go-markpad/internal/runtimeconfig"
	"github.com/goliatone/go-markpad/markdown"
	"github.com/goliatone/go-markpad/scrollsync"
)

func strptr(s string) *string { return &s }

func newTestSession(t *testing.T, opts ...SessionOption) (*Session, drafts.Store) {
	t.Helper()
	cfg := runtimeconfig.DefaultConfig()
	store := drafts.NewKVStore(drafts.NewMemoryKV(), cfg.Storage)
	renderer := markdown.NewRenderer(cfg.Markdown)
	session := NewSession(store, renderer, runtimeconfig.AutosaveConfig{}, opts...)
	return session, store
}

// fakeSurface records edits and replays the session's view of the buffer.
type fakeSurface struct {
	selection Span
	edits     []string
	anchors   []string
}

func (f *fakeSurface) Selection() Span { return f.selection }

func (f *fakeSurface) ApplyEdit(span Span, text string) {
	f.edits = append(f.edits, text)
}

func (f *fakeSurface) ScrollInfo() scrollsync.ScrollInfo { return scrollsync.ScrollInfo{} }

func (f *fakeSurface) ScrollToFraction(float64) {}

func (f *fakeSurface) ScrollToAnchor(id string) {
	f.anchors = append(f.anchors, id)
}

func TestStatsCounts(t *testing.T) {
	session, _ := newTestSession(t)

	session.SetContent("a b  c")
	stats := session.Stats()
	if stats.Words != 3 || stats.Characters != 6 {
		t.Fatalf("Stats() = %+v, want 3 words and 6 characters", stats)
	}

	session.SetContent("")
	stats = session.Stats()
	if stats.Words != 0 || stats.Characters != 0 {
		t.Fatalf("Stats() for empty content = %+v, want zeros", stats)
	}
}

func TestSetContentFlipsSavedFlag(t *testing.T) {
	session, _ := newTestSession(t)

	if !session.Saved() {
		t.Fatalf("new session should start saved")
	}
	session.SetContent("# Hello")
	if session.Saved() {
		t.Fatalf("SetContent should mark the session unsaved")
	}
}

func TestRenderRefreshesHeadings(t *testing.T) {
	session, _ := newTestSession(t)

	session.SetContent("# One\n\n## Two\n")
	if len(session.Headings()) != 0 {
		t.Fatalf("SetContent must not touch headings before a render")
	}

	result := session.Render()
	headings := session.Headings()
	if len(headings) != 2 || headings[0].ID != "one" || headings[1].ID != "two" {
		t.Fatalf("headings after render = %+v", headings)
	}
	if !strings.Contains(result.HTML, `id="one"`) {
		t.Fatalf("rendered HTML missing heading anchor: %s", result.HTML)
	}
}

func TestSaveReloadsPersistedState(t *testing.T) {
	session, store := newTestSession(t)

	session.SetContent("saved body")
	session.SetFileName(strptr("notes.md"))

	id, err := session.Save()
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if !session.Saved() {
		t.Fatalf("session should be saved after Save()")
	}
	if session.DraftID() != id {
		t.Fatalf("DraftID() = %q, want %q", session.DraftID(), id)
	}

	draft, err := store.Load(id)
	if err != nil {
		t.Fatalf("store.Load(%q) error: %v", id, err)
	}
	if draft.Content != "saved body" {
		t.Fatalf("persisted content = %q", draft.Content)
	}
	if session.Content() != draft.Content {
		t.Fatalf("session content diverged from persisted draft")
	}
}

func TestSaveExistingDraftKeepsID(t *testing.T) {
	session, _ := newTestSession(t)

	session.SetContent("v1")
	first, err := session.Save()
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	session.SetContent("v2")
	second, err := session.Save()
	if err != nil {
		t.Fatalf("second Save() error: %v", err)
	}
	if first != second {
		t.Fatalf("resaving minted a new id: %q then %q", first, second)
	}
	if session.Content() != "v2" {
		t.Fatalf("content after resave = %q", session.Content())
	}
}

func TestLoadDraftAdoptsState(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	store := drafts.NewKVStore(drafts.NewMemoryKV(), cfg.Storage)

	id, err := store.Save("stored text", strptr("plan.md"), "")
	if err != nil {
		t.Fatalf("seeding store: %v", err)
	}

	surface := &fakeSurface{}
	session := NewSession(store, markdown.NewRenderer(cfg.Markdown), runtimeconfig.AutosaveConfig{}, WithSurface(surface))

	if err := session.LoadDraft(id); err != nil {
		t.Fatalf("LoadDraft() error: %v", err)
	}
	if session.Content() != "stored text" {
		t.Fatalf("content = %q", session.Content())
	}
	if name := session.FileName(); name == nil || *name != "plan.md" {
		t.Fatalf("fileName = %v, want plan.md", name)
	}
	if !session.Saved() {
		t.Fatalf("loaded draft should be saved")
	}
	if sel := session.Selection(); sel != (Span{}) {
		t.Fatalf("selection = %+v, want empty at start", sel)
	}
	if len(surface.edits) != 1 || surface.edits[0] != "stored text" {
		t.Fatalf("surface edits = %v", surface.edits)
	}
}

func TestLoadDraftUnknownID(t *testing.T) {
	session, _ := newTestSession(t)

	err := session.LoadDraft("draft_2001-01-01T00:00:00.000Z")
	if !errors.Is(err, drafts.ErrNotFound) {
		t.Fatalf("LoadDraft() error = %v, want ErrNotFound", err)
	}
}

func TestDiscardGuard(t *testing.T) {
	approve := false
	session, _ := newTestSession(t, WithConfirm(func(string) bool { return approve }))

	session.SetContent("unsaved work")
	if err := session.NewDocument(); !errors.Is(err, ErrDiscardDeclined) {
		t.Fatalf("NewDocument() error = %v, want ErrDiscardDeclined", err)
	}
	if session.Content() != "unsaved work" {
		t.Fatalf("declined discard mutated content: %q", session.Content())
	}

	approve = true
	if err := session.NewDocument(); err != nil {
		t.Fatalf("NewDocument() after approval: %v", err)
	}
	if session.Content() != blankTemplate {
		t.Fatalf("content = %q, want blank template", session.Content())
	}
	if !session.Saved() {
		t.Fatalf("blank document should start saved")
	}
}

func TestNewDocumentClearsCurrentPointer(t *testing.T) {
	session, store := newTestSession(t)

	session.SetContent("body")
	if _, err := session.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, ok := store.CurrentID(); !ok {
		t.Fatalf("save should set the current pointer")
	}

	if err := session.NewDocument(); err != nil {
		t.Fatalf("NewDocument() error: %v", err)
	}
	if _, ok := store.CurrentID(); ok {
		t.Fatalf("NewDocument should clear the current pointer")
	}
}

func TestRestoreLast(t *testing.T) {
	session, store := newTestSession(t)

	session.SetContent("persisted")
	if _, err := session.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	fresh := NewSession(store, markdown.NewRenderer(runtimeconfig.DefaultConfig().Markdown), runtimeconfig.AutosaveConfig{})
	if err := fresh.RestoreLast(); err != nil {
		t.Fatalf("RestoreLast() error: %v", err)
	}
	if fresh.Content() != "persisted" {
		t.Fatalf("restored content = %q", fresh.Content())
	}
}

func TestRestoreLastWithoutCurrent(t *testing.T) {
	session, _ := newTestSession(t)

	session.SetContent("scratch")
	if err := session.RestoreLast(); err != nil {
		t.Fatalf("RestoreLast() error: %v", err)
	}
	if session.Content() != blankTemplate {
		t.Fatalf("content = %q, want blank template", session.Content())
	}
}

func TestAutosaveSkipsUnnamedAndSaved(t *testing.T) {
	var pending func()
	scheduler := func(fn func()) { pending = fn }

	session, store := newTestSession(t, withAutosaveScheduler(scheduler))

	session.SetContent("unnamed work")
	if pending == nil {
		t.Fatalf("SetContent should schedule autosave")
	}
	pending()
	if len(store.List()) != 0 {
		t.Fatalf("autosave persisted an unnamed draft")
	}
	if session.Saved() {
		t.Fatalf("skipped autosave must not flip the saved flag")
	}

	session.SetFileName(strptr("notes.md"))
	pending()
	if len(store.List()) != 1 {
		t.Fatalf("autosave should persist once a filename exists")
	}
	if !session.Saved() {
		t.Fatalf("autosave should mark the session saved")
	}

	// Already saved: firing again must not write.
	before := store.List()[0].LastModified
	pending()
	if got := store.List()[0].LastModified; !got.Equal(before) {
		t.Fatalf("autosave rewrote a saved draft")
	}
}

func TestAutosaveUsesLiveContent(t *testing.T) {
	var pending func()
	session, store := newTestSession(t, withAutosaveScheduler(func(fn func()) { pending = fn }))

	session.SetFileName(strptr("live.md"))
	session.SetContent("first")
	session.SetContent("final")
	pending()

	listed := store.List()
	if len(listed) != 1 || listed[0].Content != "final" {
		t.Fatalf("autosave persisted %+v, want the live content %q", listed, "final")
	}
}

func TestScrollToHeading(t *testing.T) {
	surface := &fakeSurface{}
	session, _ := newTestSession(t, WithSurface(surface))

	session.ScrollToHeading("usage")
	if len(surface.anchors) != 1 || surface.anchors[0] != "usage" {
		t.Fatalf("anchors = %v", surface.anchors)
	}
}
