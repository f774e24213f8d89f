package markpad

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func memoryConfig() Config {
	cfg := DefaultConfig()
	cfg.Storage.Backend = "memory"
	return cfg
}

func TestNewModuleWiresComponents(t *testing.T) {
	module, err := New(memoryConfig())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if module.Markdown() == nil || module.Drafts() == nil || module.Diff() == nil {
		t.Fatalf("module left a component nil")
	}
}

func TestNewModuleHonorsNoopProvider(t *testing.T) {
	cfg := memoryConfig()
	cfg.Logging.Provider = "noop"

	module, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	session := module.NewSession(nil, nil)
	session.SetContent("# Quiet\n")
	if !strings.Contains(session.Render().HTML, `id="quiet"`) {
		t.Fatalf("module with noop logging failed to render")
	}
}

func TestNewModuleRejectsInvalidConfig(t *testing.T) {
	cfg := memoryConfig()
	cfg.Storage.Backend = "cassette"
	if _, err := New(cfg); !errors.Is(err, ErrStorageBackendUnknown) {
		t.Fatalf("New() error = %v, want ErrStorageBackendUnknown", err)
	}
}

func TestModuleRenderAndPersistRoundTrip(t *testing.T) {
	module, err := New(memoryConfig())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	session := module.NewSession(nil, nil)
	session.SetContent("# Trip Notes\n\nPack *light*.\n")

	result := session.Render()
	if !strings.Contains(result.HTML, `id="trip-notes"`) {
		t.Fatalf("rendered HTML missing heading anchor: %s", result.HTML)
	}

	id, err := session.Save()
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	draft, err := module.Drafts().Load(id)
	if err != nil {
		t.Fatalf("Drafts().Load(%q) error: %v", id, err)
	}
	if draft.Content != session.Content() {
		t.Fatalf("persisted content diverged from the session")
	}
}

func TestModuleFileBackend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "drafts.json")

	module, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	id, err := module.Drafts().Save("persisted body", nil, "")
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	reopened, err := New(cfg)
	if err != nil {
		t.Fatalf("reopening module: %v", err)
	}
	draft, err := reopened.Drafts().Load(id)
	if err != nil {
		t.Fatalf("Load(%q) after reopen: %v", id, err)
	}
	if draft.Content != "persisted body" {
		t.Fatalf("content = %q", draft.Content)
	}
}

func TestModuleErrorReexports(t *testing.T) {
	module, err := New(memoryConfig())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, err := module.Drafts().Load("draft_1999-01-01T00:00:00.000Z"); !errors.Is(err, ErrDraftNotFound) {
		t.Fatalf("Load() error = %v, want ErrDraftNotFound", err)
	}
	if _, err := module.Drafts().LoadLast(); !errors.Is(err, ErrNoCurrentDraft) {
		t.Fatalf("LoadLast() error = %v, want ErrNoCurrentDraft", err)
	}
}

func TestModuleDiff(t *testing.T) {
	module, err := New(memoryConfig())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	html := module.Diff().Render("a\nb", "a\nc")
	for _, class := range []string{"diff-unchanged", "diff-removed", "diff-added"} {
		if !strings.Contains(html, class) {
			t.Fatalf("diff output missing %s: %s", class, html)
		}
	}
}
