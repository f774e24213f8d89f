package drafts

import (
	"strings"
	"testing"
	"time"
)

func TestExportImportRoundTrip(t *testing.T) {
	modified := time.Date(2026, 8, 2, 9, 30, 0, 0, time.UTC)
	draft := &Draft{
		ID:           "file_notes-md_2026-08-02T09:30:00.000Z",
		Content:      "# Notes\n\nBody text.\n",
		LastModified: modified,
		FileName:     strptr("notes.md"),
	}

	exported := ExportDraft(draft)
	if !strings.HasPrefix(string(exported), "---\n") {
		t.Fatalf("expected frontmatter delimiter, got %q", exported)
	}

	imported, err := ImportDraft(exported, time.Now())
	if err != nil {
		t.Fatalf("ImportDraft: %v", err)
	}
	if imported.ID != draft.ID {
		t.Fatalf("id mismatch: %q", imported.ID)
	}
	if imported.Content != draft.Content {
		t.Fatalf("content mismatch: %q vs %q", imported.Content, draft.Content)
	}
	if imported.FileName == nil || *imported.FileName != "notes.md" {
		t.Fatalf("fileName mismatch: %#v", imported.FileName)
	}
	if !imported.LastModified.Equal(modified) {
		t.Fatalf("timestamp mismatch: %v", imported.LastModified)
	}
}

func TestImportDraft_MintsMissingID(t *testing.T) {
	now := time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC)
	source := []byte("---\nfileName: \"plan.md\"\n---\n\nsome body\n")

	imported, err := ImportDraft(source, now)
	if err != nil {
		t.Fatalf("ImportDraft: %v", err)
	}
	if !strings.HasPrefix(imported.ID, "file_") {
		t.Fatalf("expected minted filename-qualified id, got %q", imported.ID)
	}
	if imported.Content != "some body\n" {
		t.Fatalf("content mismatch: %q", imported.Content)
	}
}

func TestMintID(t *testing.T) {
	now := time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC)

	if got := MintID(nil, now); got != "draft_2026-08-02T10:00:00.000Z" {
		t.Fatalf("unnamed id mismatch: %q", got)
	}
	if got := MintID(strptr("My Doc.md"), now); !strings.HasPrefix(got, "file_") || !strings.HasSuffix(got, "_2026-08-02T10:00:00.000Z") {
		t.Fatalf("named id mismatch: %q", got)
	}
	if got := MintID(strptr("   "), now); got != "draft_2026-08-02T10:00:00.000Z" {
		t.Fatalf("blank name should mint an unnamed id, got %q", got)
	}
}
