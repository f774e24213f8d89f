package editor

import (
	"testing"
)

func commandSession(t *testing.T, content string, sel Span) *Session {
	t.Helper()
	session, _ := newTestSession(t)
	session.SetContent(content)
	session.SetSelection(sel)
	return session
}

func TestToggleBold(t *testing.T) {
	session := commandSession(t, "make this strong", Span{Start: 5, End: 9})

	session.ToggleBold()
	if got := session.Content(); got != "make **this** strong" {
		t.Fatalf("content = %q", got)
	}
	if sel := session.Selection(); sel.Len() != 8 {
		t.Fatalf("selection = %+v, want the wrapped text", sel)
	}

	// Toggling the wrapped selection strips the markers again.
	session.ToggleBold()
	if got := session.Content(); got != "make this strong" {
		t.Fatalf("content after unwrap = %q", got)
	}
}

func TestToggleItalicAndCode(t *testing.T) {
	session := commandSession(t, "word", Span{Start: 0, End: 4})
	session.ToggleItalic()
	if got := session.Content(); got != "*word*" {
		t.Fatalf("content = %q", got)
	}

	session = commandSession(t, "word", Span{Start: 0, End: 4})
	session.ToggleInlineCode()
	if got := session.Content(); got != "`word`" {
		t.Fatalf("content = %q", got)
	}
}

func TestToggleUnorderedList(t *testing.T) {
	session := commandSession(t, "one\ntwo\nthree", Span{Start: 0, End: 13})

	session.ToggleUnorderedList()
	if got := session.Content(); got != "- one\n- two\n- three" {
		t.Fatalf("content = %q", got)
	}

	session.ToggleUnorderedList()
	if got := session.Content(); got != "one\ntwo\nthree" {
		t.Fatalf("content after untoggle = %q", got)
	}
}

func TestToggleBlockquotePartialSelectionExpandsToLines(t *testing.T) {
	// Caret in the middle of the second line.
	session := commandSession(t, "alpha\nbeta\ngamma", Span{Start: 8, End: 8})

	session.ToggleBlockquote()
	if got := session.Content(); got != "alpha\n> beta\ngamma" {
		t.Fatalf("content = %q", got)
	}
}

func TestSetHeading(t *testing.T) {
	session := commandSession(t, "Title", Span{Start: 0, End: 0})

	session.SetHeading(2)
	if got := session.Content(); got != "## Title" {
		t.Fatalf("content = %q", got)
	}

	session.SetHeading(3)
	if got := session.Content(); got != "### Title" {
		t.Fatalf("re-leveled content = %q", got)
	}

	session.SetHeading(0)
	if got := session.Content(); got != "Title" {
		t.Fatalf("demoted content = %q", got)
	}
}

func TestToggleCodeBlock(t *testing.T) {
	session := commandSession(t, "let x = 1\nlet y = 2", Span{Start: 0, End: 19})

	session.ToggleCodeBlock()
	if got := session.Content(); got != "```\nlet x = 1\nlet y = 2\n```" {
		t.Fatalf("content = %q", got)
	}

	session.SetSelection(Span{Start: 0, End: 27})
	session.ToggleCodeBlock()
	if got := session.Content(); got != "let x = 1\nlet y = 2" {
		t.Fatalf("unfenced content = %q", got)
	}
}

func TestInsertLink(t *testing.T) {
	session := commandSession(t, "see the docs here", Span{Start: 8, End: 12})

	session.InsertLink("", "https://example.com")
	if got := session.Content(); got != "see the [docs](https://example.com) here" {
		t.Fatalf("content = %q", got)
	}

	session = commandSession(t, "", Span{})
	session.InsertLink("", "https://example.com")
	if got := session.Content(); got != "[https://example.com](https://example.com)" {
		t.Fatalf("content = %q", got)
	}
}

func TestCommandsMarkUnsavedAndMirrorToSurface(t *testing.T) {
	surface := &fakeSurface{selection: Span{Start: 0, End: 4}}
	session, _ := newTestSession(t, WithSurface(surface))
	session.SetContent("word")
	if _, err := session.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	session.ToggleBold()
	if session.Saved() {
		t.Fatalf("formatting must flip the saved flag")
	}
	if len(surface.edits) == 0 || surface.edits[len(surface.edits)-1] != "**word**" {
		t.Fatalf("surface edits = %v", surface.edits)
	}
}
