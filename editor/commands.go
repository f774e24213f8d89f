package editor

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Formatting commands act on the selection reported by the bound surface,
// but the resulting text always flows back through SetContent so counts and
// the saved flag stay correct. The surface is the editing instrument; the
// session remains the source of truth.

// ToggleBold wraps or unwraps the selection in strong emphasis markers.
func (s *Session) ToggleBold() { s.toggleInline("**") }

// ToggleItalic wraps or unwraps the selection in emphasis markers.
func (s *Session) ToggleItalic() { s.toggleInline("*") }

// ToggleInlineCode wraps or unwraps the selection in backticks.
func (s *Session) ToggleInlineCode() { s.toggleInline("`") }

// ToggleUnorderedList adds or removes list markers on the selected lines.
func (s *Session) ToggleUnorderedList() { s.toggleLinePrefix("- ") }

// ToggleBlockquote adds or removes quote markers on the selected lines.
func (s *Session) ToggleBlockquote() { s.toggleLinePrefix("> ") }

// SetHeading sets the heading level of the current line; level 0 demotes it
// back to a paragraph.
func (s *Session) SetHeading(level int) {
	if level < 0 {
		level = 0
	}
	if level > 6 {
		level = 6
	}
	span, lines := s.selectedLines()
	for i, line := range lines {
		stripped := strings.TrimLeft(line, "#")
		stripped = strings.TrimPrefix(stripped, " ")
		if level == 0 {
			lines[i] = stripped
			continue
		}
		lines[i] = strings.Repeat("#", level) + " " + stripped
	}
	s.replaceSpan(span, strings.Join(lines, "\n"))
}

// ToggleCodeBlock fences or unfences the selected lines.
func (s *Session) ToggleCodeBlock() {
	span, lines := s.selectedLines()
	if len(lines) >= 2 && strings.HasPrefix(lines[0], "```") && lines[len(lines)-1] == "```" {
		lines = lines[1 : len(lines)-1]
	} else {
		fenced := make([]string, 0, len(lines)+2)
		fenced = append(fenced, "```")
		fenced = append(fenced, lines...)
		fenced = append(fenced, "```")
		lines = fenced
	}
	s.replaceSpan(span, strings.Join(lines, "\n"))
}

// InsertLink replaces the selection with a Markdown link. When text is empty
// the selected text becomes the label, falling back to the URL itself.
func (s *Session) InsertLink(text, url string) {
	span := s.currentSelection()
	if text == "" {
		text = s.selectedText(span)
	}
	if text == "" {
		text = url
	}
	s.replaceSpan(span, fmt.Sprintf("[%s](%s)", text, url))
}

func (s *Session) toggleInline(marker string) {
	span := s.currentSelection()
	selected := s.selectedText(span)

	markerLen := utf8.RuneCountInString(marker)
	wrapped := utf8.RuneCountInString(selected) >= 2*markerLen &&
		strings.HasPrefix(selected, marker) &&
		strings.HasSuffix(selected, marker)

	var replacement string
	if wrapped {
		replacement = strings.TrimSuffix(strings.TrimPrefix(selected, marker), marker)
	} else {
		replacement = marker + selected + marker
	}
	s.replaceSpan(span, replacement)
}

func (s *Session) toggleLinePrefix(prefix string) {
	span, lines := s.selectedLines()

	prefixed := true
	for _, line := range lines {
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, prefix) {
			prefixed = false
			break
		}
	}

	for i, line := range lines {
		if line == "" {
			continue
		}
		if prefixed {
			lines[i] = strings.TrimPrefix(line, prefix)
		} else {
			lines[i] = prefix + line
		}
	}
	s.replaceSpan(span, strings.Join(lines, "\n"))
}

// currentSelection prefers the live selection reported by the surface over
// the last recorded one.
func (s *Session) currentSelection() Span {
	s.mu.Lock()
	surface := s.surface
	fallback := s.selection
	n := utf8.RuneCountInString(s.content)
	s.mu.Unlock()

	if surface != nil {
		return surface.Selection().clamp(n)
	}
	return fallback.clamp(n)
}

func (s *Session) selectedText(span Span) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	runes := []rune(s.content)
	span = span.clamp(len(runes))
	return string(runes[span.Start:span.End])
}

// selectedLines expands the current selection to whole-line boundaries and
// returns the widened span together with the covered lines.
func (s *Session) selectedLines() (Span, []string) {
	span := s.currentSelection()

	s.mu.Lock()
	runes := []rune(s.content)
	s.mu.Unlock()

	span = span.clamp(len(runes))
	start := span.Start
	for start > 0 && runes[start-1] != '\n' {
		start--
	}
	end := span.End
	for end < len(runes) && runes[end] != '\n' {
		end++
	}
	widened := Span{Start: start, End: end}
	return widened, strings.Split(string(runes[start:end]), "\n")
}

// replaceSpan splices text over the span, mirrors the edit on the bound
// surface, routes the result through SetContent, and leaves the selection
// covering the inserted text.
func (s *Session) replaceSpan(span Span, text string) {
	s.mu.Lock()
	runes := []rune(s.content)
	span = span.clamp(len(runes))
	next := string(runes[:span.Start]) + text + string(runes[span.End:])
	surface := s.surface
	s.mu.Unlock()

	if surface != nil {
		surface.ApplyEdit(span, text)
	}
	s.SetContent(next)
	s.SetSelection(Span{Start: span.Start, End: span.Start + utf8.RuneCountInString(text)})
}
