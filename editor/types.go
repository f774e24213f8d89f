package editor

import (
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-markpad/scrollsync"
)

// Span is a selection range in rune offsets, half open: Start is inclusive,
// End exclusive. A caret with no selection has Start == End.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// IsCaret reports whether the span selects no text.
func (s Span) IsCaret() bool { return s.Start == s.End }

// Len returns the number of runes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// clamp normalizes the span against content of n runes: offsets are bounded
// to [0,n] and Start never exceeds End.
func (s Span) clamp(n int) Span {
	if s.Start < 0 {
		s.Start = 0
	}
	if s.End < 0 {
		s.End = 0
	}
	if s.Start > n {
		s.Start = n
	}
	if s.End > n {
		s.End = n
	}
	if s.Start > s.End {
		s.Start, s.End = s.End, s.Start
	}
	return s
}

// Surface is the capability a host text widget exposes to the session. The
// session never reaches into widget internals; it observes the selection and
// mirrors edits through ApplyEdit. Any concrete widget that can satisfy this
// interface can host a session.
type Surface interface {
	Selection() Span
	// ApplyEdit replaces the span with text in the widget's buffer.
	ApplyEdit(span Span, text string)
	ScrollInfo() scrollsync.ScrollInfo
	ScrollToFraction(fraction float64)
	ScrollToAnchor(id string)
}

// Stats are the live document counters shown in the editor status bar.
type Stats struct {
	Words      int `json:"words"`
	Characters int `json:"characters"`
}

func statsFor(content string) Stats {
	return Stats{
		Words:      len(strings.Fields(content)),
		Characters: utf8.RuneCountInString(content),
	}
}
