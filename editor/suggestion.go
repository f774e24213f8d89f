package editor

import (
	"errors"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-markpad/diffview"
	"github.com/goliatone/go-markpad/internal/runtimeconfig"
)

// Suggestion is a proposed edit from an external collaborator. A nil Range
// means "replace the whole document"; otherwise Replacement is spliced over
// the [Start,End) rune range.
type Suggestion struct {
	ID          uuid.UUID `json:"id"`
	Range       *Span     `json:"range,omitempty"`
	Replacement string    `json:"replacement"`
}

// NewSuggestion mints a suggestion with a fresh identifier.
func NewSuggestion(rng *Span, replacement string) Suggestion {
	var cloned *Span
	if rng != nil {
		v := *rng
		cloned = &v
	}
	return Suggestion{ID: uuid.New(), Range: cloned, Replacement: replacement}
}

// Validate checks the suggestion's structural invariants.
func (sg Suggestion) Validate() error {
	err := validation.ValidateStruct(&sg,
		validation.Field(&sg.ID, validation.By(requireSuggestionID)),
		validation.Field(&sg.Range, validation.By(validSuggestionRange)),
	)
	return wrapValidationError(err)
}

func requireSuggestionID(value interface{}) error {
	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return errors.New("must be a non-zero identifier")
	}
	return nil
}

func validSuggestionRange(value interface{}) error {
	span, ok := value.(*Span)
	if !ok || span == nil {
		return nil
	}
	if span.Start < 0 || span.End < span.Start {
		return errors.New("must be an ordered, non-negative range")
	}
	return nil
}

// ApplySuggestion splices the replacement into the document through the
// regular content path, so the saved flag and counters update exactly as
// they would for a manual edit.
func (s *Session) ApplySuggestion(sg Suggestion) error {
	if err := sg.Validate(); err != nil {
		return err
	}
	s.replaceSpan(s.suggestionSpan(sg), sg.Replacement)
	return nil
}

// PreviewSuggestion renders a line diff between the current content and the
// content the suggestion would produce, without mutating the session.
func (s *Session) PreviewSuggestion(sg Suggestion) (string, error) {
	if err := sg.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	content := s.content
	diff := s.diff
	s.mu.Unlock()

	span := s.suggestionSpan(sg)
	runes := []rune(content)
	span = span.clamp(len(runes))
	proposed := string(runes[:span.Start]) + sg.Replacement + string(runes[span.End:])

	if diff == nil {
		diff = diffview.NewRenderer(runtimeconfig.DefaultConfig().Diff)
	}
	return diff.Render(content, proposed), nil
}

func (s *Session) suggestionSpan(sg Suggestion) Span {
	s.mu.Lock()
	n := utf8.RuneCountInString(s.content)
	s.mu.Unlock()

	if sg.Range == nil {
		return Span{Start: 0, End: n}
	}
	return sg.Range.clamp(n)
}
