package editor

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const suggestionValidationCode = "SUGGESTION_VALIDATION_FAILED"

// ErrDiscardDeclined is returned when an operation would drop unsaved
// changes and the confirmation callback withheld approval.
var ErrDiscardDeclined = errors.New("editor: unsaved changes kept")

func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "suggestion validation failed").
		WithTextCode(suggestionValidationCode)
}
