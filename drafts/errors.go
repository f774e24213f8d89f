package drafts

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrNotFound reports an unknown draft id. Callers decide user messaging.
	ErrNotFound = errors.New("drafts: draft not found")
	// ErrNoCurrent reports an unset or dangling current-draft pointer.
	ErrNoCurrent = errors.New("drafts: no current draft")
)

const (
	draftWriteFailed = "DRAFT_STORAGE_WRITE_FAILED"
	draftReadFailed  = "DRAFT_STORAGE_READ_FAILED"
)

// wrapWriteError categorizes an underlying storage write failure. Sentinels
// and already-wrapped errors pass through untouched.
func wrapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "draft storage write failed").
		WithTextCode(draftWriteFailed)
}

func wrapReadError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "draft storage read failed").
		WithTextCode(draftReadFailed)
}
