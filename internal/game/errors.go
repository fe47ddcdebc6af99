package game

import (
	"github.com/mroshb/quizline/pkg/errors"
)

var (
	// ErrEmptyCatalog means a round cannot begin because there is nothing to ask.
	ErrEmptyCatalog = errors.New(errors.ErrCodeEmptyCatalog, "no questions available")

	// ErrInvalidPrecondition means Advance was called on a session that is
	// no longer in progress. It is a protocol violation by the caller.
	ErrInvalidPrecondition = errors.New(errors.ErrCodeInvalidPrecondition, "session is not in progress")
)
