package app

import (
	"errors"

	"github.com/okian/arena/internal/domain/identity"
)

// Sentinel kinds for contest operations. Every failure aborts the invoked
// operation; there is no partial commit.
var (
	// ErrNotFound reports a contest or entry lookup miss.
	ErrNotFound = errors.New("contest not found")

	// ErrInvalidState reports a time-window violation on submission, or a
	// premature or duplicate finalization.
	ErrInvalidState = errors.New("invalid contest state")

	// ErrUnauthorized reports a caller identity mismatch. It is the
	// identity collaborator's sentinel so both layers agree on errors.Is.
	ErrUnauthorized = identity.ErrUnauthorized
)
