// Package apperrors defines the closed set of sentinel errors the skill
// service can return, and how they map onto HTTP status codes. HTTPStatus
// matches them with errors.Is, so they may be returned as-is or wrapped
// (fmt.Errorf("%w", ...), errors.Join) and still map to the same code.
package apperrors

import "errors"

// Business errors, surfaced verbatim to callers (spec.md §7 propagation
// policy). Watched-key contention is retried inside package txn and never
// reaches callers; other store and decode errors come back either as
// ErrStore or as the driver's own error, and HTTPStatus maps both to 500.
var (
	ErrNotFound          = errors.New("not found")
	ErrNoParent          = errors.New("union-find node references a missing parent")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNameTooShort  = errors.New("user name too short")
	ErrInvalidGroupID    = errors.New("invalid group id")
	ErrStore             = errors.New("store error")

	// ErrInvalidGame guards the Game data-model invariant (spec.md §3: both
	// id lists non-empty, intersection empty) at the service boundary rather
	// than letting a malformed game reach the store.
	ErrInvalidGame = errors.New("invalid game: winner and loser lists must be non-empty and disjoint")
)

// HTTPStatus maps a sentinel error to the status code from spec.md §6's
// table. Unrecognized errors (including ErrStore, ErrNoParent, and anything
// from the store driver that wasn't translated) fall through to 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUserAlreadyExists):
		return 409
	case errors.Is(err, ErrUserNameTooShort):
		return 400
	case errors.Is(err, ErrInvalidGroupID):
		return 400
	case errors.Is(err, ErrInvalidGame):
		return 400
	case errors.Is(err, ErrNotFound):
		return 404
	default:
		return 500
	}
}
