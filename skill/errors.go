package skill

import (
	"errors"

	"crab.casa/fooskill/apperrors"
	"crab.casa/fooskill/mergeable"
	"crab.casa/fooskill/store"
)

// translateFindErr maps mergeable's generic forest errors onto the closed
// business taxonomy the HTTP layer understands. Everything else (decode
// failures, connection errors) passes through unchanged.
func translateFindErr(err error) error {
	var notFound mergeable.NotFoundError[store.UserID]
	if errors.As(err, &notFound) {
		return apperrors.ErrNotFound
	}
	var noParent mergeable.NoParentError[store.UserID]
	if errors.As(err, &noParent) {
		return apperrors.ErrNoParent
	}
	return err
}
