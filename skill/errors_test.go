package skill

import (
	"errors"
	"testing"

	"crab.casa/fooskill/apperrors"
	"crab.casa/fooskill/mergeable"
	"crab.casa/fooskill/store"
)

func TestTranslateFindErrNotFound(t *testing.T) {
	err := mergeable.NotFoundError[store.UserID]{Index: store.UserID("u1")}
	if got := translateFindErr(err); !errors.Is(got, apperrors.ErrNotFound) {
		t.Errorf("translateFindErr(NotFoundError) = %v, want ErrNotFound", got)
	}
}

func TestTranslateFindErrNoParent(t *testing.T) {
	err := mergeable.NoParentError[store.UserID]{Index: store.UserID("u1")}
	if got := translateFindErr(err); !errors.Is(got, apperrors.ErrNoParent) {
		t.Errorf("translateFindErr(NoParentError) = %v, want ErrNoParent", got)
	}
}

func TestTranslateFindErrPassesThroughOther(t *testing.T) {
	other := errors.New("connection reset")
	if got := translateFindErr(other); got != other {
		t.Errorf("translateFindErr(other) = %v, want unchanged %v", got, other)
	}
}
