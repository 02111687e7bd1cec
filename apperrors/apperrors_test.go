package apperrors

import (
	"errors"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrUserAlreadyExists, 409},
		{ErrUserNameTooShort, 400},
		{ErrInvalidGroupID, 400},
		{ErrInvalidGame, 400},
		{ErrNotFound, 404},
		{ErrNoParent, 500},
		{ErrStore, 500},
		{errors.New("some unrelated store driver error"), 500},
	}

	for _, c := range cases {
		if got := HTTPStatus(c.err); got != c.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestHTTPStatusUnwrapsSentinel(t *testing.T) {
	wrapped := errors.New("wrapping check")
	wrapped = errors.Join(wrapped, ErrNotFound)

	if got := HTTPStatus(wrapped); got != 404 {
		t.Errorf("HTTPStatus(joined) = %d, want 404", got)
	}
}
