package groupid

import (
	"errors"
	"testing"

	"crab.casa/fooskill/apperrors"
	"crab.casa/fooskill/store"
)

func TestIssueThenDecodeRoundTrip(t *testing.T) {
	codec := NewCodec([]byte("super-secret-test-key"))

	token, err := codec.Issue(store.GroupID("group-42"))
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	gid, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if gid != store.GroupID("group-42") {
		t.Errorf("Decode = %v, want group-42", gid)
	}
}

func TestDecodeGarbageFails(t *testing.T) {
	codec := NewCodec([]byte("super-secret-test-key"))

	_, err := codec.Decode("not-a-real-token")
	if !errors.Is(err, apperrors.ErrInvalidGroupID) {
		t.Errorf("expected ErrInvalidGroupID, got %v", err)
	}
}

func TestDecodeWithWrongKeyFails(t *testing.T) {
	issuer := NewCodec([]byte("key-one"))
	verifier := NewCodec([]byte("key-two"))

	token, err := issuer.Issue(store.GroupID("group-1"))
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	_, err = verifier.Decode(token)
	if !errors.Is(err, apperrors.ErrInvalidGroupID) {
		t.Errorf("expected ErrInvalidGroupID for wrong key, got %v", err)
	}
}
