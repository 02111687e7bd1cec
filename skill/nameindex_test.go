package skill

import (
	"testing"

	"crab.casa/fooskill/store"
)

func TestNameIndexQueryRange(t *testing.T) {
	min, max := nameIndexQueryRange("Ali")
	if min != "[Ali" {
		t.Errorf("min = %q, want %q", min, "[Ali")
	}
	if max != "(Ali\x7f" {
		t.Errorf("max = %q, want %q", max, "(Ali\x7f")
	}
}

func TestNameIndexPrefixRange(t *testing.T) {
	min, max := nameIndexPrefixRange("Alice")
	if min != "[Alice:" {
		t.Errorf("min = %q, want %q", min, "[Alice:")
	}
	if max != "(Alice:\x7f" {
		t.Errorf("max = %q, want %q", max, "(Alice:\x7f")
	}
}

func TestValidateRosterRejectsEmptyTeam(t *testing.T) {
	if err := validateRoster(nil, []store.UserID{"l1"}); err == nil {
		t.Error("expected error for empty winner team")
	}
}

func TestValidateRosterRejectsOverlap(t *testing.T) {
	err := validateRoster([]store.UserID{"u1", "u2"}, []store.UserID{"u2"})
	if err == nil {
		t.Error("expected error when a user appears on both teams")
	}
}

func TestValidateRosterAcceptsDisjointTeams(t *testing.T) {
	err := validateRoster([]store.UserID{"u1"}, []store.UserID{"u2"})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
