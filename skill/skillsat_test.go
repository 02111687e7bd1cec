package skill

import (
	"testing"
	"time"

	"crab.casa/fooskill/player"
	"crab.casa/fooskill/store"
)

func TestSkillsAtProjectsEveryUser(t *testing.T) {
	now := time.Now().UTC()
	users := []store.User{
		{ID: "u1", Name: "Alice", Player: player.Default(now)},
		{ID: "u2", Name: "Bob", Player: player.Default(now)},
	}

	msgs, err := skillsAt(users, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
}

func TestSkillsAtFailsOnFutureStoredTime(t *testing.T) {
	now := time.Now().UTC()
	users := []store.User{
		{ID: "u1", Name: "Alice", Player: player.Default(now)},
	}

	_, err := skillsAt(users, now.Add(-time.Hour))
	if err == nil {
		t.Fatal("expected an error when query time precedes stored fit time")
	}
}
