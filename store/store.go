// Package store holds the entities persisted per group, their Redis key
// layout, and the read-through/write-back union-find context (§4.5 of
// SPEC_FULL.md) that binds the mergeable primitive to a Redis transaction.
package store

import (
	"time"

	"crab.casa/fooskill/mergeable"
	"crab.casa/fooskill/player"
)

// GroupID names a logical namespace. All keys for a group live under
// "group:{id}".
type GroupID string

// UserID and GameID are opaque identifiers supplied by the caller (or
// generated with uuid.NewString() by the HTTP layer when absent).
type UserID string
type GameID string

// User is an immutable identity plus a mutable Player. Created once per
// group when a player is first introduced; never deleted.
type User struct {
	ID     UserID        `json:"id"`
	Name   string        `json:"name"`
	Player player.Player `json:"player"`
}

// UserNode is the forest node wrapping a User, keyed by UserID.
type UserNode = mergeable.Node[UserID, User]

// GameV0 is the version-0 shape of a persisted game.
type GameV0 struct {
	ID        GameID    `json:"id"`
	Datetime  time.Time `json:"datetime"`
	WinnerIDs []UserID  `json:"winner_ids"`
	LoserIDs  []UserID  `json:"loser_ids"`
}

// Game is the versioned wrapper around GameV0, tagged the same way as a
// mergeable node (spec.md §9: "the same tagging applies to Game on disk").
type Game struct {
	V0 GameV0 `json:"V0"`
}

// NewGame wraps the given fields as a version-0 Game.
func NewGame(id GameID, datetime time.Time, winnerIDs, loserIDs []UserID) Game {
	return Game{V0: GameV0{ID: id, Datetime: datetime, WinnerIDs: winnerIDs, LoserIDs: loserIDs}}
}

// --- key layout, mirroring SPEC_FULL.md §6 / spec.md §6 exactly ---

func groupPrefix(g GroupID) string {
	return "group:" + string(g)
}

func UserIDSetKey(g GroupID) string {
	return groupPrefix(g) + ":user.id"
}

func UserNameIndexKey(g GroupID) string {
	return groupPrefix(g) + ":user.name.index"
}

func UserKey(g GroupID, id UserID) string {
	return groupPrefix(g) + ":user:" + string(id)
}

func UserGamesKey(g GroupID, id UserID) string {
	return groupPrefix(g) + ":user.games:" + string(id)
}

func GameKey(g GroupID, id GameID) string {
	return groupPrefix(g) + ":game:" + string(id)
}

func GamesKey(g GroupID) string {
	return groupPrefix(g) + ":games"
}
