// Package skill implements the public skill-rating operations (spec.md
// §4.7): create/read/query users, list/read games, the leaderboard, and the
// create_game write path that fuses the union-find primitive, the store
// context, and the TrueSkill kernel under one transaction.
package skill

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"crab.casa/fooskill/apperrors"
	"crab.casa/fooskill/mergeable"
	"crab.casa/fooskill/message"
	"crab.casa/fooskill/player"
	"crab.casa/fooskill/store"
	"crab.casa/fooskill/trueskill"
	"crab.casa/fooskill/txn"
)

// Service is the public entry point onto the core. One Service per process;
// it holds no per-request state, only the Redis client and the configured
// TrueSkill estimator.
type Service struct {
	redis *redis.Client
	ts    trueskill.TrueSkill
}

// New builds a Service against client, deriving its TrueSkill parameters
// from the default player prior (spec.md §3: μ=25.0, σ=25/3).
func New(client *redis.Client) *Service {
	return &Service{
		redis: client,
		ts:    trueskill.New(player.DefaultSigma()),
	}
}

// CreateUser implements spec.md §4.7's create_user.
func (s *Service) CreateUser(ctx context.Context, group store.GroupID, userID store.UserID, name string) (store.User, error) {
	if len(name) < 3 {
		return store.User{}, apperrors.ErrUserNameTooShort
	}

	return txn.Commit(ctx, s.redis, func(ctx context.Context, tx *redis.Tx) (store.User, error) {
		userKey := store.UserKey(group, userID)
		if err := tx.Watch(ctx, userKey).Err(); err != nil {
			return store.User{}, err
		}

		min, max := nameIndexPrefixRange(name)
		existing, err := tx.ZRangeByLex(ctx, store.UserNameIndexKey(group), &redis.ZRangeBy{
			Min: min, Max: max, Count: 1,
		}).Result()
		if err != nil {
			return store.User{}, err
		}
		if len(existing) > 0 {
			return store.User{}, apperrors.ErrUserAlreadyExists
		}

		now := time.Now().UTC()
		user := store.User{ID: userID, Name: name, Player: player.Default(now)}
		node := mergeable.New(userID, user)

		data, err := json.Marshal(node)
		if err != nil {
			return store.User{}, err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, userKey, data, 0)
			pipe.ZAdd(ctx, store.UserNameIndexKey(group), redis.Z{Score: 0, Member: name + ":" + string(userID)})
			pipe.SAdd(ctx, store.UserIDSetKey(group), string(userID))
			return nil
		})
		if err != nil {
			return store.User{}, err
		}

		return user, nil
	})
}

// CreateGame implements spec.md §4.8's create_game protocol.
func (s *Service) CreateGame(ctx context.Context, group store.GroupID, gameID store.GameID, winnerIDs, loserIDs []store.UserID, atTime time.Time) (store.Game, error) {
	if err := validateRoster(winnerIDs, loserIDs); err != nil {
		return store.Game{}, err
	}

	return txn.Commit(ctx, s.redis, func(ctx context.Context, tx *redis.Tx) (store.Game, error) {
		uctx := store.NewUserCtx(ctx, tx, group)

		winners, err := findAll(uctx, winnerIDs)
		if err != nil {
			return store.Game{}, err
		}
		losers, err := findAll(uctx, loserIDs)
		if err != nil {
			return store.Game{}, err
		}

		leftPrior, err := skillsAt(winners, atTime)
		if err != nil {
			return store.Game{}, err
		}
		rightPrior, err := skillsAt(losers, atTime)
		if err != nil {
			return store.Game{}, err
		}

		leftUpdates, rightUpdates := s.ts.TreePass(leftPrior, rightPrior, trueskill.Won)

		msInGame := atTime.UnixMilli()
		var gameWrites []func(ctx context.Context, pipe redis.Pipeliner)

		if err := applyTeamUpdates(uctx, winners, leftPrior, leftUpdates, atTime, group, gameID, msInGame, &gameWrites); err != nil {
			return store.Game{}, err
		}
		if err := applyTeamUpdates(uctx, losers, rightPrior, rightUpdates, atTime, group, gameID, msInGame, &gameWrites); err != nil {
			return store.Game{}, err
		}

		game := store.NewGame(gameID, atTime, winnerIDs, loserIDs)
		gameData, err := json.Marshal(game)
		if err != nil {
			return store.Game{}, err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if err := uctx.Flush(pipe); err != nil {
				return err
			}
			for _, write := range gameWrites {
				write(ctx, pipe)
			}
			pipe.Set(ctx, store.GameKey(group, gameID), gameData, 0)
			pipe.ZAdd(ctx, store.GamesKey(group), redis.Z{Score: float64(msInGame), Member: string(gameID)})
			return nil
		})
		if err != nil {
			return store.Game{}, err
		}

		return game, nil
	})
}

func validateRoster(winnerIDs, loserIDs []store.UserID) error {
	if len(winnerIDs) == 0 || len(loserIDs) == 0 {
		return apperrors.ErrInvalidGame
	}
	seen := make(map[store.UserID]struct{}, len(winnerIDs))
	for _, id := range winnerIDs {
		seen[id] = struct{}{}
	}
	for _, id := range loserIDs {
		if _, ok := seen[id]; ok {
			return apperrors.ErrInvalidGame
		}
	}
	return nil
}

// findAll resolves every id through the union-find primitive, translating
// mergeable's errors into the closed business taxonomy.
func findAll(uctx *store.UserCtx, ids []store.UserID) ([]store.User, error) {
	users := make([]store.User, len(ids))
	for i, id := range ids {
		u, err := mergeable.Find[store.UserID, store.User](uctx, id)
		if err != nil {
			return nil, translateFindErr(err)
		}
		users[i] = u
	}
	return users, nil
}

// skillsAt projects every user's Player forward to atTime. A false ok means
// atTime precedes the user's stored fit time — per spec.md §9 this is a
// programmer error the caller is expected to have already ruled out (no
// route ever lets a client back-date a game before a player's last update),
// so it surfaces as a plain, non-business error rather than a retry signal.
func skillsAt(users []store.User, atTime time.Time) ([]message.Message, error) {
	msgs := make([]message.Message, len(users))
	for i, u := range users {
		m, ok := u.Player.SkillAt(atTime)
		if !ok {
			return nil, fmt.Errorf("skill_at: game time precedes stored fit time for user %s", u.ID)
		}
		msgs[i] = m
	}
	return msgs, nil
}

// applyTeamUpdates folds each player's skill update into their prior,
// writes the updated node back through union-find Set, and appends the
// per-user games zset write to gameWrites (queued later, inside the single
// pipeline the whole transaction commits through).
func applyTeamUpdates(uctx *store.UserCtx, users []store.User, priors, updates []message.Message, atTime time.Time, group store.GroupID, gameID store.GameID, msInGame int64, gameWrites *[]func(ctx context.Context, pipe redis.Pipeliner)) error {
	for i, u := range users {
		newSkill := priors[i].Include(updates[i])
		u.Player.SetSkill(newSkill, atTime)

		if err := mergeable.Set[store.UserID, store.User](uctx, u.ID, u); err != nil {
			return translateFindErr(err)
		}

		userID, gid := u.ID, group
		*gameWrites = append(*gameWrites, func(ctx context.Context, pipe redis.Pipeliner) {
			pipe.ZAdd(ctx, store.UserGamesKey(gid, userID), redis.Z{
				Score:  float64(msInGame),
				Member: string(gameID),
			})
		})
	}
	return nil
}
