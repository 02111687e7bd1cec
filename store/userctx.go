package store

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// UserCtx is a read-through, write-back mergeable.Ctx bound to one
// transaction attempt. It holds the group id, the active *redis.Tx, and a
// UserID -> node cache. Reads WATCH the key before GET so a concurrent
// writer invalidates the enclosing transaction at commit; writes only ever
// touch the cache until Flush enqueues them on a pipeline.
//
// Between two GetNode calls in the same transaction the cached view of a
// node is stable, so mergeable's multi-step find/merge walks never observe
// a half-updated node mid-walk.
type UserCtx struct {
	ctx   context.Context
	tx    *redis.Tx
	group GroupID
	cache map[UserID]UserNode
}

// NewUserCtx builds a fresh context for one transaction attempt. Commit's
// retry loop must construct a new UserCtx on every attempt — never reuse
// one across retries.
func NewUserCtx(ctx context.Context, tx *redis.Tx, group GroupID) *UserCtx {
	return &UserCtx{
		ctx:   ctx,
		tx:    tx,
		group: group,
		cache: make(map[UserID]UserNode),
	}
}

// GetNode implements mergeable.Ctx.
func (c *UserCtx) GetNode(id UserID) (UserNode, bool) {
	if node, ok := c.cache[id]; ok {
		return node, true
	}

	key := UserKey(c.group, id)
	if err := c.tx.Watch(c.ctx, key).Err(); err != nil {
		return UserNode{}, false
	}

	raw, err := c.tx.Get(c.ctx, key).Bytes()
	if err != nil {
		return UserNode{}, false
	}

	var node UserNode
	if err := json.Unmarshal(raw, &node); err != nil {
		return UserNode{}, false
	}

	c.cache[id] = node
	return node, true
}

// SetNode implements mergeable.Ctx. The write is buffered in the cache only;
// nothing reaches Redis until Flush enqueues it on a pipeline.
func (c *UserCtx) SetNode(id UserID, node UserNode) {
	c.cache[id] = node
}

// Flush enqueues a SET for every cached node — including nodes that were
// only ever read, never mutated. Re-flushing unmutated reads is a
// conservative superset of what strictly needs writing, but stays correct
// because WATCH already guards every key that was read.
func (c *UserCtx) Flush(pipe redis.Pipeliner) error {
	for id, node := range c.cache {
		data, err := json.Marshal(node)
		if err != nil {
			return err
		}
		pipe.Set(c.ctx, UserKey(c.group, id), data, 0)
	}
	return nil
}
