// Package txn implements the optimistic-concurrency transaction driver from
// SPEC_FULL.md §4.6: build a WATCH/MULTI/EXEC pipeline, run the body, and
// retry from scratch whenever a watched key changed before EXEC.
//
// State machine (spec.md §4.9): Building -> Executing happens when Body
// calls tx.TxPipelined; Executing -> Committed on a nil return from Commit;
// Executing -> Retrying -> Building happens in the loop below whenever Body
// returns redis.TxFailedErr; Building -> Failed / Executing -> Failed is any
// other error, which is never retried and is returned to the caller as-is.
package txn

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Body is invoked fresh on every attempt. It must be deterministic given the
// store state: any cache it builds (such as a store.UserCtx) has to be
// constructed inside Body, not captured from an outer scope, or a retry
// would silently reuse stale reads.
type Body[R any] func(ctx context.Context, tx *redis.Tx) (R, error)

// Commit loops until body's pipeline is accepted or a non-retryable error
// occurs. Only a watched-key conflict (redis.TxFailedErr) causes a retry;
// every other error — decode failures, connection errors, business errors —
// is returned immediately.
func Commit[R any](ctx context.Context, client *redis.Client, body Body[R]) (R, error) {
	for {
		var result R
		err := client.Watch(ctx, func(tx *redis.Tx) error {
			r, err := body(ctx, tx)
			result = r
			return err
		})
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		var zero R
		return zero, err
	}
}
