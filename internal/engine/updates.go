package engine

import (
	"context"
	"sync"

	"telesim/pkg/botapi"
)

const defaultUpdateLimit = 100

// updateQueue buffers outbound updates and implements long-poll fetch
// semantics: a fetch with no pending updates waits for the next push, a
// confirming offset discards everything below it.
type updateQueue struct {
	mu      sync.Mutex
	pending []botapi.Update
	waiters []chan struct{}
}

func newUpdateQueue() *updateQueue {
	return &updateQueue{}
}

// push appends an update and wakes every pending fetch.
func (q *updateQueue) push(update botapi.Update) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.pending = append(q.pending, update)
	for _, waiter := range q.waiters {
		close(waiter)
	}
	q.waiters = nil
}

// fetch returns up to limit updates with update_id >= offset. When none are
// pending it blocks until the next push or ctx cancellation; cancellation
// resolves with an empty batch, not an error.
func (q *updateQueue) fetch(ctx context.Context, offset int64, limit int) []botapi.Update {
	if limit <= 0 || limit > defaultUpdateLimit {
		limit = defaultUpdateLimit
	}

	for {
		q.mu.Lock()
		q.discardLocked(offset)
		if len(q.pending) > 0 {
			n := min(limit, len(q.pending))
			batch := make([]botapi.Update, n)
			copy(batch, q.pending[:n])
			q.mu.Unlock()

			return batch
		}

		waiter := make(chan struct{})
		q.waiters = append(q.waiters, waiter)
		q.mu.Unlock()

		select {
		case <-waiter:
		case <-ctx.Done():
			return []botapi.Update{}
		}
	}
}

// discardLocked confirms every update below offset. A non-positive offset
// confirms nothing.
func (q *updateQueue) discardLocked(offset int64) {
	if offset <= 0 {
		return
	}

	kept := q.pending[:0]
	for _, update := range q.pending {
		if update.UpdateID >= offset {
			kept = append(kept, update)
		}
	}
	q.pending = kept
}

// size reports the number of unconfirmed updates.
func (q *updateQueue) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.pending)
}
