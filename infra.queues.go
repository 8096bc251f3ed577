package main

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultSnapshotQueue is the redis list holding pending catalog snapshots.
const DefaultSnapshotQueue = "catalog.snapshots"

// ErrQueueEmpty is returned by Pop when no snapshot arrived in time.
var ErrQueueEmpty = errors.New("queue is empty")

// Ensure *redisQueue implements SnapshotQueuer.
var _ SnapshotQueuer = (*redisQueue)(nil)

// Replicator receives every saved catalog snapshot.
type Replicator interface {
	Push(ctx context.Context, books []Book) error
}

// SnapshotQueuer describes a queue of catalog snapshots.
type SnapshotQueuer interface {
	Replicator
	Pop(ctx context.Context) ([]Book, error)
}

// redisQueue represents a queue which implements the SnapshotQueuer interface.
type redisQueue struct {
	client  *redis.Client
	qid     string
	timeout time.Duration
}

// NewRedisQueue provides a snapshots queue stored under the qid list. Pop waits
// at most one second so that consumers can observe their context.
func NewRedisQueue(client *redis.Client, qid string) SnapshotQueuer {
	if qid == "" {
		qid = DefaultSnapshotQueue
	}
	return &redisQueue{client: client, qid: qid, timeout: time.Second}
}

// Push enqueues a catalog snapshot.
func (q *redisQueue) Push(ctx context.Context, books []Book) error {
	data, err := EncodeCatalog(books)
	if err != nil {
		return err
	}
	return q.client.RPush(ctx, q.qid, data).Err()
}

// Pop returns the oldest snapshot in the queue.
func (q *redisQueue) Pop(ctx context.Context) ([]Book, error) {
	infos, err := q.client.BLPop(ctx, q.timeout, q.qid).Result()
	if err == redis.Nil {
		return nil, ErrQueueEmpty
	}
	if err != nil {
		return nil, err
	}
	return DecodeCatalog([]byte(infos[1]))
}
