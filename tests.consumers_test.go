package main

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestMirrorConsumer ensures dequeued snapshots land in the mirror and the
// consumer exits once its context is cancelled.
func TestMirrorConsumer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots := make(chan []Book, 3)
	snapshots <- sampleCatalog
	snapshots <- sampleCatalog[:1]
	var pops int32
	queue := &MockQueuer{
		PopFunc: func(ctx context.Context) ([]Book, error) {
			n := atomic.AddInt32(&pops, 1)
			if n == 2 {
				return nil, errors.New("transient failure")
			}
			select {
			case books := <-snapshots:
				return books, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(10 * time.Millisecond):
				return nil, ErrQueueEmpty
			}
		},
	}
	mirror := NewMemoryCatalogStorage(nil)
	consumer := NewMirrorConsumer(zap.NewNop(), queue, mirror)

	done := make(chan error, 1)
	go func() {
		done <- consumer.Consume(ctx)
	}()

	assert.Eventually(t, func() bool {
		books, err := mirror.Load(context.Background())
		return err == nil && len(books) == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop after cancellation")
	}

	books, err := mirror.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleCatalog[:1], books)
}
