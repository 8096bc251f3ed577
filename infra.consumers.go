package main

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

type Consumer interface {
	Consume(ctx context.Context) error
}

// mirrorConsumer copies each dequeued snapshot into the mirror storage.
type mirrorConsumer struct {
	logger *zap.Logger
	queue  SnapshotQueuer
	mirror CatalogStorage
}

func NewMirrorConsumer(logger *zap.Logger, q SnapshotQueuer, mirror CatalogStorage) Consumer {
	return &mirrorConsumer{logger, q, mirror}
}

func (mc *mirrorConsumer) Consume(ctx context.Context) error {
	for {
		books, err := mc.queue.Pop(ctx)
		if ctx.Err() != nil {
			mc.logger.Info("consumer: queue pop call: context is done: exit", zap.String("reason", ctx.Err().Error()))
			return nil
		}

		if errors.Is(err, ErrQueueEmpty) {
			continue
		}

		if err != nil {
			mc.logger.Error("consumer: error on queue pop call", zap.Error(err))
			continue
		}

		if err = mc.mirror.Save(ctx, books); err != nil {
			mc.logger.Error("consumer: failed to mirror snapshot", zap.Int("books", len(books)), zap.Error(err))
			continue
		}
		mc.logger.Debug("consumer: snapshot mirrored", zap.Int("books", len(books)))
	}
}
