package main

import (
	"context"
	"sync"
	"time"
)

// This file contains mocks definitions needed to perform unit tests.

type MockCatalogStorage struct {
	LoadFunc  func(ctx context.Context) ([]Book, error)
	SaveFunc  func(ctx context.Context, books []Book) error
	CloseFunc func() error
}

// Load mocks the behavior of reading the catalog by the repository.
func (m *MockCatalogStorage) Load(ctx context.Context) ([]Book, error) {
	return m.LoadFunc(ctx)
}

// Save mocks the behavior of writing the catalog by the repository.
func (m *MockCatalogStorage) Save(ctx context.Context, books []Book) error {
	return m.SaveFunc(ctx, books)
}

func (m *MockCatalogStorage) Close() error {
	if m.CloseFunc == nil {
		return nil
	}
	return m.CloseFunc()
}

// MockQueuer implements a fake SnapshotQueuer.
type MockQueuer struct {
	PushFunc func(ctx context.Context, books []Book) error
	PopFunc  func(ctx context.Context) ([]Book, error)
}

func (mq *MockQueuer) Push(ctx context.Context, books []Book) error {
	return mq.PushFunc(ctx, books)
}

func (mq *MockQueuer) Pop(ctx context.Context) ([]Book, error) {
	return mq.PopFunc(ctx)
}

// MockReplicator records every pushed snapshot.
type MockReplicator struct {
	mu        sync.Mutex
	snapshots [][]Book
	err       error
}

func (mr *MockReplicator) Push(_ context.Context, books []Book) error {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	mr.snapshots = append(mr.snapshots, append([]Book(nil), books...))
	return mr.err
}

func (mr *MockReplicator) Snapshots() [][]Book {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	return mr.snapshots
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock. This
// equals to `Sun, 02 Jul 2023 00:00:00 UTC` in time.RFC1123 format.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// MockUIDHandler implements a fake UIDGenerator.
type MockUIDHandler struct {
	MockedUID string
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}
