package main

import (
	"context"
	"sync"
)

// MemoryCatalogStorage keeps the encoded catalog in memory so that reads
// go through the same decoding as the persistent backends.
type MemoryCatalogStorage struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryCatalogStorage provides an in-memory storage. A nil raw means
// nothing was saved yet, otherwise raw is used as-is as stored content.
func NewMemoryCatalogStorage(raw []byte) *MemoryCatalogStorage {
	return &MemoryCatalogStorage{data: raw}
}

func (ms *MemoryCatalogStorage) Load(_ context.Context) ([]Book, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.data == nil {
		return nil, ErrCatalogNotFound
	}
	return DecodeCatalog(ms.data)
}

func (ms *MemoryCatalogStorage) Save(_ context.Context, books []Book) error {
	data, err := EncodeCatalog(books)
	if err != nil {
		return err
	}
	ms.mu.Lock()
	ms.data = data
	ms.mu.Unlock()
	return nil
}

// Raw returns a copy of the stored bytes.
func (ms *MemoryCatalogStorage) Raw() []byte {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.data == nil {
		return nil
	}
	return append([]byte(nil), ms.data...)
}

func (ms *MemoryCatalogStorage) Close() error {
	return nil
}
