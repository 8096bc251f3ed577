package main

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// CatalogServiceProvider defines the catalog operations exposed to the api.
type CatalogServiceProvider interface {
	Load(ctx context.Context) ([]Book, error)
	Save(ctx context.Context, books []Book) error
	Add(ctx context.Context, title, author string, year int, genre string, read bool) (Book, error)
	Remove(ctx context.Context, title string) (int, error)
	Search(ctx context.Context, query string, field SearchField) ([]Book, error)
	ListAll(ctx context.Context) ([]Book, error)
	Statistics(ctx context.Context) (CatalogStats, error)
}

// CatalogService is the book catalog store. Every call reloads the whole
// catalog from storage and mutations rewrite it entirely. The mutex only
// serializes callers of this instance.
type CatalogService struct {
	logger     *zap.Logger
	config     *Config
	storage    CatalogStorage
	replicator Replicator
	mu         sync.Mutex
}

// NewCatalogService provides a catalog service. The replicator is optional.
func NewCatalogService(logger *zap.Logger, config *Config, storage CatalogStorage, replicator Replicator) *CatalogService {
	return &CatalogService{
		logger:     logger,
		config:     config,
		storage:    storage,
		replicator: replicator,
	}
}

func (cs *CatalogService) strictDecode() bool {
	return cs.config != nil && cs.config.Storage.StrictDecode
}

// load returns an empty catalog when nothing was stored. Corrupt content
// is reported as empty too unless strict decoding is configured.
func (cs *CatalogService) load(ctx context.Context) ([]Book, error) {
	books, err := cs.storage.Load(ctx)
	switch {
	case err == nil:
		return books, nil
	case errors.Is(err, ErrCatalogNotFound):
		return []Book{}, nil
	case errors.Is(err, ErrCatalogCorrupt) && !cs.strictDecode():
		cs.logger.Warn("service: corrupt catalog treated as empty", zap.Error(err))
		return []Book{}, nil
	default:
		return nil, err
	}
}

func (cs *CatalogService) save(ctx context.Context, books []Book) error {
	if err := cs.storage.Save(ctx, books); err != nil {
		return err
	}
	if cs.replicator == nil {
		return nil
	}
	if err := cs.replicator.Push(ctx, books); err != nil {
		cs.logger.Error("service: failed to push catalog snapshot", zap.Int("books", len(books)), zap.Error(err))
	}
	return nil
}

// Load reads the whole catalog.
func (cs *CatalogService) Load(ctx context.Context) ([]Book, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.load(ctx)
}

// Save overwrites the whole catalog.
func (cs *CatalogService) Save(ctx context.Context, books []Book) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.save(ctx, books)
}

// Add appends a new book. Empty fields and duplicate titles are accepted.
func (cs *CatalogService) Add(ctx context.Context, title, author string, year int, genre string, read bool) (Book, error) {
	book := Book{Title: title, Author: author, Year: year, Genre: genre, Read: read}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	books, err := cs.load(ctx)
	if err != nil {
		return book, err
	}
	if err = cs.save(ctx, append(books, book)); err != nil {
		return book, err
	}
	cs.logger.Info("service: book added", zap.String("book.title", title), zap.Int("catalog.size", len(books)+1))
	return book, nil
}

// Remove deletes every book whose title matches case-insensitively and
// returns how many were removed. Storage is left untouched and
// ErrBookNotFound returned when nothing matches.
func (cs *CatalogService) Remove(ctx context.Context, title string) (int, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	books, err := cs.load(ctx)
	if err != nil {
		return 0, err
	}
	kept := make([]Book, 0, len(books))
	for _, b := range books {
		if !b.HasTitle(title) {
			kept = append(kept, b)
		}
	}
	removed := len(books) - len(kept)
	if removed == 0 {
		return 0, ErrBookNotFound
	}
	if err = cs.save(ctx, kept); err != nil {
		return 0, err
	}
	cs.logger.Info("service: books removed", zap.String("book.title", title), zap.Int("removed", removed))
	return removed, nil
}

// Search returns the books whose field contains query, ignoring case.
// No match yields an empty slice.
func (cs *CatalogService) Search(ctx context.Context, query string, field SearchField) ([]Book, error) {
	if field != SearchByTitle && field != SearchByAuthor {
		return nil, ErrInvalidSearchField
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	books, err := cs.load(ctx)
	if err != nil {
		return nil, err
	}
	results := []Book{}
	for _, b := range books {
		if field.Matches(b, query) {
			results = append(results, b)
		}
	}
	return results, nil
}

// ListAll returns the full catalog in insertion order.
func (cs *CatalogService) ListAll(ctx context.Context) ([]Book, error) {
	return cs.Load(ctx)
}

// Statistics summarizes the catalog.
func (cs *CatalogService) Statistics(ctx context.Context) (CatalogStats, error) {
	books, err := cs.Load(ctx)
	if err != nil {
		return CatalogStats{}, err
	}
	return ComputeStats(books), nil
}
