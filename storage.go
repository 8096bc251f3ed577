package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Supported storage backends names.
const (
	FileBackend   = "file"
	MemoryBackend = "memory"
	BoltBackend   = "bolt"
	RedisBackend  = "redis"
	SQLiteBackend = "sqlite"
)

var (
	// ErrCatalogNotFound means no catalog was ever persisted.
	ErrCatalogNotFound = errors.New("catalog not found")
	// ErrCatalogCorrupt means persisted content exists but is not a list of books.
	ErrCatalogCorrupt = errors.New("catalog content is corrupt")
)

// CatalogStorage persists the full catalog as a whole. Load returns
// ErrCatalogNotFound when nothing was saved yet and an error wrapping
// ErrCatalogCorrupt when the stored content does not decode.
type CatalogStorage interface {
	Load(ctx context.Context) ([]Book, error)
	Save(ctx context.Context, books []Book) error
	Close() error
}

// NewCatalogStorage opens the named backend with its settings from config.
func NewCatalogStorage(config *Config, logger *zap.Logger, backend string) (CatalogStorage, error) {
	switch backend {
	case FileBackend:
		return NewFileCatalogStorage(logger, config.Storage.FilePath), nil
	case MemoryBackend:
		return NewMemoryCatalogStorage(nil), nil
	case BoltBackend:
		client, err := GetBoltDBClient(config)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to boltDB: %w", err)
		}
		return NewBoltCatalogStorage(logger, &config.BoltDB, client), nil
	case RedisBackend:
		client, err := GetRedisClient(config)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis server: %w", err)
		}
		return NewRedisCatalogStorage(logger, client, config.Redis.CatalogKey), nil
	case SQLiteBackend:
		return NewSQLiteCatalogStorage(logger, config.SQLite.FilePath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// storedBook mirrors Book with pointer fields so that missing
// attributes can be told apart from zero values.
type storedBook struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
	Year   *int    `json:"year"`
	Genre  *string `json:"genre"`
	Read   *bool   `json:"read"`
}

func (sb *storedBook) book() (Book, error) {
	if sb == nil {
		return Book{}, errors.New("null record")
	}
	if sb.Title == nil || sb.Author == nil || sb.Year == nil || sb.Genre == nil || sb.Read == nil {
		return Book{}, errors.New("record misses one of title, author, year, genre, read")
	}
	return Book{Title: *sb.Title, Author: *sb.Author, Year: *sb.Year, Genre: *sb.Genre, Read: *sb.Read}, nil
}

// DecodeCatalog strictly parses a stored JSON array of books. Every
// record must carry exactly the five book attributes.
func DecodeCatalog(data []byte) ([]Book, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil, fmt.Errorf("%w: expected a json array", ErrCatalogCorrupt)
	}
	var records []*storedBook
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogCorrupt, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after array", ErrCatalogCorrupt)
	}
	books := make([]Book, 0, len(records))
	for i, r := range records {
		b, err := r.book()
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrCatalogCorrupt, i, err)
		}
		books = append(books, b)
	}
	return books, nil
}

// EncodeCatalog serializes books as an indented JSON array. A nil
// catalog is written as an empty array.
func EncodeCatalog(books []Book) ([]byte, error) {
	if books == nil {
		books = []Book{}
	}
	return json.MarshalIndent(books, "", "    ")
}
