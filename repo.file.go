package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

type fileCatalogStorage struct {
	logger *zap.Logger
	path   string
}

// NewFileCatalogStorage provides a storage backed by a single json file.
func NewFileCatalogStorage(logger *zap.Logger, path string) CatalogStorage {
	return &fileCatalogStorage{
		logger: logger,
		path:   path,
	}
}

// Load reads and decodes the whole file.
func (fcs *fileCatalogStorage) Load(_ context.Context) ([]Book, error) {
	data, err := os.ReadFile(fcs.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrCatalogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", fcs.path, err)
	}
	return DecodeCatalog(data)
}

// Save overwrites the file with the full catalog.
func (fcs *fileCatalogStorage) Save(_ context.Context, books []Book) error {
	data, err := EncodeCatalog(books)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(fcs.path); dir != "" {
		if err = os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create catalog folder: %w", err)
		}
	}
	if err = os.WriteFile(fcs.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", fcs.path, err)
	}
	fcs.logger.Debug("catalog file written", zap.String("path", fcs.path), zap.Int("books", len(books)))
	return nil
}

func (fcs *fileCatalogStorage) Close() error {
	return nil
}
