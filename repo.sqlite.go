package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS books (
	position INTEGER PRIMARY KEY,
	title    TEXT    NOT NULL,
	author   TEXT    NOT NULL,
	year     INTEGER NOT NULL,
	genre    TEXT    NOT NULL,
	read     INTEGER NOT NULL
);`

type sqliteCatalogStorage struct {
	logger *zap.Logger
	db     *sql.DB
}

// NewSQLiteCatalogStorage opens (or creates) the database file and
// ensures the books table exists.
func NewSQLiteCatalogStorage(logger *zap.Logger, path string) (CatalogStorage, error) {
	if path == "" {
		return nil, fmt.Errorf("empty sqlite file path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create sqlite folder: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// single writer, avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)
	for _, stmt := range []string{"PRAGMA busy_timeout = 5000;", sqliteSchema} {
		if _, err = db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to prepare sqlite database: %w", err)
		}
	}
	return &sqliteCatalogStorage{logger: logger, db: db}, nil
}

// Load reads every row in insertion order. An empty table is reported
// as an absent catalog.
func (ss *sqliteCatalogStorage) Load(ctx context.Context) ([]Book, error) {
	rows, err := ss.db.QueryContext(ctx, `SELECT title, author, year, genre, read FROM books ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []Book{}
	for rows.Next() {
		var b Book
		if err = rows.Scan(&b.Title, &b.Author, &b.Year, &b.Genre, &b.Read); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCatalogCorrupt, err)
		}
		books = append(books, b)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, ErrCatalogNotFound
	}
	return books, nil
}

// Save rewrites the table inside a single transaction.
func (ss *sqliteCatalogStorage) Save(ctx context.Context, books []Book) error {
	tx, err := ss.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `DELETE FROM books`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO books (position, title, author, year, genre, read) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, b := range books {
		if _, err = stmt.ExecContext(ctx, i, b.Title, b.Author, b.Year, b.Genre, b.Read); err != nil {
			return fmt.Errorf("failed to insert book at position %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func (ss *sqliteCatalogStorage) Close() error {
	return ss.db.Close()
}
