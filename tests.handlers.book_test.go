package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAPIHandler(raw []byte) (*APIHandler, *MemoryCatalogStorage) {
	storage := NewMemoryCatalogStorage(raw)
	cs := NewCatalogService(zap.NewNop(), nil, storage, nil)
	clock := NewMockClocker()
	api := NewAPIHandler(zap.NewNop(), &Config{}, &Statistics{started: clock.Now()}, clock, NewMockUIDHandler("123"), cs)
	return api, storage
}

func decodeBody(t *testing.T, res *http.Response) map[string]interface{} {
	t.Helper()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	m := make(map[string]interface{})
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

// TestStatusHandler ensures api handler can provides its status.
func TestStatusHandler(t *testing.T) {
	api, _ := newTestAPIHandler(nil)
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	api.Status(w, req, httprouter.Params{})
	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json; charset=UTF-8", res.Header.Get("Content-Type"))

	m := decodeBody(t, res)
	assert.Equal(t, "up & running since 0 mins", m["status"])
	assert.Equal(t, "Hello. Book catalog api is available. Enjoy :)", m["message"])
}

// TestAddBookHandler ensures api handler can add a book.
func TestAddBookHandler(t *testing.T) {
	testCases := []struct {
		name    string
		payload string
		status  int
		year    float64
	}{
		{"integer year", `{"title":"Dune","author":"Herbert","year":1965,"genre":"SF","read":true}`, http.StatusCreated, 1965},
		{"string year", `{"title":"Dune","author":"Herbert","year":"1965","genre":"SF"}`, http.StatusCreated, 1965},
		{"fractional year is truncated", `{"title":"Dune","year":1965.7}`, http.StatusCreated, 1965},
		{"empty fields accepted", `{"year":0}`, http.StatusCreated, 0},
		{"year out of range", `{"title":"Dune","year":2026}`, http.StatusBadRequest, 0},
		{"negative year", `{"title":"Dune","year":-5}`, http.StatusBadRequest, 0},
		{"missing year", `{"title":"Dune"}`, http.StatusBadRequest, 0},
		{"invalid json", `{"title":`, http.StatusBadRequest, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			api, storage := newTestAPIHandler(nil)
			req := httptest.NewRequest(http.MethodPost, "/v1/books", bytes.NewBufferString(tc.payload))
			w := httptest.NewRecorder()
			api.AddBook(w, req, httprouter.Params{})
			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tc.status, res.StatusCode)
			m := decodeBody(t, res)

			if tc.status != http.StatusCreated {
				assert.Nil(t, storage.Raw())
				return
			}
			assert.Equal(t, "Book added successfully!", m["message"])
			data, ok := m["data"].(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, tc.year, data["year"])

			books, err := storage.Load(context.Background())
			require.NoError(t, err)
			assert.Len(t, books, 1)
		})
	}
}

// TestListBooksHandler ensures listing works in json and text formats.
func TestListBooksHandler(t *testing.T) {
	t.Run("empty library", func(t *testing.T) {
		api, _ := newTestAPIHandler(nil)
		w := httptest.NewRecorder()
		api.ListBooks(w, httptest.NewRequest(http.MethodGet, "/v1/books", nil), httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)
		m := decodeBody(t, res)
		assert.Equal(t, "Your library is empty!", m["message"])
		assert.Equal(t, float64(0), m["total"])
	})

	t.Run("empty library as text", func(t *testing.T) {
		api, _ := newTestAPIHandler(nil)
		w := httptest.NewRecorder()
		api.ListBooks(w, httptest.NewRequest(http.MethodGet, "/v1/books?format=text", nil), httprouter.Params{})
		assert.Equal(t, "Your library is empty!\n", w.Body.String())
	})

	t.Run("numbered text lines", func(t *testing.T) {
		api, _ := newTestAPIHandler([]byte(duneCatalog))
		w := httptest.NewRecorder()
		api.ListBooks(w, httptest.NewRequest(http.MethodGet, "/v1/books?format=text", nil), httprouter.Params{})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
		assert.Equal(t, "1. Dune by Herbert (1965) - SF - Read\n", w.Body.String())
	})

	t.Run("json listing", func(t *testing.T) {
		api, _ := newTestAPIHandler([]byte(duneCatalog))
		w := httptest.NewRecorder()
		api.ListBooks(w, httptest.NewRequest(http.MethodGet, "/v1/books", nil), httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		m := decodeBody(t, res)
		assert.Equal(t, float64(1), m["total"])
		data, ok := m["data"].([]interface{})
		require.True(t, ok)
		assert.Len(t, data, 1)
	})
}

// TestRemoveBookHandler ensures removal reports found and not found cases.
func TestRemoveBookHandler(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		api, storage := newTestAPIHandler([]byte(duneCatalog))
		w := httptest.NewRecorder()
		api.RemoveBook(w, httptest.NewRequest(http.MethodDelete, "/v1/books?title=DUNE", nil), httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)
		m := decodeBody(t, res)
		assert.Equal(t, "Book removed successfully!", m["message"])
		assert.Equal(t, map[string]interface{}{"removed": float64(1)}, m["data"])
		books, err := storage.Load(context.Background())
		require.NoError(t, err)
		assert.Empty(t, books)
	})

	t.Run("not found", func(t *testing.T) {
		api, storage := newTestAPIHandler([]byte(duneCatalog))
		w := httptest.NewRecorder()
		api.RemoveBook(w, httptest.NewRequest(http.MethodDelete, "/v1/books?title=Emma", nil), httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		m := decodeBody(t, res)
		assert.Equal(t, "Book not found!", m["message"])
		assert.Equal(t, []byte(duneCatalog), storage.Raw())
	})
}

// TestSearchBooksHandler ensures search parameters are honored.
func TestSearchBooksHandler(t *testing.T) {
	api, _ := newTestAPIHandler([]byte(duneCatalog))

	testCases := []struct {
		name    string
		target  string
		status  int
		total   float64
		message string
	}{
		{"default field is title", "/v1/books/search?q=dun", http.StatusOK, 1, "Matching books fetched successfully."},
		{"author field", "/v1/books/search?q=HERB&by=author", http.StatusOK, 1, "Matching books fetched successfully."},
		{"author field ignores title", "/v1/books/search?q=dune&by=author", http.StatusOK, 0, "No matching books found!"},
		{"invalid field", "/v1/books/search?q=dune&by=genre", http.StatusBadRequest, 0, "failed to search books"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			api.SearchBooks(w, httptest.NewRequest(http.MethodGet, tc.target, nil), httprouter.Params{})
			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tc.status, res.StatusCode)
			m := decodeBody(t, res)
			assert.Equal(t, tc.message, m["message"])
			if tc.status == http.StatusOK {
				assert.Equal(t, tc.total, m["total"])
			}
		})
	}

	t.Run("text format", func(t *testing.T) {
		w := httptest.NewRecorder()
		api.SearchBooks(w, httptest.NewRequest(http.MethodGet, "/v1/books/search?q=DUNE&format=text", nil), httprouter.Params{})
		assert.Equal(t, "Dune by Herbert (1965) - SF - Read\n", w.Body.String())
	})
}

// TestGetCatalogStatsHandler ensures statistics are served in both formats.
func TestGetCatalogStatsHandler(t *testing.T) {
	api, _ := newTestAPIHandler([]byte(duneCatalog))

	w := httptest.NewRecorder()
	api.GetCatalogStats(w, httptest.NewRequest(http.MethodGet, "/v1/books/stats", nil), httprouter.Params{})
	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	m := decodeBody(t, res)
	assert.Equal(t, map[string]interface{}{"total": float64(1), "read": float64(1), "percentage": float64(100)}, m["data"])

	w = httptest.NewRecorder()
	api.GetCatalogStats(w, httptest.NewRequest(http.MethodGet, "/v1/books/stats?format=text", nil), httprouter.Params{})
	assert.Equal(t, "Total books: 1\nPercentage read: 100.00%\n", w.Body.String())
}

// TestHandlersStorageFailure ensures storage errors surface as 500.
func TestHandlersStorageFailure(t *testing.T) {
	mockRepo := &MockCatalogStorage{
		LoadFunc: func(ctx context.Context) ([]Book, error) {
			return nil, errors.New("disk failure")
		},
	}
	cs := NewCatalogService(zap.NewNop(), nil, mockRepo, nil)
	api := NewAPIHandler(zap.NewNop(), &Config{}, &Statistics{}, NewMockClocker(), NewMockUIDHandler("123"), cs)

	for name, h := range map[string]httprouter.Handle{
		"list":   api.ListBooks,
		"stats":  api.GetCatalogStats,
		"search": api.SearchBooks,
		"remove": api.RemoveBook,
	} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h(w, httptest.NewRequest(http.MethodGet, "/v1/books?title=x", nil), httprouter.Params{})
			assert.Equal(t, http.StatusInternalServerError, w.Code)
		})
	}
}
