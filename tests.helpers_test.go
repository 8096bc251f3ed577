package main

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYear(t *testing.T) {
	testCases := []struct {
		input    json.Number
		expected int
		valid    bool
	}{
		{"1965", 1965, true},
		{"0", 0, true},
		{"2025", 2025, true},
		{"1965.9", 1965, true},
		{"2025.5", 2025, true},
		{"2026", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.input), func(t *testing.T) {
			year, err := ParseYear(tc.input)
			if !tc.valid {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, year)
		})
	}
}

func TestWantsText(t *testing.T) {
	assert.True(t, WantsText(httptest.NewRequest("GET", "/v1/books?format=text", nil)))
	assert.True(t, WantsText(httptest.NewRequest("GET", "/v1/books?format=TEXT", nil)))
	assert.False(t, WantsText(httptest.NewRequest("GET", "/v1/books?format=json", nil)))
	assert.False(t, WantsText(httptest.NewRequest("GET", "/v1/books", nil)))
}

func TestGetRequestSourceIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-REAL-IP", "10.0.0.7")
	assert.Equal(t, "10.0.0.7", GetRequestSourceIP(req))

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-FORWARDED-FOR", "bad, 10.0.0.8")
	assert.Equal(t, "10.0.0.8", GetRequestSourceIP(req))
}

func TestLogFilePath(t *testing.T) {
	at := time.Date(2023, 7, 2, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, filepath.Join("logs", "catalog.20230702.150405.prod.log"), LogFilePath("logs", "prod", at))
}

// TestLogRotator ensures entries that would overflow the current
// file go into a new one and oversized entries are rejected.
func TestLogRotator(t *testing.T) {
	dir := t.TempDir()
	clock := NewMockClocker()
	lr := NewLogRotator(&Config{LogFolder: dir, LogMaxSize: 1}, clock)
	t.Cleanup(func() { lr.Close() })

	entry := []byte(strings.Repeat("a", megabyte/2+1))
	_, err := lr.Write(entry)
	require.NoError(t, err)
	clock.MockNow = clock.MockNow.Add(time.Second)
	_, err = lr.Write(entry)
	require.NoError(t, err)
	require.NoError(t, lr.Sync())

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, files, 2)
	for _, f := range files {
		assert.True(t, strings.HasSuffix(f.Name(), ".dev.log"), f.Name())
	}

	_, err = lr.Write(make([]byte, megabyte+1))
	assert.Error(t, err)
}
