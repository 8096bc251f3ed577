package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
)

var (
	ErrBookNotFound       = errors.New("book not found")
	ErrInvalidSearchField = errors.New("invalid search field")
)

type (
	ContextKey        string
	missingFieldError string
)

const (
	RequestIDPrefix         string     = "r"
	RequestIDContextKey     ContextKey = "request.id"
	RequestNumberContextKey ContextKey = "request.number"
)

func (m missingFieldError) Error() string {
	return string(m) + " is required"
}

// AddBookRequest is the payload of a book creation request. The year
// accepts a json number or a numeric string.
type AddBookRequest struct {
	Title  string      `json:"title"`
	Author string      `json:"author"`
	Year   json.Number `json:"year" swaggertype:"integer"`
	Genre  string      `json:"genre"`
	Read   bool        `json:"read"`
}

// GetValueFromContext returns the value of a given key in the context
// if this key is not available, it returns an empty string.
func GetValueFromContext(ctx context.Context, contextKey ContextKey) string {
	if val := ctx.Value(contextKey); val != nil {
		return val.(string)
	}
	return ""
}

// GetRequestNumberFromContext returns the request number set in
// the context. if not previously set then it returns 0.
func GetRequestNumberFromContext(ctx context.Context) uint64 {
	if val := ctx.Value(RequestNumberContextKey); val != nil {
		return val.(uint64)
	}
	return 0
}

// DecodeAddBookRequestBody is a helper function to read the content of a book creation request.
func DecodeAddBookRequestBody(r *http.Request, req *AddBookRequest) error {
	if r.Body == nil {
		return errors.New("invalid add book request body")
	}
	return json.NewDecoder(r.Body).Decode(req)
}

// ParseYear coerces the year to an integer, dropping any fractional part,
// and checks it is within [0, MaxYear].
func ParseYear(n json.Number) (int, error) {
	if len(n) == 0 {
		return 0, missingFieldError("year")
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
	if err != nil {
		return 0, fmt.Errorf("year %q is not a number", string(n))
	}
	if f < 0 || f >= MaxYear+1 {
		return 0, fmt.Errorf("year must be between 0 and %d", MaxYear)
	}
	return int(f), nil
}

// GetRequestSourceIP helps find the source IP of the caller.
func GetRequestSourceIP(r *http.Request) string {
	// Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip
	}

	// Get IP from X-FORWARDED-FOR header
	ips := r.Header.Get("X-FORWARDED-FOR")
	splitIps := strings.Split(ips, ",")
	for _, ip := range splitIps {
		netIP = net.ParseIP(strings.TrimSpace(ip))
		if netIP != nil {
			return strings.TrimSpace(ip)
		}
	}

	// Get IP from RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return ""
	}
	netIP = net.ParseIP(ip)
	if netIP != nil {
		return ip
	}
	return ""
}

// IsAppRunningInDocker checks the existence of the .dockerenv
// file at the root directory and returns a boolean result.
func IsAppRunningInDocker() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return false
}
