package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

const (
	jsonContentType = "application/json; charset=UTF-8"
	textContentType = "text/plain; charset=UTF-8"

	// StatusClientClosedRequest is the non standard code used when the client went away.
	StatusClientClosedRequest = 499
)

// CustomResponseWriter records the status code and the body size of a
// response so the core middleware can log and count them.
type CustomResponseWriter struct {
	http.ResponseWriter
	code  int
	bytes int
	wrote bool
}

// NewCustomResponseWriter provides CustomResponseWriter with 200 as status code.
func NewCustomResponseWriter(rw http.ResponseWriter) *CustomResponseWriter {
	return &CustomResponseWriter{ResponseWriter: rw, code: http.StatusOK}
}

func (cw *CustomResponseWriter) WriteHeader(code int) {
	if cw.wrote {
		return
	}
	cw.code, cw.wrote = code, true
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *CustomResponseWriter) Write(b []byte) (int, error) {
	cw.WriteHeader(cw.code)
	n, err := cw.ResponseWriter.Write(b)
	cw.bytes += n
	return n, err
}

func (cw *CustomResponseWriter) Status() int { return cw.code }

func (cw *CustomResponseWriter) Bytes() int { return cw.bytes }

// Unwrap is used by http.ResponseController.
func (cw *CustomResponseWriter) Unwrap() http.ResponseWriter {
	return cw.ResponseWriter
}

// APIError is the envelope of failed catalog requests.
type APIError struct {
	RequestID string      `json:"requestid"`
	Status    int         `json:"status"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
}

// APIResponse is the envelope of successful catalog requests.
// Total is only set for listing and search calls.
type APIResponse struct {
	RequestID string      `json:"requestid"`
	Status    int         `json:"status"`
	Message   string      `json:"message"`
	Total     *int        `json:"total,omitempty"`
	Data      interface{} `json:"data"`
}

func NewAPIError(requestid string, status int, message string, data interface{}) *APIError {
	return &APIError{RequestID: requestid, Status: status, Message: message, Data: data}
}

func GenericResponse(requestid string, status int, message string, total *int, data interface{}) *APIResponse {
	return &APIResponse{RequestID: requestid, Status: status, Message: message, Total: total, Data: data}
}

// contextStatus maps a finished request context to 504 when the processing
// timed out and to 499 when the client left. It returns 0 otherwise.
func contextStatus(ctx context.Context) (int, error) {
	err := ctx.Err()
	switch {
	case err == nil:
		return 0, nil
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, err
	default:
		return StatusClientClosedRequest, err
	}
}

// write sends body with the given content type unless the request context is done.
func write(ctx context.Context, w http.ResponseWriter, contentType string, status int, body func() error) error {
	if code, err := contextStatus(ctx); err != nil {
		w.WriteHeader(code)
		return err
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	return body()
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v interface{}) error {
	return write(ctx, w, jsonContentType, status, func() error {
		return json.NewEncoder(w).Encode(v)
	})
}

// WriteErrorResponse sends a failure envelope with its own status.
func WriteErrorResponse(ctx context.Context, w http.ResponseWriter, errResp *APIError) error {
	return writeJSON(ctx, w, errResp.Status, errResp)
}

// WriteResponse sends a success envelope with its own status.
func WriteResponse(ctx context.Context, w http.ResponseWriter, resp *APIResponse) error {
	return writeJSON(ctx, w, resp.Status, resp)
}

// WriteTextResponse sends display lines as plain text, one per line.
func WriteTextResponse(ctx context.Context, w http.ResponseWriter, status int, lines []string) error {
	return write(ctx, w, textContentType, status, func() error {
		_, err := w.Write([]byte(strings.Join(lines, "\n") + "\n"))
		return err
	})
}

// WantsText reports whether the client asked for plain text display lines.
func WantsText(r *http.Request) bool {
	return strings.EqualFold(r.URL.Query().Get("format"), "text")
}
