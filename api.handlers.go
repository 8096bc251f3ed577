package main

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

var EmptyData = struct{}{}

// Statistics holds the process details and the per status responses counters.
type Statistics struct {
	version   string
	container bool
	runtime   string
	platform  string
	called    uint64
	started   time.Time
	mu        sync.RWMutex
	status    map[int]uint64
}

// record counts one response with the given status code.
func (s *Statistics) record(code int) {
	s.mu.Lock()
	if s.status == nil {
		s.status = make(map[int]uint64)
	}
	s.status[code]++
	s.mu.Unlock()
}

// statusCounts returns a copy of the responses counters.
func (s *Statistics) statusCounts() map[int]uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[int]uint64, len(s.status))
	for code, n := range s.status {
		counts[code] = n
	}
	return counts
}

// Maintenance holds the maintenance mode state. Public routes answer
// 503 with the message while it is enabled.
type Maintenance struct {
	mu      sync.RWMutex
	enabled bool
	message string
	started time.Time
}

// MaintenanceState is a point in time copy of the maintenance mode.
type MaintenanceState struct {
	Enabled bool      `json:"enabled"`
	Message string    `json:"message,omitempty"`
	Started time.Time `json:"started,omitempty"`
}

func (m *Maintenance) Enable(message string, at time.Time) {
	m.mu.Lock()
	m.enabled, m.message, m.started = true, message, at
	m.mu.Unlock()
}

func (m *Maintenance) Disable() {
	m.mu.Lock()
	m.enabled, m.message, m.started = false, "", time.Time{}
	m.mu.Unlock()
}

func (m *Maintenance) State() MaintenanceState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return MaintenanceState{Enabled: m.enabled, Message: m.message, Started: m.started}
}

// APIHandler defines the API handler.
type APIHandler struct {
	logger     *zap.Logger
	config     *Config
	stats      *Statistics
	mode       *Maintenance
	clock      Clocker
	idsHandler UIDGenerator
	catalog    CatalogServiceProvider
}

// NewAPIHandler provides a new instance of APIHandler.
func NewAPIHandler(logger *zap.Logger, config *Config, stats *Statistics, clock Clocker, idsHandler UIDGenerator, cs CatalogServiceProvider) *APIHandler {
	return &APIHandler{
		logger:     logger,
		config:     config,
		stats:      stats,
		mode:       &Maintenance{},
		clock:      clock,
		idsHandler: idsHandler,
		catalog:    cs,
	}
}

// Index provides same details like `Status` handler by redirecting the request.
func (api *APIHandler) Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	http.Redirect(w, r, "/status", http.StatusSeeOther)
}

// Status provides basics details about the application to the public users.
func (api *APIHandler) Status(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	err := writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"requestid": requestID,
		"status":    fmt.Sprintf("up & running since %.0f mins", api.clock.Now().Sub(api.stats.started).Minutes()),
		"message":   "Hello. Book catalog api is available. Enjoy :)",
	})
	if err != nil {
		api.logger.Error("failed to send status response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// NotFound is the handler for routes which do not exist.
func (api *APIHandler) NotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := api.idsHandler.Generate(RequestIDPrefix)
		err := writeJSON(r.Context(), w, http.StatusNotFound, map[string]string{
			"requestid": requestID,
			"message":   "route does not exist",
			"path":      r.Method + " " + r.URL.Path,
		})
		if err != nil {
			api.logger.Error("failed to send not found response", zap.String("request.id", requestID), zap.Error(err))
		}
	})
}
