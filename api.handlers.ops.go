package main

import (
	"expvar"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// CatalogReport describes where the catalog lives and what it holds.
type CatalogReport struct {
	Backend     string        `json:"backend"`
	Replication bool          `json:"replication"`
	Queue       string        `json:"queue,omitempty"`
	Mirror      string        `json:"mirror,omitempty"`
	Books       int           `json:"books"`
	Read        int           `json:"read"`
	Percentage  float64       `json:"percentage"`
	Error       string        `json:"error,omitempty"`
	LoadTime    time.Duration `json:"load_time_ns"`
}

// OpsStatistics is the payload served to internal ops users.
type OpsStatistics struct {
	RequestID   string           `json:"requestid"`
	Version     string           `json:"app.version"`
	Container   bool             `json:"app.container"`
	Platform    string           `json:"app.platform"`
	GoVersion   string           `json:"go.version"`
	Goroutines  int              `json:"go.goroutines"`
	Called      uint64           `json:"called"`
	Started     string           `json:"started"`
	Uptime      string           `json:"uptime"`
	Maintenance MaintenanceState `json:"maintenance"`
	Status      map[int]uint64   `json:"status"`
	Catalog     CatalogReport    `json:"catalog"`
}

// catalogReport loads the catalog statistics along with the storage settings.
// A failing load is reported in the payload instead of failing the request.
func (api *APIHandler) catalogReport(r *http.Request) CatalogReport {
	var report CatalogReport
	if api.config != nil {
		report.Backend = api.config.Storage.Backend
		report.Replication = api.config.Replication.Enabled
		if report.Replication {
			report.Queue = api.config.Replication.Queue
			report.Mirror = api.config.Replication.Mirror
		}
	}
	start := api.clock.Now()
	stats, err := api.catalog.Statistics(r.Context())
	report.LoadTime = api.clock.Now().Sub(start)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	report.Books, report.Read, report.Percentage = stats.Total, stats.Read, stats.Percentage
	return report
}

// GetStatistics provides the process, requests and catalog details to the internal
// ops users. The triggering ops request is excluded from the called counter.
func (api *APIHandler) GetStatistics(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	logger := api.GetLoggerFromContext(r.Context())
	called := atomic.LoadUint64(&api.stats.called)
	if called > 0 {
		called--
	}
	report := api.catalogReport(r)
	if report.Error != "" {
		logger.Warn("ops: catalog statistics unavailable", zap.String("catalog.error", report.Error))
	}
	err := writeJSON(r.Context(), w, http.StatusOK, OpsStatistics{
		RequestID:   requestID,
		Version:     api.stats.version,
		Container:   api.stats.container,
		Platform:    api.stats.platform,
		GoVersion:   api.stats.runtime,
		Goroutines:  runtime.NumGoroutine(),
		Called:      called,
		Started:     api.stats.started.Format(time.RFC1123),
		Uptime:      api.clock.Now().Sub(api.stats.started).Round(time.Second).String(),
		Maintenance: api.mode.State(),
		Status:      api.stats.statusCounts(),
		Catalog:     report,
	})
	if err != nil {
		logger.Error("failed to send statistics response", zap.Error(err))
	}
}

// GetConfigs serves the in-use configuration. Secrets are excluded by their json tags.
func (api *APIHandler) GetConfigs(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	resp := GenericResponse(requestID, http.StatusOK, "current configuration", nil, api.config)
	if err := WriteResponse(r.Context(), w, resp); err != nil {
		api.GetLoggerFromContext(r.Context()).Error("failed to send configs response", zap.Error(err))
	}
}

// Maintenance switches the maintenance mode of the public routes.
//
//	/ops/maintenance?status=enable&msg=reason
//	/ops/maintenance?status=disable
//	/ops/maintenance                 current state
func (api *APIHandler) Maintenance(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	logger := api.GetLoggerFromContext(r.Context())
	q := r.URL.Query()

	var message string
	switch action := q.Get("status"); action {
	case "enable":
		api.mode.Enable(q.Get("msg"), api.clock.Now().UTC())
		logger.Warn("ops: maintenance mode enabled", zap.String("maintenance.message", q.Get("msg")))
		message = "Maintenance mode enabled successfully."
	case "disable":
		api.mode.Disable()
		logger.Info("ops: maintenance mode disabled")
		message = "Maintenance mode disabled successfully."
	case "":
		message = "Current maintenance mode."
	default:
		errResp := NewAPIError(requestID, http.StatusBadRequest, "unknown maintenance status. use enable or disable.", action)
		if err := WriteErrorResponse(r.Context(), w, errResp); err != nil {
			logger.Error("failed to send maintenance response", zap.Error(err))
		}
		return
	}

	resp := GenericResponse(requestID, http.StatusOK, message, nil, api.mode.State())
	if err := WriteResponse(r.Context(), w, resp); err != nil {
		logger.Error("failed to send maintenance response", zap.Error(err))
	}
}

// writeMaintenanceNotice answers a public request while maintenance is on.
func (api *APIHandler) writeMaintenanceNotice(w http.ResponseWriter, r *http.Request) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	state := api.mode.State()
	errResp := NewAPIError(requestID, http.StatusServiceUnavailable, "service currently unavailable.", state)
	if err := WriteErrorResponse(r.Context(), w, errResp); err != nil {
		api.logger.Error("failed to send maintenance notice", zap.String("request.id", requestID), zap.Error(err))
	}
}

// WrapHTTPHandler adapts a standard handler such as pprof or swagger to the router.
func WrapHTTPHandler(h http.Handler) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		h.ServeHTTP(w, r)
	}
}

var catalogBooks = expvar.NewInt("catalog.books")

// GetVars serves the published variables. The catalog size is
// refreshed on each call.
func (api *APIHandler) GetVars(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if stats, err := api.catalog.Statistics(r.Context()); err == nil {
		catalogBooks.Set(int64(stats.Total))
	}
	expvar.Handler().ServeHTTP(w, r)
}
