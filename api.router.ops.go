package main

import (
	"net/http"
	"net/http/pprof"

	"github.com/julienschmidt/httprouter"
)

// SetupOpsRoutes injects internal operations related endpoints.
// Profiling endpoints are only exposed when explicitly enabled.
func (api *APIHandler) SetupOpsRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.GET("/ops/configs", m.ops(api.GetConfigs))
	router.GET("/ops/stats", m.ops(api.GetStatistics))
	router.GET("/ops/maintenance", m.ops(api.Maintenance))
	router.GET("/ops/debug/vars", m.ops(api.GetVars))

	if !api.config.ProfilerEndpointsEnable {
		return router
	}
	profiles := map[string]httprouter.Handle{
		"/ops/debug/pprof/":        WrapHTTPHandler(http.HandlerFunc(pprof.Index)),
		"/ops/debug/pprof/profile": WrapHTTPHandler(http.HandlerFunc(pprof.Profile)),
		"/ops/debug/pprof/trace":   WrapHTTPHandler(http.HandlerFunc(pprof.Trace)),
	}
	for _, name := range []string{"heap", "allocs", "goroutine", "block", "mutex"} {
		profiles["/ops/debug/pprof/"+name] = WrapHTTPHandler(pprof.Handler(name))
	}
	for path, h := range profiles {
		router.GET(path, m.ops(h))
	}
	return router
}
