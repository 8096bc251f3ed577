package main

import (
	"github.com/julienschmidt/httprouter"
)

// SetupBookRoutes injects the catalog related api endpoints.
func (api *APIHandler) SetupBookRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.GET("/", m.public(api.Index))
	router.GET("/status", m.public(api.Status))
	router.POST("/v1/books", m.public(api.AddBook))
	router.GET("/v1/books", m.public(api.ListBooks))
	router.DELETE("/v1/books", m.public(api.RemoveBook))
	router.GET("/v1/books/search", m.public(api.SearchBooks))
	router.GET("/v1/books/stats", m.public(api.GetCatalogStats))
	return router
}
