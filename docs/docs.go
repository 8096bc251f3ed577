// Package docs registers the swagger specification of the catalog api.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/v1/books": {
            "get": {
                "produces": ["application/json", "text/plain"],
                "tags": ["books"],
                "summary": "List all books in insertion order",
                "parameters": [
                    {"type": "string", "description": "text for display lines", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/main.APIResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["books"],
                "summary": "Add a book to the catalog",
                "parameters": [
                    {"description": "book to add", "name": "book", "in": "body", "required": true, "schema": {"$ref": "#/definitions/main.AddBookRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/main.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/main.APIError"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["books"],
                "summary": "Remove every book with the given title, ignoring case",
                "parameters": [
                    {"type": "string", "description": "title of the book", "name": "title", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/main.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/main.APIError"}}
                }
            }
        },
        "/v1/books/search": {
            "get": {
                "produces": ["application/json", "text/plain"],
                "tags": ["books"],
                "summary": "Search books by title or author substring, ignoring case",
                "parameters": [
                    {"type": "string", "description": "search term", "name": "q", "in": "query"},
                    {"type": "string", "default": "title", "description": "title or author", "name": "by", "in": "query"},
                    {"type": "string", "description": "text for display lines", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/main.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/main.APIError"}}
                }
            }
        },
        "/v1/books/stats": {
            "get": {
                "produces": ["application/json", "text/plain"],
                "tags": ["books"],
                "summary": "Total books and percentage read",
                "parameters": [
                    {"type": "string", "description": "text for display lines", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/main.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "main.AddBookRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "author": {"type": "string"},
                "year": {"type": "string"},
                "genre": {"type": "string"},
                "read": {"type": "boolean"}
            }
        },
        "main.APIError": {
            "type": "object",
            "properties": {
                "requestid": {"type": "string"},
                "status": {"type": "integer"},
                "message": {"type": "string"},
                "data": {}
            }
        },
        "main.APIResponse": {
            "type": "object",
            "properties": {
                "requestid": {"type": "string"},
                "status": {"type": "integer"},
                "message": {"type": "string"},
                "total": {"type": "integer"},
                "data": {}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Book Catalog API",
	Description:      "Single-user book catalog persisted as a JSON document.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
