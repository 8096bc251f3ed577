package main

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// AddBook godoc
// @Summary  Add a book to the catalog
// @Tags     books
// @Accept   json
// @Produce  json
// @Param    book  body      AddBookRequest  true  "book to add"
// @Success  201   {object}  APIResponse
// @Failure  400   {object}  APIError
// @Router   /v1/books [post]
func (api *APIHandler) AddBook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req AddBookRequest
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	logger := api.GetLoggerFromContext(r.Context())
	err := DecodeAddBookRequestBody(r, &req)
	if err != nil {
		logger.Error("failed to add book", zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to add the book", "invalid request body")
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			logger.Error("failed to send error response", zap.Error(err))
		}
		return
	}

	year, err := ParseYear(req.Year)
	if err != nil {
		logger.Error("failed to add book", zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to add the book", err.Error())
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			logger.Error("failed to send error response", zap.Error(err))
		}
		return
	}

	book, err := api.catalog.Add(r.Context(), req.Title, req.Author, year, req.Genre, req.Read)
	if err != nil {
		logger.Error("failed to add book", zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to add the book", book)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			logger.Error("failed to send error response", zap.Error(err))
		}
		return
	}
	resp := GenericResponse(requestID, http.StatusCreated, "Book added successfully!", nil, book)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		logger.Error("failed to send response", zap.Error(err))
	}
}

// RemoveBook godoc
// @Summary  Remove every book with the given title, ignoring case
// @Tags     books
// @Produce  json
// @Param    title  query     string  true  "title of the book"
// @Success  200    {object}  APIResponse
// @Failure  404    {object}  APIError
// @Router   /v1/books [delete]
func (api *APIHandler) RemoveBook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	logger := api.GetLoggerFromContext(r.Context())
	title := r.URL.Query().Get("title")
	removed, err := api.catalog.Remove(r.Context(), title)
	if errors.Is(err, ErrBookNotFound) {
		logger.Warn("book does not exist", zap.String("book.title", title))
		errResp := NewAPIError(requestID, http.StatusNotFound, "Book not found!", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			logger.Error("failed to send error response", zap.Error(err))
		}
		return
	}
	if err != nil {
		logger.Error("failed to remove book", zap.String("book.title", title), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to remove the book", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			logger.Error("failed to send error response", zap.Error(err))
		}
		return
	}
	resp := GenericResponse(requestID, http.StatusOK, "Book removed successfully!", nil, map[string]int{"removed": removed})
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		logger.Error("failed to send response", zap.Error(err))
	}
}

// SearchBooks godoc
// @Summary  Search books by title or author substring, ignoring case
// @Tags     books
// @Produce  json,plain
// @Param    q       query     string  false  "search term"
// @Param    by      query     string  false  "title or author"  default(title)
// @Param    format  query     string  false  "text for display lines"
// @Success  200     {object}  APIResponse
// @Failure  400     {object}  APIError
// @Router   /v1/books/search [get]
func (api *APIHandler) SearchBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	logger := api.GetLoggerFromContext(r.Context())
	q := r.URL.Query()
	by := q.Get("by")
	if by == "" {
		by = string(SearchByTitle)
	}
	field, err := ParseSearchField(by)
	if err != nil {
		logger.Error("failed to search books", zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to search books", err.Error())
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			logger.Error("failed to send error response", zap.Error(err))
		}
		return
	}

	books, err := api.catalog.Search(r.Context(), q.Get("q"), field)
	if err != nil {
		logger.Error("failed to search books", zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to search books", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			logger.Error("failed to send error response", zap.Error(err))
		}
		return
	}

	message := "Matching books fetched successfully."
	if len(books) == 0 {
		message = "No matching books found!"
	}
	if WantsText(r) {
		lines := []string{message}
		if len(books) > 0 {
			lines = make([]string, 0, len(books))
			for _, b := range books {
				lines = append(lines, b.String())
			}
		}
		err = WriteTextResponse(r.Context(), w, http.StatusOK, lines)
	} else {
		total := len(books)
		err = WriteResponse(r.Context(), w, GenericResponse(requestID, http.StatusOK, message, &total, books))
	}
	if err != nil {
		logger.Error("failed to send response", zap.Error(err))
	}
}

// ListBooks godoc
// @Summary  List all books in insertion order
// @Tags     books
// @Produce  json,plain
// @Param    format  query     string  false  "text for display lines"
// @Success  200     {object}  APIResponse
// @Router   /v1/books [get]
func (api *APIHandler) ListBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	logger := api.GetLoggerFromContext(r.Context())
	books, err := api.catalog.ListAll(r.Context())
	if err != nil {
		logger.Error("failed to list books", zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to list books", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			logger.Error("failed to send error response", zap.Error(err))
		}
		return
	}

	message := "All books fetched successfully."
	if len(books) == 0 {
		message = "Your library is empty!"
	}
	if WantsText(r) {
		lines := FormatCatalog(books)
		if len(lines) == 0 {
			lines = []string{message}
		}
		err = WriteTextResponse(r.Context(), w, http.StatusOK, lines)
	} else {
		total := len(books)
		err = WriteResponse(r.Context(), w, GenericResponse(requestID, http.StatusOK, message, &total, books))
	}
	if err != nil {
		logger.Error("failed to send response", zap.Error(err))
	}
}

// GetCatalogStats godoc
// @Summary  Total books and percentage read
// @Tags     books
// @Produce  json,plain
// @Param    format  query     string  false  "text for display lines"
// @Success  200     {object}  APIResponse
// @Router   /v1/books/stats [get]
func (api *APIHandler) GetCatalogStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	logger := api.GetLoggerFromContext(r.Context())
	stats, err := api.catalog.Statistics(r.Context())
	if err != nil {
		logger.Error("failed to compute catalog statistics", zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to compute statistics", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			logger.Error("failed to send error response", zap.Error(err))
		}
		return
	}
	if WantsText(r) {
		err = WriteTextResponse(r.Context(), w, http.StatusOK, []string{stats.String()})
	} else {
		err = WriteResponse(r.Context(), w, GenericResponse(requestID, http.StatusOK, "Statistics computed successfully.", nil, stats))
	}
	if err != nil {
		logger.Error("failed to send response", zap.Error(err))
	}
}
