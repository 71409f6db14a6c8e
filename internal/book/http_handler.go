package book

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"bookshelf/internal/genre"
	"bookshelf/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type createRequest struct {
	Title  string `json:"title" validate:"required,max=255,printable"`
	Genre  string `json:"genre" validate:"required,max=255,printable"`
	Author string `json:"author" validate:"required,max=255,printable"`
}

type updateRequest struct {
	Title  string `json:"title" validate:"omitempty,max=255,printable"`
	Genre  string `json:"genre" validate:"omitempty,max=255,printable"`
	Author string `json:"author" validate:"omitempty,max=255,printable"`
}

func (in Input) trimmed() Input {
	return Input{
		Title:  strings.TrimSpace(in.Title),
		Genre:  strings.TrimSpace(in.Genre),
		Author: strings.TrimSpace(in.Author),
	}
}

type updateResponse struct {
	BeforeUpdate Response `json:"beforeUpdate"`
	AfterUpdate  Response `json:"afterUpdate"`
}

type deleteAllResponse struct {
	DeletedCount int        `json:"deletedCount"`
	DeletedBooks []Response `json:"deletedBooks"`
}

// Create handles POST /books
// @Summary Add book
// @Description Add a book; the genre must exist, the author is created when missing
// @Tags books
// @Accept json
// @Produce json
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid request body", nil)
		return
	}
	in := Input(req).trimmed()
	if details := httpx.ValidateStruct(createRequest(in)); details != nil {
		httpx.JSONValidationError(w, r, details)
		return
	}

	b, err := h.service.Create(r.Context(), in)
	if err != nil {
		if errors.Is(err, genre.ErrNotFound) {
			msg := fmt.Sprintf("Genre %s not found. Genre needs to already exist", in.Genre)
			httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, msg, nil)
			return
		}
		httpx.JSONInternalError(w, r, "Error adding book", err)
		return
	}
	httpx.JSONCreated(w, r, b.Title+" was added", Format(b))
}

// List handles GET /books
// @Summary List books
// @Description Get all books, optionally filtered by exact title, author or genre
// @Tags books
// @Produce json
// @Param title query string false "Filter by title"
// @Param author query string false "Filter by author"
// @Param genre query string false "Filter by genre"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	f := Filter{
		Title:  query.Get("title"),
		Author: query.Get("author"),
		Genre:  query.Get("genre"),
	}

	books, err := h.service.List(r.Context(), f)
	if err != nil {
		httpx.JSONInternalError(w, r, "Error getting books", err)
		return
	}
	if len(books) == 0 {
		httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "No books found", nil)
		return
	}

	applied := f.Applied()
	message := "All books"
	if len(applied) > 0 {
		message = "Filtered books"
	}
	httpx.JSONSuccess(w, r, message, map[string]any{"books": FormatAll(books)}, map[string]any{
		"query": applied,
	})
}

// Titles handles GET /books/titles
// @Summary List book titles
// @Tags books
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/titles [get]
func (h *HTTPHandler) Titles(w http.ResponseWriter, r *http.Request) {
	titles, err := h.service.Titles(r.Context())
	if err != nil {
		httpx.JSONInternalError(w, r, "Error fetching titles", err)
		return
	}
	if len(titles) == 0 {
		httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "No titles found", nil)
		return
	}
	httpx.JSONSuccess(w, r, "Titles fetched successfully", titles, nil)
}

// GetByTitle handles GET /books/{title}
// @Summary Get book by title
// @Tags books
// @Produce json
// @Param title path string true "Book title"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{title} [get]
func (h *HTTPHandler) GetByTitle(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.GetByTitle(r.Context(), r.PathValue("title"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "Book not found", nil)
			return
		}
		httpx.JSONInternalError(w, r, "Error fetching book", err)
		return
	}
	httpx.JSONSuccess(w, r, "Single book fetched successfully", Format(b), nil)
}

// UpdateByTitle handles PUT /books/{title}
// @Summary Update book by title
// @Description Replace title, genre and author; omitted fields keep their value. 304 when nothing changes.
// @Tags books
// @Accept json
// @Produce json
// @Param title path string true "Book title"
// @Success 200 {object} httpx.SuccessResponse
// @Success 304
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{title} [put]
func (h *HTTPHandler) UpdateByTitle(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid request body", nil)
		return
	}
	in := Input(req).trimmed()
	if details := httpx.ValidateStruct(updateRequest(in)); details != nil {
		httpx.JSONValidationError(w, r, details)
		return
	}

	res, err := h.service.UpdateByTitle(r.Context(), r.PathValue("title"), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "Book not found", nil)
		case errors.Is(err, ErrInvalidGenre):
			httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Invalid genre", []httpx.ErrorDetail{
				{Field: "genre", Message: fmt.Sprintf("Genre %s does not exist", in.Genre)},
			})
		default:
			httpx.JSONInternalError(w, r, "Error updating book", err)
		}
		return
	}

	data := updateResponse{BeforeUpdate: Format(res.Before), AfterUpdate: Format(res.After)}
	if !res.Changed {
		httpx.JSONStatus(w, r, http.StatusNotModified, "No changes detected. Book not updated.", data, nil)
		return
	}
	httpx.JSONSuccess(w, r, "Book updated successfully", data, nil)
}

// DeleteByTitle handles DELETE /books/{title}
// @Summary Delete book by title
// @Tags books
// @Produce json
// @Param title path string true "Book title"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{title} [delete]
func (h *HTTPHandler) DeleteByTitle(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.DeleteByTitle(r.Context(), r.PathValue("title"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "Book not found", nil)
			return
		}
		httpx.JSONInternalError(w, r, "Error deleting book", err)
		return
	}
	httpx.JSONSuccess(w, r, "Single book deleted successfully", Format(b), nil)
}

// DeleteAll handles DELETE /books
// @Summary Delete all books
// @Tags books
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Success 204
// @Failure 500 {object} httpx.ErrorResponse
// @Router /books [delete]
func (h *HTTPHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.service.DeleteAll(r.Context())
	if err != nil {
		httpx.JSONInternalError(w, r, "Error deleting books", err)
		return
	}
	if len(deleted) == 0 {
		httpx.JSONNoContent(w)
		return
	}
	httpx.JSONSuccess(w, r, fmt.Sprintf("%d books deleted.", len(deleted)), deleteAllResponse{
		DeletedCount: len(deleted),
		DeletedBooks: FormatAll(deleted),
	}, nil)
}
