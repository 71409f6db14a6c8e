package author

import (
	"errors"
	"net/http"
	"strings"

	"bookshelf/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type authorRequest struct {
	Author string `json:"author" validate:"required,max=255,printable"`
}

func decodeAuthorRequest(w http.ResponseWriter, r *http.Request) (authorRequest, bool) {
	var req authorRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid request body", nil)
		return req, false
	}
	req.Author = strings.TrimSpace(req.Author)
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONValidationError(w, r, details)
		return req, false
	}
	return req, true
}

// Create handles POST /authors
// @Summary Create author
// @Tags authors
// @Accept json
// @Produce json
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /authors [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAuthorRequest(w, r)
	if !ok {
		return
	}

	a, err := h.service.Create(r.Context(), req.Author)
	if err != nil {
		if errors.Is(err, ErrExists) {
			httpx.JSONError(w, r, http.StatusConflict, httpx.CodeConflict, "Author "+req.Author+" already exists", nil)
			return
		}
		httpx.JSONInternalError(w, r, "Error adding author", err)
		return
	}
	httpx.JSONCreated(w, r, a.Author+" was added", a)
}

// List handles GET /authors
// @Summary List authors
// @Tags authors
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /authors [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	authors, err := h.service.List(r.Context())
	if err != nil {
		httpx.JSONInternalError(w, r, "Error getting authors", err)
		return
	}
	if len(authors) == 0 {
		httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "No authors found", nil)
		return
	}
	httpx.JSONSuccess(w, r, "All authors", authors, nil)
}

// Get handles GET /authors/{author}
// @Summary Get author by name
// @Tags authors
// @Produce json
// @Param author path string true "Author name"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /authors/{author} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.Get(r.Context(), r.PathValue("author"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "Author not found", nil)
			return
		}
		httpx.JSONInternalError(w, r, "Error fetching author", err)
		return
	}
	httpx.JSONSuccess(w, r, "Single author fetched successfully", a, nil)
}

// Update handles PUT /authors/{author}
// @Summary Rename author
// @Tags authors
// @Accept json
// @Produce json
// @Param author path string true "Author name"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /authors/{author} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAuthorRequest(w, r)
	if !ok {
		return
	}

	res, err := h.service.Rename(r.Context(), r.PathValue("author"), req.Author)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "Author not found", nil)
		case errors.Is(err, ErrExists):
			httpx.JSONError(w, r, http.StatusConflict, httpx.CodeConflict, "Author "+req.Author+" already exists", nil)
		default:
			httpx.JSONInternalError(w, r, "Error updating author", err)
		}
		return
	}
	httpx.JSONSuccess(w, r, "Author updated successfully", res, nil)
}
