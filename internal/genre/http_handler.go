package genre

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

type createRequest struct {
	Genre string `json:"genre" validate:"required,max=255,printable"`
}

// Create handles POST /genres
// @Summary Create genre
// @Tags genres
// @Accept json
// @Produce json
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /genres [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid request body", nil)
		return
	}
	req.Genre = strings.TrimSpace(req.Genre)
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONValidationError(w, r, details)
		return
	}

	g, err := h.service.Create(r.Context(), req.Genre)
	if err != nil {
		if errors.Is(err, ErrExists) {
			httpx.JSONError(w, r, http.StatusConflict, httpx.CodeConflict, "Genre "+req.Genre+" already exists", nil)
			return
		}
		httpx.JSONInternalError(w, r, "Error adding genre", err)
		return
	}
	httpx.JSONCreated(w, r, g.Genre+" was added", g)
}

// List handles GET /genres
// @Summary List genres
// @Tags genres
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /genres [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	genres, err := h.service.List(r.Context())
	if err != nil {
		httpx.JSONInternalError(w, r, "Error getting genres", err)
		return
	}
	if len(genres) == 0 {
		httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "No genres found", nil)
		return
	}
	httpx.JSONSuccess(w, r, "All genres", genres, nil)
}

// Get handles GET /genres/{genre}
// @Summary Get genre by name
// @Tags genres
// @Produce json
// @Param genre path string true "Genre name"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /genres/{genre} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.service.Get(r.Context(), r.PathValue("genre"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "Genre not found", nil)
			return
		}
		httpx.JSONInternalError(w, r, "Error fetching genre", err)
		return
	}
	httpx.JSONSuccess(w, r, "Single genre fetched successfully", g, nil)
}
