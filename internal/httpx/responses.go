package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
)

// SuccessResponse is the envelope for every successful response.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Meta    any    `json:"meta,omitempty"`
}

// ErrorResponse is the envelope for every failed response.
type ErrorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Error   ErrorResponseBody `json:"error"`
	Meta    any               `json:"meta,omitempty"`
}

type ErrorResponseBody struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

const (
	CodeBadRequest = "BAD_REQUEST"
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeConflict   = "CONFLICT"
	CodeInternal   = "INTERNAL_ERROR"
	CodeRateLimit  = "RATE_LIMIT_EXCEEDED"
)

func buildMeta(r *http.Request, customMeta map[string]any) any {
	requestID := RequestIDFrom(r)
	if requestID == "" && len(customMeta) == 0 {
		return nil
	}
	meta := make(map[string]any, len(customMeta)+1)
	if requestID != "" {
		meta["request_id"] = requestID
	}
	for k, v := range customMeta {
		meta[k] = v
	}
	return meta
}

// bodyAllowed mirrors net/http: 1xx, 204 and 304 responses carry no body.
func bodyAllowed(status int) bool {
	switch {
	case status >= 100 && status <= 199:
		return false
	case status == http.StatusNoContent, status == http.StatusNotModified:
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	if !bodyAllowed(status) {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONStatus writes a success envelope with an arbitrary status code.
func JSONStatus(w http.ResponseWriter, r *http.Request, status int, message string, data any, meta map[string]any) {
	writeJSON(w, status, SuccessResponse{
		Success: status < http.StatusMultipleChoices,
		Message: message,
		Data:    data,
		Meta:    buildMeta(r, meta),
	})
}

func JSONSuccess(w http.ResponseWriter, r *http.Request, message string, data any, meta map[string]any) {
	JSONStatus(w, r, http.StatusOK, message, data, meta)
}

func JSONCreated(w http.ResponseWriter, r *http.Request, message string, data any) {
	JSONStatus(w, r, http.StatusCreated, message, data, nil)
}

func JSONNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func JSONError(w http.ResponseWriter, r *http.Request, status int, code string, message string, details []ErrorDetail) {
	writeJSON(w, status, ErrorResponse{
		Success: false,
		Message: message,
		Error: ErrorResponseBody{
			Code:    code,
			Message: message,
			Details: details,
		},
		Meta: buildMeta(r, nil),
	})
}

// JSONInternalError reports an unexpected failure, surfacing the cause.
func JSONInternalError(w http.ResponseWriter, r *http.Request, message string, err error) {
	var details []ErrorDetail
	if err != nil {
		details = []ErrorDetail{{Field: "cause", Message: err.Error()}}
	}
	JSONError(w, r, http.StatusInternalServerError, CodeInternal, message, details)
}

// JSONValidationError reports failed request validation. The first detail
// becomes the envelope message.
func JSONValidationError(w http.ResponseWriter, r *http.Request, details []ErrorDetail) {
	message := "Validation failed"
	if len(details) > 0 {
		message = details[0].Message
	}
	JSONError(w, r, http.StatusBadRequest, CodeValidation, message, details)
}

// DecodeJSON decodes the request body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}
