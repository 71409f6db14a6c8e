package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// NewRequest creates a new HTTP request for testing. Non-nil bodies are
// JSON encoded.
func NewRequest(method, path string, body any) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// RecordResponse is a decoded response envelope.
type RecordResponse struct {
	Code    int
	Header  http.Header
	Success bool
	Message string
	Data    json.RawMessage
	Meta    map[string]any
	Error   map[string]any
}

// RecordHTTPResponse decodes the recorded response.
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var body struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
		Meta    map[string]any  `json:"meta"`
		Error   map[string]any  `json:"error"`
	}
	if len(bodyBytes) > 0 {
		_ = json.Unmarshal(bodyBytes, &body)
	}

	return RecordResponse{
		Code:    result.StatusCode,
		Header:  result.Header,
		Success: body.Success,
		Message: body.Message,
		Data:    body.Data,
		Meta:    body.Meta,
		Error:   body.Error,
	}
}

// DecodeData unmarshals the envelope's data into v, failing the test on error.
func (rr RecordResponse) DecodeData(t testing.TB, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Data, v); err != nil {
		t.Fatalf("decode data %s: %v", rr.Data, err)
	}
}
