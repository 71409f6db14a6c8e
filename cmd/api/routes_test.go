package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"bookshelf/internal/book"
	"bookshelf/internal/httpx"
	"bookshelf/internal/store"
	"bookshelf/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()
	conn, err := store.Open(ctx, store.SQLite, filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, store.Migrate(ctx, conn))

	cfg := config{
		DBTimeout:      5 * time.Second,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
		MaxBodyBytes:   1 << 20,
	}
	return newRouter(conn, cfg, zap.NewNop(), httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))
}

func do(t *testing.T, h http.Handler, method, path string, body any) testutil.RecordResponse {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, testutil.NewRequest(method, path, body))
	return testutil.RecordHTTPResponse(w)
}

type bookBody struct {
	Title  string `json:"title,omitempty"`
	Genre  string `json:"genre,omitempty"`
	Author string `json:"author,omitempty"`
}

func TestRouting_BookLifecycle(t *testing.T) {
	h := newTestServer(t)

	// nothing is persisted by rejected creates
	res := do(t, h, http.MethodPost, "/books", bookBody{Genre: "SciFi", Author: "Herbert"})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Title is required", res.Message)

	res = do(t, h, http.MethodPost, "/books", bookBody{Title: "Dune", Genre: "SciFi", Author: "Herbert"})
	assert.Equal(t, http.StatusNotFound, res.Code)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/books", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/authors", nil).Code)

	res = do(t, h, http.MethodPost, "/genres", map[string]string{"genre": "SciFi"})
	require.Equal(t, http.StatusCreated, res.Code)

	// a new author is created once and the created book is returned
	res = do(t, h, http.MethodPost, "/books", bookBody{Title: "Dune", Genre: "SciFi", Author: "Herbert"})
	require.Equal(t, http.StatusCreated, res.Code)
	var created book.Response
	res.DecodeData(t, &created)
	assert.NotZero(t, created.ID)
	assert.Equal(t, book.Response{ID: created.ID, Title: "Dune", Author: "Herbert", Genre: "SciFi"}, created)

	res = do(t, h, http.MethodPost, "/books", bookBody{Title: "Children of Dune", Genre: "SciFi", Author: "Herbert"})
	require.Equal(t, http.StatusCreated, res.Code)

	res = do(t, h, http.MethodGet, "/authors", nil)
	require.Equal(t, http.StatusOK, res.Code)
	var authors []map[string]any
	res.DecodeData(t, &authors)
	assert.Len(t, authors, 1)

	// filters
	res = do(t, h, http.MethodGet, "/books?author=Herbert", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Filtered books", res.Message)
	var listed struct {
		Books []book.Response `json:"books"`
	}
	res.DecodeData(t, &listed)
	assert.Len(t, listed.Books, 2)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/books?genre=Fantasy", nil).Code)

	res = do(t, h, http.MethodGet, "/books/titles", nil)
	require.Equal(t, http.StatusOK, res.Code)
	var titles []string
	res.DecodeData(t, &titles)
	assert.Equal(t, []string{"Dune", "Children of Dune"}, titles)

	// identical update is a no-op
	res = do(t, h, http.MethodPut, "/books/Dune", bookBody{Title: "Dune", Genre: "SciFi", Author: "Herbert"})
	assert.Equal(t, http.StatusNotModified, res.Code)

	res = do(t, h, http.MethodPut, "/books/Dune", bookBody{Genre: "Poetry"})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = do(t, h, http.MethodPut, "/books/Dune", bookBody{Title: "Dune Messiah"})
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/books/Dune", nil).Code)

	res = do(t, h, http.MethodGet, "/books/Dune%20Messiah", nil)
	require.Equal(t, http.StatusOK, res.Code)
	var fetched book.Response
	res.DecodeData(t, &fetched)
	assert.Equal(t, created.ID, fetched.ID)

	res = do(t, h, http.MethodDelete, "/books/Children%20of%20Dune", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/books/Children%20of%20Dune", nil).Code)

	// bulk delete
	res = do(t, h, http.MethodDelete, "/books", nil)
	require.Equal(t, http.StatusOK, res.Code)
	var summary struct {
		DeletedCount int             `json:"deletedCount"`
		DeletedBooks []book.Response `json:"deletedBooks"`
	}
	res.DecodeData(t, &summary)
	assert.Equal(t, 1, summary.DeletedCount)
	assert.Len(t, summary.DeletedBooks, 1)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/books", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/books/titles", nil).Code)
}

func TestRouting_AuthorsAndGenres(t *testing.T) {
	h := newTestServer(t)

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/authors", map[string]string{"author": "Herbert"}).Code)
	assert.Equal(t, http.StatusConflict, do(t, h, http.MethodPost, "/authors", map[string]string{"author": "Herbert"}).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/authors/Herbert", nil).Code)

	res := do(t, h, http.MethodPut, "/authors/Herbert", map[string]string{"author": "Frank Herbert"})
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/authors/Herbert", nil).Code)

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/genres", map[string]string{"genre": "Fantasy"}).Code)
	assert.Equal(t, http.StatusConflict, do(t, h, http.MethodPost, "/genres", map[string]string{"genre": "Fantasy"}).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/genres", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/genres/Poetry", nil).Code)
}

func TestRouting_Infrastructure(t *testing.T) {
	h := newTestServer(t)

	res := do(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.NotEmpty(t, res.Header.Get("X-Request-Id"))
	assert.Equal(t, "nosniff", res.Header.Get("X-Content-Type-Options"))

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/readyz", nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodPatch, "/books", nil).Code)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/books", nil)
	r.Header.Set("X-Request-Id", "req-123")
	h.ServeHTTP(w, r)
	res = testutil.RecordHTTPResponse(w)
	assert.Equal(t, "req-123", res.Header.Get("X-Request-Id"))
	assert.Equal(t, "req-123", res.Meta["request_id"])
}
