package book

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bookshelf/internal/author"
	"bookshelf/internal/genre"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	return env
}

func TestHTTPHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(m serviceMocks)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name: "success",
			body: `{"title":"Dune","genre":"SciFi","author":"Herbert"}`,
			setupMock: func(m serviceMocks) {
				m.genres.EXPECT().GetByName(gomock.Any(), "SciFi").Return(sciFi, nil)
				m.authors.EXPECT().FindOrCreate(gomock.Any(), "Herbert").Return(herbert, false, nil)
				m.books.EXPECT().Create(gomock.Any(), "Dune", herbert.ID, sciFi.ID).Return(int64(100), nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "Dune was added",
		},
		{
			name:           "missing title",
			body:           `{"genre":"SciFi","author":"Herbert"}`,
			setupMock:      func(m serviceMocks) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Title is required",
		},
		{
			name:           "missing genre",
			body:           `{"title":"Dune","author":"Herbert"}`,
			setupMock:      func(m serviceMocks) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Genre is required",
		},
		{
			name:           "blank author",
			body:           `{"title":"Dune","genre":"SciFi","author":"  "}`,
			setupMock:      func(m serviceMocks) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Author is required",
		},
		{
			name:           "malformed body",
			body:           `not json`,
			setupMock:      func(m serviceMocks) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid request body",
		},
		{
			name: "unknown genre",
			body: `{"title":"Odes","genre":"Poetry","author":"Keats"}`,
			setupMock: func(m serviceMocks) {
				m.genres.EXPECT().GetByName(gomock.Any(), "Poetry").Return(genre.Genre{}, genre.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "Genre Poetry not found. Genre needs to already exist",
		},
		{
			name: "store error",
			body: `{"title":"Dune","genre":"SciFi","author":"Herbert"}`,
			setupMock: func(m serviceMocks) {
				m.genres.EXPECT().GetByName(gomock.Any(), "SciFi").Return(genre.Genre{}, context.DeadlineExceeded)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "Error adding book",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestService(t)
			handler := NewHTTPHandler(svc)
			tt.setupMock(m)

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(tt.body))

			handler.Create(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedMsg, decodeEnvelope(t, w).Message)
		})
	}
}

func TestHTTPHandler_Create_ReturnsFormattedBook(t *testing.T) {
	svc, m := newTestService(t)
	handler := NewHTTPHandler(svc)
	m.genres.EXPECT().GetByName(gomock.Any(), "SciFi").Return(sciFi, nil)
	m.authors.EXPECT().FindOrCreate(gomock.Any(), "Herbert").Return(herbert, false, nil)
	m.books.EXPECT().Create(gomock.Any(), "Dune", herbert.ID, sciFi.ID).Return(int64(100), nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(`{"title":"Dune","genre":"SciFi","author":"Herbert"}`))
	handler.Create(w, r)

	require.Equal(t, http.StatusCreated, w.Code)
	var got Response
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &got))
	assert.Equal(t, Response{ID: 100, Title: "Dune", Author: "Herbert", Genre: "SciFi"}, got)
}

func TestHTTPHandler_List(t *testing.T) {
	t.Run("all books", func(t *testing.T) {
		svc, m := newTestService(t)
		handler := NewHTTPHandler(svc)
		m.books.EXPECT().List(gomock.Any(), Filter{}).Return([]Book{dune}, nil)

		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodGet, "/books", nil))

		require.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, "All books", env.Message)
		var data struct {
			Books []Response `json:"books"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, []Response{Format(dune)}, data.Books)
	})

	t.Run("filtered", func(t *testing.T) {
		svc, m := newTestService(t)
		handler := NewHTTPHandler(svc)
		m.books.EXPECT().List(gomock.Any(), Filter{Author: "Herbert", Genre: "SciFi"}).Return([]Book{dune}, nil)

		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodGet, "/books?author=Herbert&genre=SciFi", nil))

		require.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, "Filtered books", env.Message)
		assert.Equal(t, map[string]any{"author": "Herbert", "genre": "SciFi"}, env.Meta["query"])
	})

	t.Run("empty result", func(t *testing.T) {
		svc, m := newTestService(t)
		handler := NewHTTPHandler(svc)
		m.books.EXPECT().List(gomock.Any(), Filter{Title: "Nope"}).Return(nil, nil)

		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodGet, "/books?title=Nope", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("error", func(t *testing.T) {
		svc, m := newTestService(t)
		handler := NewHTTPHandler(svc)
		m.books.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, context.DeadlineExceeded)

		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodGet, "/books", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "INTERNAL_ERROR", decodeEnvelope(t, w).Error.Code)
	})
}

func TestHTTPHandler_Titles(t *testing.T) {
	svc, m := newTestService(t)
	handler := NewHTTPHandler(svc)

	m.books.EXPECT().Titles(gomock.Any()).Return([]string{"Dune"}, nil)
	w := httptest.NewRecorder()
	handler.Titles(w, httptest.NewRequest(http.MethodGet, "/books/titles", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	m.books.EXPECT().Titles(gomock.Any()).Return(nil, nil)
	w = httptest.NewRecorder()
	handler.Titles(w, httptest.NewRequest(http.MethodGet, "/books/titles", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHTTPHandler_GetByTitle(t *testing.T) {
	svc, m := newTestService(t)
	handler := NewHTTPHandler(svc)

	t.Run("success", func(t *testing.T) {
		m.books.EXPECT().GetByTitle(gomock.Any(), "Dune").Return(dune, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/books/Dune", nil)
		r.SetPathValue("title", "Dune")

		handler.GetByTitle(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		m.books.EXPECT().GetByTitle(gomock.Any(), "Missing").Return(Book{}, ErrNotFound)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/books/Missing", nil)
		r.SetPathValue("title", "Missing")

		handler.GetByTitle(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_UpdateByTitle(t *testing.T) {
	t.Run("no changes", func(t *testing.T) {
		svc, m := newTestService(t)
		handler := NewHTTPHandler(svc)
		m.books.EXPECT().GetByTitle(gomock.Any(), "Dune").Return(dune, nil)
		m.genres.EXPECT().GetByName(gomock.Any(), "SciFi").Return(sciFi, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPut, "/books/Dune", strings.NewReader(`{"title":"Dune","genre":"SciFi","author":"Herbert"}`))
		r.SetPathValue("title", "Dune")

		handler.UpdateByTitle(w, r)

		assert.Equal(t, http.StatusNotModified, w.Code)
		assert.Zero(t, w.Body.Len())
	})

	t.Run("changed", func(t *testing.T) {
		svc, m := newTestService(t)
		handler := NewHTTPHandler(svc)
		tolkien := author.Author{ID: 11, Author: "Tolkien"}
		after := Book{ID: dune.ID, Title: "Dune", Author: tolkien, Genre: fantasy}
		m.books.EXPECT().GetByTitle(gomock.Any(), "Dune").Return(dune, nil)
		m.genres.EXPECT().GetByName(gomock.Any(), "Fantasy").Return(fantasy, nil)
		m.authors.EXPECT().FindOrCreate(gomock.Any(), "Tolkien").Return(tolkien, true, nil)
		m.books.EXPECT().Update(gomock.Any(), dune.ID, "Dune", tolkien.ID, fantasy.ID).Return(nil)
		m.books.EXPECT().GetByID(gomock.Any(), dune.ID).Return(after, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPut, "/books/Dune", strings.NewReader(`{"genre":"Fantasy","author":"Tolkien"}`))
		r.SetPathValue("title", "Dune")

		handler.UpdateByTitle(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		var data updateResponse
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &data))
		assert.Equal(t, Format(dune), data.BeforeUpdate)
		assert.Equal(t, Format(after), data.AfterUpdate)
	})

	t.Run("invalid genre", func(t *testing.T) {
		svc, m := newTestService(t)
		handler := NewHTTPHandler(svc)
		m.books.EXPECT().GetByTitle(gomock.Any(), "Dune").Return(dune, nil)
		m.genres.EXPECT().GetByName(gomock.Any(), "Poetry").Return(genre.Genre{}, genre.ErrNotFound)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPut, "/books/Dune", strings.NewReader(`{"genre":"Poetry"}`))
		r.SetPathValue("title", "Dune")

		handler.UpdateByTitle(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid genre", decodeEnvelope(t, w).Message)
	})

	t.Run("book not found", func(t *testing.T) {
		svc, m := newTestService(t)
		handler := NewHTTPHandler(svc)
		m.books.EXPECT().GetByTitle(gomock.Any(), "Missing").Return(Book{}, ErrNotFound)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPut, "/books/Missing", strings.NewReader(`{"title":"Found"}`))
		r.SetPathValue("title", "Missing")

		handler.UpdateByTitle(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_DeleteByTitle(t *testing.T) {
	svc, m := newTestService(t)
	handler := NewHTTPHandler(svc)

	m.books.EXPECT().GetByTitle(gomock.Any(), "Dune").Return(dune, nil)
	m.books.EXPECT().Delete(gomock.Any(), dune.ID).Return(nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodDelete, "/books/Dune", nil)
	r.SetPathValue("title", "Dune")

	handler.DeleteByTitle(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var got Response
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &got))
	assert.Equal(t, Format(dune), got)
}

func TestHTTPHandler_DeleteAll(t *testing.T) {
	t.Run("empty table", func(t *testing.T) {
		svc, m := newTestService(t)
		handler := NewHTTPHandler(svc)
		m.books.EXPECT().DeleteAll(gomock.Any()).Return(nil, nil)

		w := httptest.NewRecorder()
		handler.DeleteAll(w, httptest.NewRequest(http.MethodDelete, "/books", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("deletes everything", func(t *testing.T) {
		svc, m := newTestService(t)
		handler := NewHTTPHandler(svc)
		other := Book{ID: 101, Title: "Children of Dune", Author: herbert, Genre: sciFi}
		m.books.EXPECT().DeleteAll(gomock.Any()).Return([]Book{dune, other}, nil)

		w := httptest.NewRecorder()
		handler.DeleteAll(w, httptest.NewRequest(http.MethodDelete, "/books", nil))

		require.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, "2 books deleted.", env.Message)
		var data deleteAllResponse
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, 2, data.DeletedCount)
		assert.Equal(t, FormatAll([]Book{dune, other}), data.DeletedBooks)
	})
}
