package main

import (
	"context"
	"net/http"
	"time"

	"bookshelf/internal/author"
	"bookshelf/internal/book"
	"bookshelf/internal/genre"
	"bookshelf/internal/httpx"
	"bookshelf/internal/store"

	"go.uber.org/zap"
)

func newRouter(conn *store.Conn, cfg config, logger *zap.Logger, limiter *httpx.RateLimitMiddleware) http.Handler {
	authorRepository := store.NewAuthorRepo(conn, cfg.DBTimeout)
	genreRepository := store.NewGenreRepo(conn, cfg.DBTimeout)
	bookRepository := store.NewBookRepo(conn, cfg.DBTimeout)

	bookHandler := book.NewHTTPHandler(book.NewService(bookRepository, authorRepository, genreRepository, logger))
	authorHandler := author.NewHTTPHandler(author.NewService(authorRepository, logger))
	genreHandler := genre.NewHTTPHandler(genre.NewService(genreRepository))

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := conn.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.HandleFunc("POST /books", bookHandler.Create)
	router.HandleFunc("GET /books", bookHandler.List)
	router.HandleFunc("DELETE /books", bookHandler.DeleteAll)
	router.HandleFunc("GET /books/titles", bookHandler.Titles)
	router.HandleFunc("GET /books/{title}", bookHandler.GetByTitle)
	router.HandleFunc("PUT /books/{title}", bookHandler.UpdateByTitle)
	router.HandleFunc("DELETE /books/{title}", bookHandler.DeleteByTitle)

	router.HandleFunc("POST /authors", authorHandler.Create)
	router.HandleFunc("GET /authors", authorHandler.List)
	router.HandleFunc("GET /authors/{author}", authorHandler.Get)
	router.HandleFunc("PUT /authors/{author}", authorHandler.Update)

	router.HandleFunc("POST /genres", genreHandler.Create)
	router.HandleFunc("GET /genres", genreHandler.List)
	router.HandleFunc("GET /genres/{genre}", genreHandler.Get)

	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(logger),
		httpx.RecoveryMiddleware(logger),
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.CORSMiddleware(cfg.CORSOrigins),
		limiter.Middleware,
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
	)
}
