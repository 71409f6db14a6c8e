package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bookshelf/internal/genre"

	sq "github.com/Masterminds/squirrel"
)

type GenreRepo struct {
	repo
}

func NewGenreRepo(c *Conn, timeout time.Duration) *GenreRepo {
	return &GenreRepo{repo: newRepo(c, timeout)}
}

func (r *GenreRepo) List(ctx context.Context) ([]genre.Genre, error) {
	query, args, err := r.sq.Select("id", "genre").From("genres").OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(timeoutCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	defer rows.Close()

	var out []genre.Genre
	for rows.Next() {
		var g genre.Genre
		if err := rows.Scan(&g.ID, &g.Genre); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *GenreRepo) GetByName(ctx context.Context, name string) (genre.Genre, error) {
	query, args, err := r.sq.Select("id", "genre").
		From("genres").
		Where(sq.Eq{"genre": name}).
		Limit(1).
		ToSql()
	if err != nil {
		return genre.Genre{}, err
	}

	var g genre.Genre
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRowContext(timeoutCtx, query, args...).Scan(&g.ID, &g.Genre); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return genre.Genre{}, genre.ErrNotFound
		}
		return genre.Genre{}, fmt.Errorf("get genre %q: %w", name, err)
	}
	return g, nil
}

func (r *GenreRepo) Create(ctx context.Context, name string) (genre.Genre, error) {
	query, args, err := r.sq.Insert("genres").
		Columns("genre").
		Values(name).
		Suffix("ON CONFLICT (genre) DO NOTHING RETURNING id").
		ToSql()
	if err != nil {
		return genre.Genre{}, err
	}

	g := genre.Genre{Genre: name}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRowContext(timeoutCtx, query, args...).Scan(&g.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return genre.Genre{}, genre.ErrExists
		}
		return genre.Genre{}, fmt.Errorf("create genre %q: %w", name, err)
	}
	return g, nil
}
