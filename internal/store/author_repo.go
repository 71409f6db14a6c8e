package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bookshelf/internal/author"

	sq "github.com/Masterminds/squirrel"
)

type AuthorRepo struct {
	repo
}

func NewAuthorRepo(c *Conn, timeout time.Duration) *AuthorRepo {
	return &AuthorRepo{repo: newRepo(c, timeout)}
}

func (r *AuthorRepo) List(ctx context.Context) ([]author.Author, error) {
	query, args, err := r.sq.Select("id", "author").From("authors").OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(timeoutCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	defer rows.Close()

	var out []author.Author
	for rows.Next() {
		var a author.Author
		if err := rows.Scan(&a.ID, &a.Author); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AuthorRepo) GetByName(ctx context.Context, name string) (author.Author, error) {
	query, args, err := r.sq.Select("id", "author").
		From("authors").
		Where(sq.Eq{"author": name}).
		Limit(1).
		ToSql()
	if err != nil {
		return author.Author{}, err
	}

	var a author.Author
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRowContext(timeoutCtx, query, args...).Scan(&a.ID, &a.Author); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return author.Author{}, author.ErrNotFound
		}
		return author.Author{}, fmt.Errorf("get author %q: %w", name, err)
	}
	return a, nil
}

// insert adds the author unless the name is taken. ok is false when a row
// with that name already existed.
func (r *AuthorRepo) insert(ctx context.Context, name string) (a author.Author, ok bool, err error) {
	query, args, err := r.sq.Insert("authors").
		Columns("author").
		Values(name).
		Suffix("ON CONFLICT (author) DO NOTHING RETURNING id").
		ToSql()
	if err != nil {
		return author.Author{}, false, err
	}

	a = author.Author{Author: name}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRowContext(timeoutCtx, query, args...).Scan(&a.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return author.Author{}, false, nil
		}
		return author.Author{}, false, fmt.Errorf("insert author %q: %w", name, err)
	}
	return a, true, nil
}

func (r *AuthorRepo) Create(ctx context.Context, name string) (author.Author, error) {
	a, ok, err := r.insert(ctx, name)
	if err != nil {
		return author.Author{}, err
	}
	if !ok {
		return author.Author{}, author.ErrExists
	}
	return a, nil
}

// FindOrCreate looks the author up first so existing names never burn a
// sequence value. A concurrent insert of the same name loses on the UNIQUE
// constraint and falls back to the lookup.
func (r *AuthorRepo) FindOrCreate(ctx context.Context, name string) (author.Author, bool, error) {
	a, err := r.GetByName(ctx, name)
	if err == nil {
		return a, false, nil
	}
	if !errors.Is(err, author.ErrNotFound) {
		return author.Author{}, false, err
	}

	a, created, err := r.insert(ctx, name)
	if err != nil || created {
		return a, created, err
	}
	a, err = r.GetByName(ctx, name)
	return a, false, err
}

func (r *AuthorRepo) Rename(ctx context.Context, id int64, name string) (author.Author, error) {
	query, args, err := r.sq.Update("authors").
		Set("author", name).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return author.Author{}, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	res, err := r.db.ExecContext(timeoutCtx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return author.Author{}, author.ErrExists
		}
		return author.Author{}, fmt.Errorf("rename author %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return author.Author{}, err
	} else if n == 0 {
		return author.Author{}, author.ErrNotFound
	}
	return author.Author{ID: id, Author: name}, nil
}
