package store

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"bookshelf/internal/book"

	sq "github.com/Masterminds/squirrel"
	"github.com/samber/lo"
)

type BookRepo struct {
	repo
}

func NewBookRepo(c *Conn, timeout time.Duration) *BookRepo {
	return &BookRepo{repo: newRepo(c, timeout)}
}

// selectBooks joins every book with its author and genre.
func (r *BookRepo) selectBooks() sq.SelectBuilder {
	return r.sq.Select("b.id", "b.title", "a.id", "a.author", "g.id", "g.genre").
		From("books b").
		Join("authors a ON a.id = b.author_id").
		Join("genres g ON g.id = b.genre_id").
		OrderBy("b.id")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (book.Book, error) {
	var b book.Book
	err := row.Scan(&b.ID, &b.Title, &b.Author.ID, &b.Author.Author, &b.Genre.ID, &b.Genre.Genre)
	return b, err
}

func scanBooks(rows *sql.Rows) ([]book.Book, error) {
	defer rows.Close()
	var out []book.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BookRepo) List(ctx context.Context, f book.Filter) ([]book.Book, error) {
	builder := r.selectBooks()
	if f.Title != "" {
		builder = builder.Where(sq.Eq{"b.title": f.Title})
	}
	if f.Author != "" {
		builder = builder.Where(sq.Eq{"a.author": f.Author})
	}
	if f.Genre != "" {
		builder = builder.Where(sq.Eq{"g.genre": f.Genre})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(timeoutCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return scanBooks(rows)
}

func (r *BookRepo) Titles(ctx context.Context) ([]string, error) {
	query, args, err := r.sq.Select("title").From("books").OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(timeoutCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

func (r *BookRepo) getOne(ctx context.Context, where sq.Eq) (book.Book, error) {
	query, args, err := r.selectBooks().Where(where).Limit(1).ToSql()
	if err != nil {
		return book.Book{}, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRowContext(timeoutCtx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return book.Book{}, book.ErrNotFound
		}
		return book.Book{}, err
	}
	return b, nil
}

// GetByTitle returns the oldest book with the given title.
func (r *BookRepo) GetByTitle(ctx context.Context, title string) (book.Book, error) {
	b, err := r.getOne(ctx, sq.Eq{"b.title": title})
	if err != nil && !errors.Is(err, book.ErrNotFound) {
		return book.Book{}, fmt.Errorf("get book %q: %w", title, err)
	}
	return b, err
}

func (r *BookRepo) GetByID(ctx context.Context, id int64) (book.Book, error) {
	b, err := r.getOne(ctx, sq.Eq{"b.id": id})
	if err != nil && !errors.Is(err, book.ErrNotFound) {
		return book.Book{}, fmt.Errorf("get book %d: %w", id, err)
	}
	return b, err
}

func (r *BookRepo) Create(ctx context.Context, title string, authorID, genreID int64) (int64, error) {
	query, args, err := r.sq.Insert("books").
		Columns("title", "author_id", "genre_id").
		Values(title, authorID, genreID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRowContext(timeoutCtx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert book: %w", err)
	}
	return id, nil
}

func (r *BookRepo) Update(ctx context.Context, id int64, title string, authorID, genreID int64) error {
	query, args, err := r.sq.Update("books").
		Set("title", title).
		Set("author_id", authorID).
		Set("genre_id", genreID).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	return r.execOne(ctx, query, args)
}

func (r *BookRepo) Delete(ctx context.Context, id int64) error {
	query, args, err := r.sq.Delete("books").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	return r.execOne(ctx, query, args)
}

// execOne runs a statement expected to touch exactly one book.
func (r *BookRepo) execOne(ctx context.Context, query string, args []any) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	res, err := r.db.ExecContext(timeoutCtx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return book.ErrNotFound
	}
	return nil
}

// DeleteAll removes every book in one transaction. The returned rows are
// exactly the ones the DELETE removed, ordered by id; names are resolved
// afterwards since authors and genres are never deleted with their books.
func (r *BookRepo) DeleteAll(ctx context.Context) ([]book.Book, error) {
	deleteSQL, deleteArgs, err := r.sq.Delete("books").
		Suffix("RETURNING id, title, author_id, genre_id").
		ToSql()
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tx, err := r.db.BeginTx(timeoutCtx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(timeoutCtx, deleteSQL, deleteArgs...)
	if err != nil {
		return nil, fmt.Errorf("delete books: %w", err)
	}
	var deleted []book.Book
	for rows.Next() {
		var b book.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author.ID, &b.Genre.ID); err != nil {
			rows.Close()
			return nil, err
		}
		deleted = append(deleted, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("delete books: %w", err)
	}
	if len(deleted) == 0 {
		return nil, nil
	}

	authorNames, err := r.namesByID(timeoutCtx, tx, "authors", "author", lo.Map(deleted, func(b book.Book, _ int) int64 { return b.Author.ID }))
	if err != nil {
		return nil, err
	}
	genreNames, err := r.namesByID(timeoutCtx, tx, "genres", "genre", lo.Map(deleted, func(b book.Book, _ int) int64 { return b.Genre.ID }))
	if err != nil {
		return nil, err
	}
	for i := range deleted {
		deleted[i].Author.Author = authorNames[deleted[i].Author.ID]
		deleted[i].Genre.Genre = genreNames[deleted[i].Genre.ID]
	}
	slices.SortFunc(deleted, func(a, b book.Book) int { return cmp.Compare(a.ID, b.ID) })

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return deleted, nil
}

// namesByID maps the given ids of table to their column value.
func (r *BookRepo) namesByID(ctx context.Context, tx *sql.Tx, table, column string, ids []int64) (map[int64]string, error) {
	query, args, err := r.sq.Select("id", column).
		From(table).
		Where(sq.Eq{"id": lo.Uniq(ids)}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", table, err)
	}
	defer rows.Close()

	names := make(map[int64]string, len(ids))
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, rows.Err()
}
