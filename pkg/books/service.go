package books

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
	"github.com/shishobooks/catalog/pkg/binder"
	"github.com/shishobooks/catalog/pkg/errcodes"
	"github.com/shishobooks/catalog/pkg/genres"
	"github.com/shishobooks/catalog/pkg/models"
	"github.com/uptrace/bun"
)

type RetrieveBookOptions struct {
	ID    *int
	Title *string
}

type ListBooksOptions struct {
	// GenreName restricts results to books in exactly this genre.
	GenreName *string
	// Search matches a case-sensitive substring of the title or the author.
	Search *string
}

type Service struct {
	db     *bun.DB
	binder *binder.Binder
}

func NewService(db *bun.DB) *Service {
	return &Service{db, binder.New()}
}

// CreateBook validates the payload and stores a new book. An unknown genre is
// created first, in the same transaction, so a book never points at a missing
// genre. Nothing is written when validation fails.
func (svc *Service) CreateBook(ctx context.Context, payload CreateBookPayload) (*models.Book, error) {
	if err := svc.binder.Bind(ctx, &payload); err != nil {
		return nil, err
	}

	book := &models.Book{
		Title:       payload.Title,
		Author:      payload.Author,
		Description: payload.Description,
	}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		genre, err := genres.NewService(tx).FindOrCreateGenre(ctx, payload.Genre)
		if err != nil {
			return err
		}
		book.GenreID = genre.ID
		book.GenreName = genre.Name

		_, err = tx.
			NewInsert().
			Model(book).
			Returning("*").
			Exec(ctx)
		return errors.WithStack(err)
	})
	if err != nil {
		return nil, err
	}

	return book, nil
}

// RetrieveBook returns a single book joined with its genre. When looking up by
// title the book with the lowest id wins, since titles aren't unique.
func (svc *Service) RetrieveBook(ctx context.Context, opts RetrieveBookOptions) (*models.Book, error) {
	book := &models.Book{}

	q := selectBooks(svc.db.NewSelect().Model(book))

	if opts.ID != nil {
		q = q.Where("b.id = ?", *opts.ID)
	}
	if opts.Title != nil {
		q = q.Where("b.title = ?", *opts.Title)
	}

	err := q.
		Order("b.id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

// FindBookIDByTitle returns the id of the first book with this title.
// Surrounding whitespace is ignored, the same as when the book was added.
func (svc *Service) FindBookIDByTitle(ctx context.Context, title string) (int, error) {
	title = strings.TrimSpace(title)
	book, err := svc.RetrieveBook(ctx, RetrieveBookOptions{Title: &title})
	if err != nil {
		return 0, err
	}
	return book.ID, nil
}

// ListBooks returns matching books ordered by id. No match is an empty slice,
// not an error.
func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) ([]*models.Book, error) {
	books := []*models.Book{}

	q := selectBooks(svc.db.NewSelect().Model(&books))

	if opts.GenreName != nil {
		q = q.Where("g.name = ?", *opts.GenreName)
	}
	if opts.Search != nil {
		pattern := containsPattern(*opts.Search)
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("b.title GLOB ?", pattern).
				WhereOr("b.author GLOB ?", pattern)
		})
	}

	err := q.Order("b.id ASC").Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return books, nil
}

// ListBooksByGenre returns the books filed under this genre name, ignoring
// surrounding whitespace. An unknown genre and a genre without books both give
// an empty slice.
func (svc *Service) ListBooksByGenre(ctx context.Context, genreName string) ([]*models.Book, error) {
	genreName = strings.TrimSpace(genreName)
	if genreName == "" {
		return nil, errcodes.ValidationError(`"genre" is required`)
	}
	return svc.ListBooks(ctx, ListBooksOptions{GenreName: &genreName})
}

// SearchBooks returns books whose title or author contains keyword. Matching
// is case-sensitive.
func (svc *Service) SearchBooks(ctx context.Context, keyword string) ([]*models.Book, error) {
	if keyword == "" {
		return nil, errcodes.ValidationError(`"keyword" is required`)
	}
	return svc.ListBooks(ctx, ListBooksOptions{Search: &keyword})
}

func (svc *Service) CountBooks(ctx context.Context) (int, error) {
	count, err := svc.db.NewSelect().
		Model((*models.Book)(nil)).
		Count(ctx)
	return count, errors.WithStack(err)
}

// HasBooks is the guard used before listing, searching, or deleting.
func (svc *Service) HasBooks(ctx context.Context) (bool, error) {
	count, err := svc.CountBooks(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteBookByTitle removes the first book with this title, ignoring
// surrounding whitespace. It returns false without an error when there's no
// such book.
func (svc *Service) DeleteBookByTitle(ctx context.Context, title string) (bool, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return false, errcodes.ValidationError(`"title" is required`)
	}

	id, err := svc.FindBookIDByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, errcodes.NotFound("Book")) {
			return false, nil
		}
		return false, err
	}

	_, err = svc.db.NewDelete().
		Model((*models.Book)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return false, errors.WithStack(err)
	}

	return true, nil
}

func selectBooks(q *bun.SelectQuery) *bun.SelectQuery {
	return q.
		ColumnExpr("b.*").
		ColumnExpr("g.name AS genre_name").
		Join("JOIN genres AS g ON g.id = b.genre_id")
}

// containsPattern builds a GLOB pattern matching any value that contains s.
// GLOB is used over LIKE because it is case-sensitive. Metacharacters in s are
// bracketed so they match literally.
func containsPattern(s string) string {
	var sb strings.Builder
	sb.WriteByte('*')
	for _, r := range s {
		switch r {
		case '*', '?', '[':
			sb.WriteByte('[')
			sb.WriteRune(r)
			sb.WriteByte(']')
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('*')
	return sb.String()
}
