package genres

import (
	"context"
	"database/sql"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/shishobooks/catalog/pkg/errcodes"
	"github.com/shishobooks/catalog/pkg/models"
	"github.com/uptrace/bun"
)

type RetrieveGenreOptions struct {
	ID   *int
	Name *string
}

type Service struct {
	db bun.IDB
}

// NewService accepts either the database or a transaction so genre lookups
// can take part in a caller's transaction.
func NewService(db bun.IDB) *Service {
	return &Service{db}
}

func (svc *Service) CreateGenre(ctx context.Context, genre *models.Genre) error {
	_, err := svc.db.
		NewInsert().
		Model(genre).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) RetrieveGenre(ctx context.Context, opts RetrieveGenreOptions) (*models.Genre, error) {
	genre := &models.Genre{}

	q := svc.db.
		NewSelect().
		Model(genre)

	if opts.ID != nil {
		q = q.Where("g.id = ?", *opts.ID)
	}
	if opts.Name != nil {
		// Exact, case-sensitive match
		q = q.Where("g.name = ?", *opts.Name)
	}

	err := q.Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Genre")
		}
		return nil, errors.WithStack(err)
	}

	return genre, nil
}

// FindOrCreateGenre returns the genre with exactly this name, creating it if
// it doesn't exist yet. It is the only way new genres enter the catalog.
func (svc *Service) FindOrCreateGenre(ctx context.Context, name string) (*models.Genre, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errcodes.ValidationError(`"genre" is required`)
	}

	genre, err := svc.RetrieveGenre(ctx, RetrieveGenreOptions{
		Name: &name,
	})
	if err == nil {
		return genre, nil
	}
	if !errors.Is(err, errcodes.NotFound("Genre")) {
		return nil, err
	}

	genre = &models.Genre{
		Name: name,
	}
	err = svc.CreateGenre(ctx, genre)
	if err != nil {
		return nil, err
	}
	return genre, nil
}

func (svc *Service) ListGenres(ctx context.Context) ([]*models.Genre, error) {
	var genres []*models.Genre

	err := svc.db.
		NewSelect().
		Model(&genres).
		Order("g.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return genres, nil
}

// ListGenreNames returns every genre name in creation order.
func (svc *Service) ListGenreNames(ctx context.Context) ([]string, error) {
	genres, err := svc.ListGenres(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return names, nil
}

// GenreExists reports whether a genre with exactly this name is known.
func (svc *Service) GenreExists(ctx context.Context, name string) (bool, error) {
	names, err := svc.ListGenreNames(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(names, name), nil
}

func (svc *Service) CountGenres(ctx context.Context) (int, error) {
	count, err := svc.db.NewSelect().
		Model((*models.Genre)(nil)).
		Count(ctx)
	return count, errors.WithStack(err)
}

// SeedDefaultGenres inserts models.DefaultGenres when the genres table is
// empty and returns how many rows it added. A catalog with any genre at all,
// default or not, is left alone.
func (svc *Service) SeedDefaultGenres(ctx context.Context) (int, error) {
	count, err := svc.CountGenres(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	genres := make([]*models.Genre, 0, len(models.DefaultGenres))
	for _, name := range models.DefaultGenres {
		genres = append(genres, &models.Genre{Name: name})
	}

	_, err = svc.db.
		NewInsert().
		Model(&genres).
		Exec(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	return len(genres), nil
}
