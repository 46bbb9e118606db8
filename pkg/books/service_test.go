package books

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/shishobooks/catalog/pkg/config"
	"github.com/shishobooks/catalog/pkg/database"
	"github.com/shishobooks/catalog/pkg/errcodes"
	"github.com/shishobooks/catalog/pkg/genres"
	"github.com/shishobooks/catalog/pkg/models"
	"github.com/shishobooks/catalog/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := database.New(config.NewForTest())
	require.NoError(t, err)

	err = schema.Initialize(context.Background(), db, logger.NewWithLevel("error"))
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func createBook(t *testing.T, svc *Service, title, author, genre string) *models.Book {
	t.Helper()

	book, err := svc.CreateBook(context.Background(), CreateBookPayload{
		Title:       title,
		Author:      author,
		Description: "description of " + title,
		Genre:       genre,
	})
	require.NoError(t, err)
	return book
}

func titles(books []*models.Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Title)
	}
	return out
}

func TestCreateBook_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	book, err := svc.CreateBook(ctx, CreateBookPayload{
		Title:       "T",
		Author:      "A",
		Description: "D",
		Genre:       "Роман",
	})
	require.NoError(t, err)
	assert.NotZero(t, book.ID)
	assert.Equal(t, "Роман", book.GenreName)

	retrieved, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
	require.NoError(t, err)
	assert.Equal(t, book.ID, retrieved.ID)
	assert.Equal(t, "T", retrieved.Title)
	assert.Equal(t, "A", retrieved.Author)
	assert.Equal(t, "D", retrieved.Description)
	assert.Equal(t, "Роман", retrieved.GenreName)
}

func TestCreateBook_NewGenreCreatedOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	genreSvc := genres.NewService(db)
	ctx := context.Background()

	createBook(t, svc, "Стихи", "Пушкин", "Поэзия")

	genreCount, err := genreSvc.CountGenres(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, genreCount)

	bookCount, err := svc.CountBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, bookCount)

	createBook(t, svc, "Ещё стихи", "Лермонтов", "Поэзия")

	names, err := genreSvc.ListGenreNames(ctx)
	require.NoError(t, err)
	occurrences := 0
	for _, name := range names {
		if name == "Поэзия" {
			occurrences++
		}
	}
	assert.Equal(t, 1, occurrences)
}

func TestCreateBook_EmptyFieldsRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	cases := []struct {
		name    string
		payload CreateBookPayload
		msg     string
	}{
		{"title", CreateBookPayload{Author: "A", Description: "D", Genre: "Роман"}, `"title" is required`},
		{"author", CreateBookPayload{Title: "T", Description: "D", Genre: "Роман"}, `"author" is required`},
		{"description", CreateBookPayload{Title: "T", Author: "A", Description: "  ", Genre: "Роман"}, `"description" is required`},
		{"genre", CreateBookPayload{Title: "T", Author: "A", Description: "D"}, `"genre" is required`},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			book, err := svc.CreateBook(ctx, tt.payload)
			assert.Nil(t, book)
			require.Error(t, err)
			assert.True(t, errcodes.HasCode(err, errcodes.CodeValidationError))
			assert.Equal(t, tt.msg, err.Error())
		})
	}

	count, err := svc.CountBooks(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	genreCount, err := genres.NewService(db).CountGenres(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, genreCount)
}

func TestCreateBook_TrimsInput(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	book := createBook(t, svc, "  Дюна ", " Герберт", " Фантастика ")
	assert.Equal(t, "Дюна", book.Title)
	assert.Equal(t, "Герберт", book.Author)
	assert.Equal(t, "Фантастика", book.GenreName)
}

func TestRetrieveBook_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	book, err := svc.RetrieveBook(context.Background(), RetrieveBookOptions{ID: pointerutil.Int(42)})
	assert.Nil(t, book)
	assert.True(t, errors.Is(err, errcodes.NotFound("Book")))
}

func TestRetrieveBook_ByTitle(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	first := createBook(t, svc, "Двойник", "Достоевский", "Роман")
	createBook(t, svc, "Двойник", "Погорельский", "Роман")

	book, err := svc.RetrieveBook(context.Background(), RetrieveBookOptions{Title: pointerutil.String("Двойник")})
	require.NoError(t, err)
	assert.Equal(t, first.ID, book.ID)
	assert.Equal(t, "Достоевский", book.Author)
}

func TestFindBookIDByTitle(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	first := createBook(t, svc, "Игрок", "Достоевский", "Роман")
	createBook(t, svc, "Игрок", "Другой автор", "Драма")

	id, err := svc.FindBookIDByTitle(ctx, "Игрок")
	require.NoError(t, err)
	assert.Equal(t, first.ID, id)

	_, err = svc.FindBookIDByTitle(ctx, "игрок")
	assert.True(t, errors.Is(err, errcodes.NotFound("Book")))
}

func TestListBooks_OrderedByID(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	books, err := svc.ListBooks(ctx, ListBooksOptions{})
	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)

	createBook(t, svc, "B", "Author B", "Драма")
	createBook(t, svc, "A", "Author A", "Роман")

	books, err = svc.ListBooks(ctx, ListBooksOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, titles(books))
	assert.Equal(t, "Драма", books[0].GenreName)
	assert.Equal(t, "Роман", books[1].GenreName)
}

func TestListBooksByGenre(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	createBook(t, svc, "Солярис", "Лем", "Фантастика")
	createBook(t, svc, "Анна Каренина", "Толстой", "Роман")
	createBook(t, svc, "Непобедимый", "Лем", "Фантастика")

	books, err := svc.ListBooksByGenre(ctx, "Фантастика")
	require.NoError(t, err)
	assert.Equal(t, []string{"Солярис", "Непобедимый"}, titles(books))

	books, err = svc.ListBooksByGenre(ctx, "Детектив")
	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)

	books, err = svc.ListBooksByGenre(ctx, "Несуществующий")
	require.NoError(t, err)
	assert.Empty(t, books)

	books, err = svc.ListBooksByGenre(ctx, "фантастика")
	require.NoError(t, err)
	assert.Empty(t, books)

	_, err = svc.ListBooksByGenre(ctx, "")
	assert.True(t, errcodes.HasCode(err, errcodes.CodeValidationError))
}

func TestSearchBooks(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	createBook(t, svc, "Fantastic Voyage", "A", "Фантастика")
	createBook(t, svc, "Другая книга", "Fantasy Author", "Роман")
	createBook(t, svc, "Unrelated", "Someone", "Драма")

	books, err := svc.SearchBooks(ctx, "Fant")
	require.NoError(t, err)
	assert.Equal(t, []string{"Fantastic Voyage", "Другая книга"}, titles(books))

	books, err = svc.SearchBooks(ctx, "zzz")
	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)

	// Matching is case-sensitive.
	books, err = svc.SearchBooks(ctx, "fant")
	require.NoError(t, err)
	assert.Empty(t, books)

	books, err = svc.SearchBooks(ctx, "книга")
	require.NoError(t, err)
	assert.Equal(t, []string{"Другая книга"}, titles(books))

	_, err = svc.SearchBooks(ctx, "")
	assert.True(t, errcodes.HasCode(err, errcodes.CodeValidationError))
}

func TestSearchBooks_WildcardsAreLiteral(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	createBook(t, svc, "Что? Где? Когда?", "Ворошилов", "Драма")
	createBook(t, svc, "Звёзды*", "Автор", "Фантастика")
	createBook(t, svc, "Обычная", "Автор [ред.]", "Роман")

	books, err := svc.SearchBooks(ctx, "?")
	require.NoError(t, err)
	assert.Equal(t, []string{"Что? Где? Когда?"}, titles(books))

	books, err = svc.SearchBooks(ctx, "*")
	require.NoError(t, err)
	assert.Equal(t, []string{"Звёзды*"}, titles(books))

	books, err = svc.SearchBooks(ctx, "[ред")
	require.NoError(t, err)
	assert.Equal(t, []string{"Обычная"}, titles(books))
}

func TestHasBooks(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	has, err := svc.HasBooks(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	createBook(t, svc, "Т", "А", "Роман")

	has, err = svc.HasBooks(ctx)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestDeleteBookByTitle_UnknownOnEmptyCatalog(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	deleted, err := svc.DeleteBookByTitle(ctx, "Unknown Title")
	require.NoError(t, err)
	assert.False(t, deleted)

	count, err := svc.CountBooks(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDeleteBookByTitle_RemovesFirstMatchOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	first := createBook(t, svc, "Двойник", "Достоевский", "Роман")
	second := createBook(t, svc, "Двойник", "Погорельский", "Роман")

	deleted, err := svc.DeleteBookByTitle(ctx, "Двойник")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &first.ID})
	assert.True(t, errors.Is(err, errcodes.NotFound("Book")))

	remaining, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &second.ID})
	require.NoError(t, err)
	assert.Equal(t, "Погорельский", remaining.Author)

	// Genres are never removed along with books.
	exists, err := genres.NewService(db).GenreExists(ctx, "Роман")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDeleteBookByTitle_EmptyTitle(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	deleted, err := svc.DeleteBookByTitle(context.Background(), "")
	assert.False(t, deleted)
	assert.True(t, errcodes.HasCode(err, errcodes.CodeValidationError))
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "*Fant*", containsPattern("Fant"))
	assert.Equal(t, "*a[*]b[?]c[[]d]*", containsPattern("a*b?c[d]"))
	assert.Equal(t, "*книга*", containsPattern("книга"))
}

func TestPaddedLookupsMatchTrimmedStorage(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	book := createBook(t, svc, "Дюна ", "Герберт", "Фантастика")

	id, err := svc.FindBookIDByTitle(ctx, " Дюна ")
	require.NoError(t, err)
	assert.Equal(t, book.ID, id)

	list, err := svc.ListBooksByGenre(ctx, " Фантастика")
	require.NoError(t, err)
	assert.Equal(t, []string{"Дюна"}, titles(list))

	deleted, err := svc.DeleteBookByTitle(ctx, "Дюна ")
	require.NoError(t, err)
	assert.True(t, deleted)

	count, err := svc.CountBooks(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestListBooksByGenre_BlankGenre(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	list, err := svc.ListBooksByGenre(context.Background(), "   ")
	assert.Nil(t, list)
	assert.True(t, errcodes.HasCode(err, errcodes.CodeValidationError))
}

func TestCreateBook_TooLong(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	_, err := svc.CreateBook(ctx, CreateBookPayload{
		Title:       strings.Repeat("д", 256),
		Author:      "A",
		Description: "D",
		Genre:       "Роман",
	})
	require.Error(t, err)
	assert.True(t, errcodes.HasCode(err, errcodes.CodeValidationError))
	assert.Equal(t, `"title" length must be less than or equal to 255 characters`, err.Error())

	_, err = svc.CreateBook(ctx, CreateBookPayload{
		Title:       "T",
		Author:      "A",
		Description: "D",
		Genre:       strings.Repeat("ж", 101),
	})
	assert.Equal(t, `"genre" length must be less than or equal to 100 characters`, err.Error())

	book, err := svc.CreateBook(ctx, CreateBookPayload{
		Title:       strings.Repeat("д", 255),
		Author:      "A",
		Description: "D",
		Genre:       "Роман",
	})
	require.NoError(t, err)
	assert.NotZero(t, book.ID)
}
