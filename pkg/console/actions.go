package console

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shishobooks/catalog/pkg/books"
	"github.com/shishobooks/catalog/pkg/errcodes"
	"github.com/shishobooks/catalog/pkg/models"
)

func (c *Console) addBook(ctx context.Context) error {
	title, err := c.prompt("Введите название книги: ")
	if err != nil {
		return err
	}
	author, err := c.prompt("Укажите автора книги: ")
	if err != nil {
		return err
	}
	description, err := c.prompt("Введите описание книги: ")
	if err != nil {
		return err
	}

	if isBlank(title) || isBlank(author) || isBlank(description) {
		c.println("Ошибка: Название, автор и описание книги не могут быть пустыми.")
		return c.waitForEnter()
	}

	names, err := c.genres.ListGenreNames(ctx)
	if err != nil {
		return err
	}
	c.println("Доступные жанры:")
	for i, name := range names {
		c.printf("%d. %s\n", i+1, name)
	}

	choice, err := c.prompt("Выберите номер жанра из списка или введите новый жанр: ")
	if err != nil {
		return err
	}
	genre := resolveGenreChoice(choice, names)
	if genre == "" {
		genre, err = c.prompt("Введите новый жанр: ")
		if err != nil {
			return err
		}
		if isBlank(genre) {
			c.println("Ошибка: Жанр книги не может быть пустым.")
			return c.waitForEnter()
		}
	}

	book, err := c.books.CreateBook(ctx, books.CreateBookPayload{
		Title:       title,
		Author:      author,
		Description: description,
		Genre:       genre,
	})
	if errcodes.HasCode(err, errcodes.CodeValidationError) {
		c.println("Ошибка: " + err.Error())
		return c.waitForEnter()
	}
	if err != nil {
		return err
	}

	c.printf("Книга %s успешно добавлена в библиотеку.\n", book.Title)
	return c.waitForEnter()
}

func (c *Console) listBooks(ctx context.Context) error {
	ok, err := c.requireBooks(ctx)
	if err != nil || !ok {
		return err
	}

	list, err := c.books.ListBooks(ctx, books.ListBooksOptions{})
	if err != nil {
		return err
	}
	c.printBooks(list)

	answer, err := c.prompt("Введите ID книги для просмотра подробной информации (или нажмите Enter для продолжения): ")
	if err != nil {
		return err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil
	}

	id, err := strconv.Atoi(answer)
	if err != nil {
		c.println("Ошибка: ID книги должен быть числом.")
		return c.waitForEnter()
	}

	book, err := c.books.RetrieveBook(ctx, books.RetrieveBookOptions{ID: &id})
	switch {
	case errors.Is(err, errcodes.NotFound("Book")):
		c.println("По данному ID книга не найдена.")
	case err != nil:
		return err
	default:
		c.println("Подробная информация о книге:")
		c.println("Название: " + book.Title)
		c.println("Автор: " + book.Author)
		c.println("Описание: " + book.Description)
		c.println("Жанр: " + book.GenreName)
	}
	return c.waitForEnter()
}

func (c *Console) listBooksByGenre(ctx context.Context) error {
	ok, err := c.requireBooks(ctx)
	if err != nil || !ok {
		return err
	}

	genre, err := c.prompt("Введите жанр для просмотра книг: ")
	if err != nil {
		return err
	}
	if isBlank(genre) {
		c.println("Ошибка: Книг без жанров не существует.")
		return c.waitForEnter()
	}

	list, err := c.books.ListBooksByGenre(ctx, genre)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		c.printf("Нет книг в жанре '%s'.\n", genre)
	} else {
		c.printf("Книги в жанре '%s':\n", genre)
		c.printBooks(list)
	}
	return c.waitForEnter()
}

func (c *Console) searchBooks(ctx context.Context) error {
	ok, err := c.requireBooks(ctx)
	if err != nil || !ok {
		return err
	}

	keyword, err := c.prompt("Введите ключевое слово для поиска: ")
	if err != nil {
		return err
	}
	if keyword == "" {
		c.println("Ошибка: Ключевое слово не может быть пустым.")
		return c.waitForEnter()
	}

	list, err := c.books.SearchBooks(ctx, keyword)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		c.printf("По запросу '%s' ничего не найдено.\n", keyword)
	} else {
		c.printf("Результаты поиска для '%s':\n", keyword)
		c.printBooks(list)
	}
	return c.waitForEnter()
}

func (c *Console) deleteBook(ctx context.Context) error {
	ok, err := c.requireBooks(ctx)
	if err != nil || !ok {
		return err
	}

	list, err := c.books.ListBooks(ctx, books.ListBooksOptions{})
	if err != nil {
		return err
	}
	c.println("Список книг:")
	c.printBooks(list)

	title, err := c.prompt("Введите название книги для удаления: ")
	if err != nil {
		return err
	}
	if isBlank(title) {
		c.println("Ошибка: Вы не указали название книги.")
		return c.waitForEnter()
	}

	deleted, err := c.books.DeleteBookByTitle(ctx, title)
	if err != nil {
		return err
	}
	if deleted {
		c.printf("Книга '%s' успешно удалена.\n", title)
	} else {
		c.printf("Книга с названием '%s' не найдена.\n", title)
	}
	return c.waitForEnter()
}

// requireBooks tells the user the catalog is empty and returns false when
// there is nothing to list, search, or delete.
func (c *Console) requireBooks(ctx context.Context) (bool, error) {
	has, err := c.books.HasBooks(ctx)
	if err != nil {
		return false, err
	}
	if !has {
		c.println("Библиотека пуста, добавьте книги.")
		return false, c.waitForEnter()
	}
	return true, nil
}

func (c *Console) printBooks(list []*models.Book) {
	for _, b := range list {
		c.printf("ID: %d, Название: %s, Автор: %s\n", b.ID, b.Title, b.Author)
	}
}

// resolveGenreChoice turns the answer to the genre prompt into a genre name. A
// number picks from names; any other text is a new genre. An empty result
// means the user still has to type one.
func resolveGenreChoice(choice string, names []string) string {
	choice = strings.TrimSpace(choice)
	if n, err := strconv.Atoi(choice); err == nil {
		if n >= 1 && n <= len(names) {
			return names[n-1]
		}
		return ""
	}
	return choice
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
