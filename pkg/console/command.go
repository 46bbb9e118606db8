package console

import (
	"strconv"
	"strings"
)

// Command is one entry of the main menu. Its numeric value is the key the
// user types.
type Command int

const (
	CommandAddBook Command = iota + 1
	CommandListBooks
	CommandListBooksByGenre
	CommandSearchBooks
	CommandDeleteBook
	CommandExit
)

// Commands lists every command in menu order.
var Commands = []Command{
	CommandAddBook,
	CommandListBooks,
	CommandListBooksByGenre,
	CommandSearchBooks,
	CommandDeleteBook,
	CommandExit,
}

// ParseCommand maps a menu selection such as "3" to its command.
func ParseCommand(s string) (Command, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	cmd := Command(n)
	if cmd < CommandAddBook || cmd > CommandExit {
		return 0, false
	}
	return cmd, true
}

// Label is the menu line shown for the command.
func (c Command) Label() string {
	var title string
	switch c {
	case CommandAddBook:
		title = "Добавить книгу"
	case CommandListBooks:
		title = "Показать список книг"
	case CommandListBooksByGenre:
		title = "Просмотр книг по жанру"
	case CommandSearchBooks:
		title = "Поиск книги"
	case CommandDeleteBook:
		title = "Удалить книгу"
	case CommandExit:
		title = "Выход"
	default:
		return ""
	}
	return strconv.Itoa(int(c)) + ". " + title
}

func (c Command) String() string {
	switch c {
	case CommandAddBook:
		return "add_book"
	case CommandListBooks:
		return "list_books"
	case CommandListBooksByGenre:
		return "list_books_by_genre"
	case CommandSearchBooks:
		return "search_books"
	case CommandDeleteBook:
		return "delete_book"
	case CommandExit:
		return "exit"
	default:
		return "unknown(" + strconv.Itoa(int(c)) + ")"
	}
}
