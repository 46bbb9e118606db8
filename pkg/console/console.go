// Package console is the interactive menu in front of the catalog. It reads
// one selection at a time, runs the matching action, and prints the results
// with Russian labels.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/catalog/pkg/books"
	"github.com/shishobooks/catalog/pkg/genres"
)

const clearSequence = "\033[H\033[2J"

type Options struct {
	In  io.Reader
	Out io.Writer
	// ClearScreen clears the terminal before each menu. It has no effect when
	// Out isn't a terminal.
	ClearScreen bool
}

type Console struct {
	books  *books.Service
	genres *genres.Service
	log    logger.Logger

	in          *bufio.Reader
	out         io.Writer
	clearScreen bool
}

func New(bookService *books.Service, genreService *genres.Service, log logger.Logger, opts Options) *Console {
	return &Console{
		books:       bookService,
		genres:      genreService,
		log:         log,
		in:          bufio.NewReader(opts.In),
		out:         opts.Out,
		clearScreen: opts.ClearScreen && isTerminal(opts.Out),
	}
}

// Run shows the menu until the user picks exit, input ends, or ctx is
// cancelled. Failures inside an action are logged and reported to the user
// without leaving the loop.
func (c *Console) Run(ctx context.Context) error {
	redraw := true
	for {
		if ctx.Err() != nil {
			return nil
		}

		if redraw {
			c.clear()
		}
		c.printMenu()

		line, err := c.prompt("Выберите действие: ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return errors.WithStack(err)
		}

		cmd, ok := ParseCommand(line)
		if !ok {
			c.println("Неверный выбор. Пожалуйста, попробуйте снова.")
			redraw = false
			continue
		}
		redraw = true

		exit, err := c.dispatch(ctx, cmd)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			c.log.Err(err).Error("command failed", logger.Data{"command": cmd.String()})
			c.println("Ошибка: не удалось выполнить действие. Попробуйте ещё раз.")
			if err := c.waitForEnter(); err != nil {
				return nil
			}
			continue
		}
		if exit {
			return nil
		}
	}
}

func (c *Console) dispatch(ctx context.Context, cmd Command) (bool, error) {
	switch cmd {
	case CommandAddBook:
		return false, c.addBook(ctx)
	case CommandListBooks:
		return false, c.listBooks(ctx)
	case CommandListBooksByGenre:
		return false, c.listBooksByGenre(ctx)
	case CommandSearchBooks:
		return false, c.searchBooks(ctx)
	case CommandDeleteBook:
		return false, c.deleteBook(ctx)
	case CommandExit:
		return true, nil
	}
	return false, errors.Errorf("unhandled command %s", cmd)
}

func (c *Console) printMenu() {
	c.println("Добро пожаловать в библиотеку!")
	for _, cmd := range Commands {
		c.println(cmd.Label())
	}
}

func (c *Console) clear() {
	if c.clearScreen {
		fmt.Fprint(c.out, clearSequence)
	}
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

// prompt prints msg and reads one line without its line ending. A final line
// without a newline is still returned; io.EOF only comes back once input is
// exhausted.
func (c *Console) prompt(msg string) (string, error) {
	fmt.Fprint(c.out, msg)

	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *Console) waitForEnter() error {
	_, err := c.prompt("Для продолжения нажмите Enter...")
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
