// Package cli runs the interactive book statistics menus and renders their results.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bastiangx/wordstat/internal/utils"
	"github.com/bastiangx/wordstat/pkg/bookshelf"
	"github.com/bastiangx/wordstat/pkg/config"
	"github.com/bastiangx/wordstat/pkg/frequency"
	"github.com/charmbracelet/log"
)

// errQuit ends the menus when the input is exhausted.
var errQuit = errors.New("input closed")

var mainMenu = []string{
	"List books",
	"Add a book",
	"Remove a book",
	"Book statistics",
	"Quit",
}

// InputHandler drives a Collection from line based user input.
type InputHandler struct {
	shelf   *bookshelf.Collection
	config  *config.Config
	render  *Renderer
	reader  *bufio.Reader
	bookLog *log.Logger
}

// NewInputHandler creates a handler reading answers from in and printing through render.
// Books added from the menu log through bookLog; nil keeps the book default.
func NewInputHandler(shelf *bookshelf.Collection, cfg *config.Config, in io.Reader, render *Renderer, bookLog *log.Logger) *InputHandler {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &InputHandler{
		shelf:   shelf,
		config:  cfg,
		render:  render,
		reader:  bufio.NewReader(in),
		bookLog: bookLog,
	}
}

// Start runs the main menu until the user quits or the input ends.
func (h *InputHandler) Start() error {
	for {
		choice, err := h.menu("Book statistics", mainMenu)
		if err != nil {
			return h.done(err)
		}
		switch choice {
		case 1:
			h.render.Books(h.shelf.List())
		case 2:
			err = h.addBook()
		case 3:
			err = h.removeBook()
		case 4:
			err = h.statisticsMenu()
		case 5:
			return nil
		}
		if err != nil {
			return h.done(err)
		}
	}
}

func (h *InputHandler) done(err error) error {
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

func (h *InputHandler) statisticsMenu() error {
	items := []string{
		"List books",
		"Choose the reference book",
		"Show the number of distinct words of the reference book",
		fmt.Sprintf("Show the %d most frequent words", h.config.Stats.TopWords),
		"Show the words only present in the reference book",
		"Show the percentage of common words with the reference book",
		"Back to the main menu",
	}

	for {
		choice, err := h.menu("Statistics", items)
		if err != nil {
			return err
		}
		if choice == 7 {
			return nil
		}
		if choice == 1 {
			h.render.Books(h.shelf.List())
			continue
		}
		if choice == 2 {
			if _, err := h.chooseReference(); err != nil {
				return err
			}
			continue
		}

		ok, err := h.ensureReference()
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		h.showStatistic(choice)
	}
}

func (h *InputHandler) showStatistic(choice int) {
	reference, _ := h.shelf.Reference()
	if err := reference.Load(); err != nil {
		h.render.Printf("Cannot read %s: %v", reference.Source(), err)
		return
	}

	switch choice {
	case 3:
		h.render.Count(reference.Source(), reference.WordCount(), reference.TotalOccurrences())
	case 4:
		n := min(h.config.Stats.TopWords, reference.WordCount())
		top, err := reference.TopWords(n)
		if err != nil {
			h.render.Printf("%v", err)
			return
		}
		h.render.Words(top)
	case 5:
		unique, err := h.shelf.UniqueToReference()
		if err != nil {
			h.render.Printf("%v", err)
			return
		}
		h.render.Words(unique)
	case 6:
		overlaps, err := h.shelf.Overlaps()
		if err != nil {
			h.render.Printf("%v", err)
			return
		}
		h.render.Overlaps(overlaps)
	}
}

// ensureReference forces a reference choice when none is set. It reports false
// when there is nothing to choose from.
func (h *InputHandler) ensureReference() (bool, error) {
	if _, ok := h.shelf.Reference(); ok {
		return true, nil
	}
	h.render.Println("You must choose a reference book!")
	return h.chooseReference()
}

func (h *InputHandler) chooseReference() (bool, error) {
	n := h.shelf.Len()
	if n == 0 {
		h.render.Println("No books in the list, add one first.")
		return false, nil
	}
	h.render.Books(h.shelf.List())
	position, err := h.readChoice("Number of the reference book: ", n)
	if err != nil {
		return false, err
	}
	h.shelf.SetReference(position)
	reference, _ := h.shelf.Reference()
	h.render.Printf("Reference book: %s", reference.Source())
	return true, nil
}

func (h *InputHandler) addBook() error {
	path, err := h.readPath("Path of the book to add: ", func(path string) error {
		return frequency.CheckSource(path, h.config.Books.Extensions)
	})
	if err != nil {
		return err
	}

	var opts []frequency.Option
	if h.bookLog != nil {
		opts = append(opts, frequency.WithLogger(h.bookLog))
	}
	if h.shelf.Add(frequency.NewIndex(path, opts...)) {
		h.render.Printf("Added %s", path)
	} else {
		h.render.Printf("%s is already in the list, it will be ignored.", path)
	}
	return nil
}

func (h *InputHandler) removeBook() error {
	path, err := h.readPath("Path of the book to remove: ", func(path string) error {
		if _, ok := h.shelf.Find(path); ok {
			return nil
		}
		return frequency.CheckSource(path, nil)
	})
	if err != nil {
		return err
	}

	if h.shelf.Remove(frequency.NewIndex(path)) {
		h.render.Printf("Removed %s", path)
	} else {
		h.render.Printf("%s is not in the list, it will be ignored.", path)
	}
	return nil
}

// readPath prompts until check accepts the answer.
func (h *InputHandler) readPath(prompt string, check func(string) error) (string, error) {
	for {
		answer, err := h.prompt(prompt)
		if err != nil {
			return "", err
		}
		if err := check(answer); err != nil {
			h.render.Printf("%v", err)
			continue
		}
		return answer, nil
	}
}

// menu prints numbered items and returns the chosen 1-based number.
func (h *InputHandler) menu(title string, items []string) (int, error) {
	h.render.Println()
	h.render.Title(fmt.Sprintf("----------- %s -----------", title))
	for i, item := range items {
		h.render.Printf("%d. --> %s", i+1, item)
	}
	return h.readChoice("Enter your choice: ", len(items))
}

// readChoice prompts until the answer is a number in 1..max.
func (h *InputHandler) readChoice(prompt string, max int) (int, error) {
	for {
		answer, err := h.prompt(prompt)
		if err != nil {
			return 0, err
		}
		if n, ok := utils.ParseChoice(answer); ok && n >= 1 && n <= max {
			return n, nil
		}
		log.Debug("Rejected choice", "answer", answer, "max", max)
	}
}

// prompt prints a question and reads one trimmed line.
func (h *InputHandler) prompt(question string) (string, error) {
	fmt.Fprint(h.render.out, question)
	line, err := h.reader.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		if errors.Is(err, io.EOF) {
			return "", errQuit
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
