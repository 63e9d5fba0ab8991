package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bastiangx/wordstat/internal/logger"
	"github.com/bastiangx/wordstat/pkg/bookshelf"
	"github.com/bastiangx/wordstat/pkg/config"
	"github.com/bastiangx/wordstat/pkg/frequency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type session struct {
	shelf *bookshelf.Collection
	out   bytes.Buffer
	dir   string
}

func newSession(t *testing.T) *session {
	t.Helper()
	return &session{
		shelf: bookshelf.New(bookshelf.WithLogger(logger.Discard())),
		dir:   t.TempDir(),
	}
}

func (s *session) book(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(s.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

func (s *session) run(t *testing.T, cfg *config.Config, answers ...string) string {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	render := NewRenderer(&s.out, cfg.Display, true)
	in := strings.NewReader(strings.Join(answers, "\n") + "\n")
	h := NewInputHandler(s.shelf, cfg, in, render, logger.Discard())
	require.NoError(t, h.Start())
	return s.out.String()
}

func TestScenarioSession(t *testing.T) {
	s := newSession(t)
	a := s.book(t, "a.txt", "le", "chat", "le", "chien")
	b := s.book(t, "b.txt", "le", "oiseau")

	out := s.run(t, nil,
		"2", a,
		"2", b,
		"4",
		"3", "1", // word count forces a reference choice first
		"5",
		"6",
		"7",
		"5",
	)

	assert.Contains(t, out, "Added "+a)
	assert.Contains(t, out, "You must choose a reference book!")
	assert.Contains(t, out, "Reference book: "+a)
	assert.Contains(t, out, "33.3%")
	assert.Contains(t, out, "chien")

	ref, ok := s.shelf.Reference()
	require.True(t, ok)
	assert.Equal(t, a, ref.Source())
	assert.Equal(t, 2, s.shelf.Len())
}

func TestAddRepromptsUntilValid(t *testing.T) {
	s := newSession(t)
	a := s.book(t, "a.txt", "le")
	notes := s.book(t, "notes.md", "le")

	out := s.run(t, nil,
		"2", filepath.Join(s.dir, "missing.txt"), notes, a,
		"2", a,
		"5",
	)

	assert.Equal(t, 1, s.shelf.Len())
	assert.Equal(t, 4, strings.Count(out, "Path of the book to add: "))
	assert.Contains(t, out, a+" is already in the list, it will be ignored.")
}

func TestRemoveBook(t *testing.T) {
	s := newSession(t)
	a := s.book(t, "a.txt", "le")
	s.shelf.Add(frequency.NewIndex(a, frequency.WithLogger(logger.Discard())))

	out := s.run(t, nil, "3", a, "1", "5")

	assert.Equal(t, 0, s.shelf.Len())
	assert.Contains(t, out, "Removed "+a)
	assert.Contains(t, out, "No books in the list.")
}

func TestRemoveBookDeletedFromDisk(t *testing.T) {
	s := newSession(t)
	a := s.book(t, "a.txt", "le")
	s.shelf.Add(frequency.NewIndex(a, frequency.WithLogger(logger.Discard())))
	require.NoError(t, os.Remove(a))

	s.run(t, nil, "3", a, "5")
	assert.Equal(t, 0, s.shelf.Len())
}

func TestInvalidChoicesAreIgnored(t *testing.T) {
	s := newSession(t)
	out := s.run(t, nil, "0", "x", "9", "", "5")
	assert.Equal(t, 5, strings.Count(out, "Enter your choice: "))
}

func TestTopWordsIsBoundedByBookSize(t *testing.T) {
	s := newSession(t)
	a := s.book(t, "a.txt", "le", "chat", "le")
	s.shelf.Add(frequency.NewIndex(a, frequency.WithLogger(logger.Discard())))
	require.True(t, s.shelf.SetReference(1))

	cfg := config.DefaultConfig()
	out := s.run(t, cfg, "4", "4", "7", "5")

	assert.Contains(t, out, "Show the 50 most frequent words")
	assert.Contains(t, out, "le")
	assert.Contains(t, out, "chat")
	assert.NotContains(t, out, "requested")
}

func TestReferenceWithEmptyShelf(t *testing.T) {
	s := newSession(t)
	out := s.run(t, nil, "4", "2", "6", "7", "5")
	assert.Equal(t, 2, strings.Count(out, "No books in the list, add one first."))
}

func TestEndOfInputQuits(t *testing.T) {
	s := newSession(t)
	render := NewRenderer(&s.out, config.DefaultConfig().Display, true)
	h := NewInputHandler(s.shelf, nil, strings.NewReader("4\n2"), render, nil)
	assert.NoError(t, h.Start())
}

func TestRendererStyles(t *testing.T) {
	var out bytes.Buffer
	for _, style := range []string{"default", "rounded", "light", "bold", "double", "unknown"} {
		out.Reset()
		r := NewRenderer(&out, config.DisplayConfig{TableStyle: style, Color: true}, false)
		assert.False(t, r.color, "a buffer is never a terminal")
		r.Count("a.txt", 1234, 5678)
		assert.Contains(t, out.String(), "1,234", style)
		assert.Contains(t, out.String(), "5,678", style)
	}
}
