// Package bookshelf keeps the set of loaded books and compares them against a reference book.
package bookshelf

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/bastiangx/wordstat/internal/logger"
	"github.com/bastiangx/wordstat/pkg/frequency"
	"github.com/bastiangx/wordstat/pkg/words"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// ErrNoReference is returned by comparisons when no reference book is chosen.
var ErrNoReference = errors.New("no reference book selected")

// Entry is one line of List.
type Entry struct {
	Position  int
	Book      *frequency.Index
	Reference bool
}

// Overlap is the share of the reference vocabulary found in another book.
type Overlap struct {
	Book     *frequency.Index
	Matching int
	Total    int
	Ratio    float64
	Percent  string
}

// Option configures a Collection.
type Option func(*Collection)

// WithLogger sets the logger used for informational add/remove messages.
func WithLogger(l *log.Logger) Option {
	return func(c *Collection) {
		if l != nil {
			c.log = l
		}
	}
}

// Collection is an ordered set of books keyed by source path, with an
// optional reference book.
type Collection struct {
	mu        sync.RWMutex
	books     []*frequency.Index
	reference *frequency.Index
	log       *log.Logger
}

// New creates an empty collection.
func New(opts ...Option) *Collection {
	c := &Collection{}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.New("shelf")
	}
	return c
}

func (c *Collection) indexOf(key string) int {
	for i, b := range c.books {
		if b.Key() == key {
			return i
		}
	}
	return -1
}

// Add appends book unless a book with the same source is already present.
func (c *Collection) Add(book *frequency.Index) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.indexOf(book.Key()) >= 0 {
		c.log.Info("The file is already in the list, it will be ignored.", "book", book.Source())
		return false
	}
	c.books = append(c.books, book)
	c.log.Info("The file was added.", "book", book.Source())
	return true
}

// Remove drops the book with the same source as book.
// Removing the reference book clears the reference.
func (c *Collection) Remove(book *frequency.Index) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(book.Key())
	if i < 0 {
		c.log.Info("The file is not in the list, it will be ignored.", "book", book.Source())
		return false
	}
	removed := c.books[i]
	c.books = append(c.books[:i], c.books[i+1:]...)
	if c.reference == removed {
		c.reference = nil
		c.log.Debug("Reference book removed, reference cleared", "book", removed.Source())
	}
	c.log.Info("The file was removed.", "book", removed.Source())
	return true
}

// Find returns the book loaded from path, if any.
func (c *Collection) Find(path string) (*frequency.Index, bool) {
	key := frequency.KeyOf(path)

	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOf(key); i >= 0 {
		return c.books[i], true
	}
	return nil, false
}

// Len returns the number of books.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.books)
}

// Books returns the books in insertion order.
func (c *Collection) Books() []*frequency.Index {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*frequency.Index, len(c.books))
	copy(out, c.books)
	return out
}

// List returns every book with its 1-based position and a reference marker.
func (c *Collection) List() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := make([]Entry, len(c.books))
	for i, b := range c.books {
		entries[i] = Entry{
			Position:  i + 1,
			Book:      b,
			Reference: b == c.reference,
		}
	}
	return entries
}

// SetReference picks the reference by 1-based position.
// An out of range position clears the reference and returns false.
func (c *Collection) SetReference(position int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if position < 1 || position > len(c.books) {
		c.reference = nil
		return false
	}
	c.reference = c.books[position-1]
	return true
}

// Reference returns the current reference book.
func (c *Collection) Reference() (*frequency.Index, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reference, c.reference != nil
}

// snapshot returns the reference and the other books under one lock.
func (c *Collection) snapshot() (*frequency.Index, []*frequency.Index, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.reference == nil {
		return nil, nil, ErrNoReference
	}
	others := make([]*frequency.Index, 0, len(c.books))
	for _, b := range c.books {
		if b != c.reference {
			others = append(others, b)
		}
	}
	return c.reference, others, nil
}

// UniqueToReference returns the reference words that appear in no other book,
// in ranked order and with the reference counts.
func (c *Collection) UniqueToReference() ([]words.Word, error) {
	reference, others, err := c.snapshot()
	if err != nil {
		return nil, err
	}

	unique := make([]words.Word, 0)
	for _, w := range reference.AllWords() {
		found := false
		for _, other := range others {
			if other.Contains(words.Key(w)) {
				found = true
				break
			}
		}
		if !found {
			unique = append(unique, w)
		}
	}
	return unique, nil
}

// Overlaps computes, for every other book in collection order, how much of
// the reference vocabulary it shares.
func (c *Collection) Overlaps() ([]Overlap, error) {
	reference, others, err := c.snapshot()
	if err != nil {
		return nil, err
	}

	refWords := reference.AllWords()
	overlaps := make([]Overlap, 0, len(others))
	for _, other := range others {
		matching := 0
		for _, w := range refWords {
			if other.Contains(words.Key(w)) {
				matching++
			}
		}
		ratio := Ratio(matching, len(refWords))
		overlaps = append(overlaps, Overlap{
			Book:     other,
			Matching: matching,
			Total:    len(refWords),
			Ratio:    ratio,
			Percent:  FormatPercent(ratio),
		})
	}
	return overlaps, nil
}

// CommonWordPercentage maps each other book's source to the formatted share of
// reference words it contains.
func (c *Collection) CommonWordPercentage() (map[string]string, error) {
	overlaps, err := c.Overlaps()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(overlaps))
	for _, o := range overlaps {
		out[o.Book.Source()] = o.Percent
	}
	return out, nil
}

// Ratio is matching/total, defined as 0 for an empty reference.
func Ratio(matching, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(matching) / float64(total)
}

// FormatPercent renders a ratio in [0, 1] with one decimal, e.g. "33.3%".
// Halves round up: 1/16 is "6.3%".
func FormatPercent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", math.Floor(ratio*1000+0.5)/10)
}

// Preload loads every book with at most workers concurrent reads.
// Unreadable books are not an error here; their failure stays cached on the
// book itself. Only a cancelled context is reported.
func (c *Collection) Preload(ctx context.Context, workers int) error {
	books := c.Books()
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, b := range books {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := b.Load(); err != nil {
				c.log.Debug("Preload skipped unreadable book", "book", b.Source(), "err", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("preload books: %w", err)
	}
	return ctx.Err()
}
