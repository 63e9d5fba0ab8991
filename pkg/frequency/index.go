/*
Package frequency turns a book file into a word frequency table.

A book is read one line at a time and every line, case-folded, is one token.
Loading is lazy: the first accessor that needs the table reads the file, and
the result is cached for the lifetime of the Index. A failed read is cached
too. The index then stays empty for good and never retries, which keeps
repeated menu actions on a missing file from spamming the operator.

	ix := frequency.NewIndex("books/ethique.txt")
	top, err := ix.TopWords(50)

Words are ranked by count descending, ties broken by text ascending. The
ranking is computed once at load time, along with a patricia trie used for
prefix lookups.
*/
package frequency

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bastiangx/wordstat/internal/logger"
	"github.com/bastiangx/wordstat/pkg/words"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// State is the load state of an Index.
type State int

const (
	NotLoaded State = iota
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case NotLoaded:
		return "not loaded"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	// ErrUnreadable is matched by every LoadError.
	ErrUnreadable = errors.New("book source unreadable")
	// ErrOutOfRange is matched by every RangeError.
	ErrOutOfRange = errors.New("word range out of bounds")
)

// LoadError reports why a book could not be read.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to read book %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() []error {
	return []error{ErrUnreadable, e.Err}
}

// RangeError is returned when more words are requested than a book holds.
type RangeError struct {
	Requested int
	Available int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("requested %d words, only %d available", e.Requested, e.Available)
}

func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}

// Option configures an Index.
type Option func(*Index)

// WithLogger sets the operator logger used for load diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(ix *Index) {
		if l != nil {
			ix.log = l
		}
	}
}

// WithFolder replaces the case folding applied to each line.
func WithFolder(fold func(string) string) Option {
	return func(ix *Index) {
		if fold != nil {
			ix.fold = fold
		}
	}
}

// Index is the word frequency table of one book.
type Index struct {
	path string
	key  string
	fold func(string) string
	log  *log.Logger

	once  sync.Once
	mu    sync.RWMutex
	state State
	err   error

	table  map[string]*words.Word
	ranked []words.Word
	trie   *patricia.Trie
	total  int
}

// NewIndex creates an unloaded index over the book at path.
func NewIndex(path string, opts ...Option) *Index {
	ix := &Index{
		path:  path,
		key:   KeyOf(path),
		fold:  words.Fold,
		state: NotLoaded,
		table: make(map[string]*words.Word),
		trie:  patricia.NewTrie(),
	}
	for _, opt := range opts {
		opt(ix)
	}
	if ix.log == nil {
		ix.log = logger.New("book")
	}
	return ix
}

// KeyOf returns the book identity for a source path.
func KeyOf(path string) string {
	return filepath.Clean(path)
}

// Source returns the path the index was created with.
func (ix *Index) Source() string {
	return ix.path
}

// Key is the identity of the book: its cleaned source path.
// Two indices over the same path are the same book, loaded or not.
func (ix *Index) Key() string {
	return ix.key
}

func (ix *Index) String() string {
	return ix.path
}

// State returns the current load state without triggering a load.
func (ix *Index) State() State {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.state
}

// Err returns the cached load error, if any.
func (ix *Index) Err() error {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.err
}

// Load reads the book if it has not been read yet.
// It is safe to call any number of times; only the first call touches the file.
func (ix *Index) Load() error {
	ix.once.Do(ix.load)
	return ix.Err()
}

func (ix *Index) load() {
	start := time.Now()

	file, err := os.Open(ix.path)
	if err != nil {
		ix.fail(err)
		return
	}
	defer file.Close()

	table := make(map[string]*words.Word)
	total := 0
	reader := bufio.NewReader(file)
	for {
		chunk, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			ix.fail(err)
			return
		}
		// a trailing newline does not open an extra empty line
		if err == io.EOF && chunk == "" {
			break
		}

		splitLines(chunk, func(line string) {
			text := ix.fold(line)
			if w, ok := table[text]; ok {
				w.Increment()
			} else {
				table[text] = words.New(text)
			}
			total++
		})

		if err == io.EOF {
			break
		}
	}

	ranked := make([]words.Word, 0, len(table))
	for _, w := range table {
		ranked = append(ranked, *w)
	}
	words.Rank(ranked)

	trie := patricia.NewTrie()
	for _, w := range ranked {
		// the trie cannot hold an empty key, blank lines stay table-only
		if w.Text == "" {
			continue
		}
		trie.Insert(patricia.Prefix(w.Text), w.Count)
	}

	ix.mu.Lock()
	ix.table = table
	ix.ranked = ranked
	ix.trie = trie
	ix.total = total
	ix.state = Loaded
	ix.mu.Unlock()

	ix.log.Debugf("Loaded %s: %d distinct words, %d lines, took [ %v ]", ix.path, len(ranked), total, time.Since(start))
}

// splitLines emits the lines of a chunk read up to and including '\n'.
// "\n", "\r\n" and a lone "\r" all end a line. Text after the last
// terminator of the final chunk is a line too.
func splitLines(chunk string, emit func(string)) {
	newline := strings.HasSuffix(chunk, "\n")
	if newline {
		chunk = strings.TrimSuffix(chunk, "\n")
		chunk = strings.TrimSuffix(chunk, "\r")
	}
	pieces := strings.Split(chunk, "\r")
	last := len(pieces) - 1
	for _, line := range pieces[:last] {
		emit(line)
	}
	if newline || pieces[last] != "" {
		emit(pieces[last])
	}
}

func (ix *Index) fail(cause error) {
	ix.mu.Lock()
	ix.state = Failed
	ix.err = &LoadError{Path: ix.path, Err: cause}
	ix.table = make(map[string]*words.Word)
	ix.ranked = nil
	ix.total = 0
	ix.mu.Unlock()

	ix.log.Errorf("An error occurred while reading the file: %s (%v)", ix.path, cause)
}

// WordCount returns the number of distinct words in the book.
func (ix *Index) WordCount() int {
	ix.Load()
	return len(ix.ranked)
}

// TotalOccurrences returns the number of tokens read, duplicates included.
func (ix *Index) TotalOccurrences() int {
	ix.Load()
	return ix.total
}

// TopWords returns the n most frequent words in ranked order.
// Asking for more words than the book holds is a RangeError, never a truncation.
func (ix *Index) TopWords(n int) ([]words.Word, error) {
	ix.Load()
	if n < 0 || n > len(ix.ranked) {
		return nil, &RangeError{Requested: n, Available: len(ix.ranked)}
	}
	top := make([]words.Word, n)
	copy(top, ix.ranked[:n])
	return top, nil
}

// AllWords returns a copy of every word in ranked order.
func (ix *Index) AllWords() []words.Word {
	ix.Load()
	all := make([]words.Word, len(ix.ranked))
	copy(all, ix.ranked)
	return all
}

// Lookup finds a word by text. The text is folded before the lookup.
func (ix *Index) Lookup(text string) (words.Word, bool) {
	ix.Load()
	w, ok := ix.table[ix.fold(text)]
	if !ok {
		return words.Word{}, false
	}
	return *w, true
}

// Contains reports whether the book holds a word with the given text.
func (ix *Index) Contains(text string) bool {
	_, ok := ix.Lookup(text)
	return ok
}

// WithPrefix returns the words starting with prefix, in ranked order.
// A limit <= 0 returns every match.
func (ix *Index) WithPrefix(prefix string, limit int) []words.Word {
	ix.Load()
	lowerPrefix := ix.fold(prefix)

	var matches []words.Word
	visit := func(p patricia.Prefix, item patricia.Item) error {
		count, ok := item.(int)
		if !ok {
			ix.log.Errorf("Unknown item type: %T for word %s", item, p)
			return nil
		}
		matches = append(matches, words.Word{Text: string(p), Count: count})
		return nil
	}

	var err error
	if lowerPrefix == "" {
		err = ix.trie.Visit(visit)
	} else {
		err = ix.trie.VisitSubtree(patricia.Prefix(lowerPrefix), visit)
	}
	if err != nil {
		ix.log.Errorf("Error visiting trie subtree: %v", err)
		return nil
	}

	words.Rank(matches)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
