// Package words holds the token type shared by the frequency index and the bookshelf.
//
// A Word is identified by its case-folded text only. The count travels with it
// but never takes part in equality, so membership checks between books compare
// vocabularies and ignore how often a word occurs.
package words

import (
	"fmt"
	"sort"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Word is a case-folded token and the number of times it was seen.
type Word struct {
	Text  string
	Count int
}

// A Caser keeps state between calls and cannot be shared by goroutines.
var casers = sync.Pool{
	New: func() any {
		c := cases.Lower(language.Und)
		return &c
	},
}

// Fold case-folds raw text to the form used as a Word key.
func Fold(text string) string {
	c := casers.Get().(*cases.Caser)
	defer casers.Put(c)
	return c.String(text)
}

// New creates a word seen once. text is expected to be folded already.
func New(text string) *Word {
	return &Word{Text: text, Count: 1}
}

// Increment records one more occurrence.
func (w *Word) Increment() {
	w.Count++
}

func (w Word) String() string {
	return fmt.Sprintf("'%s' : %d occurrences", w.Text, w.Count)
}

// Key returns the identity of w.
func Key(w Word) string {
	return w.Text
}

// Equal reports whether a and b are the same word, regardless of counts.
func Equal(a, b Word) bool {
	return Key(a) == Key(b)
}

// Less orders by count descending, then text ascending.
func Less(a, b Word) bool {
	if a.Count != b.Count {
		return a.Count > b.Count
	}
	return a.Text < b.Text
}

// Rank sorts ws in place into ranked order.
func Rank(ws []Word) {
	sort.SliceStable(ws, func(i, j int) bool {
		return Less(ws[i], ws[j])
	})
}

// Texts returns the texts of ws in order.
func Texts(ws []Word) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Text
	}
	return out
}
