// Package hyphen finds the points where an English word may be hyphenated.
//
// The dictionary uses Liang's algorithm with the US-English TeX patterns
// (hyph-en-us) embedded in the binary. Exceptions from the TeX hyphenation
// list are encoded as patterns with priorities 8 (no break) and 9 (break) so
// that they override the regular patterns.
package hyphen

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sync"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/speedata/hyphenation"
)

//go:embed patterns/hyph-en-us.pat.txt
var enUSPatterns []byte

// TeX \lefthyphenmin and \righthyphenmin for US English.
const (
	LeftMin  = 2
	RightMin = 3
)

// cacheSize bounds the number of words whose breaks are remembered.
const cacheSize = 4096

// Dictionary hyphenates words for one language. It is safe for concurrent use.
type Dictionary struct {
	lang  *hyphenation.Lang
	cache *lru.Cache[string, []int]
}

var (
	defaultOnce sync.Once
	defaultDict *Dictionary
	defaultErr  error
)

// Default returns the US-English dictionary. Patterns are parsed on first use.
func Default() (*Dictionary, error) {
	defaultOnce.Do(func() {
		defaultDict, defaultErr = New(bytes.NewReader(enUSPatterns))
	})
	return defaultDict, defaultErr
}

// New reads whitespace separated TeX patterns from r.
func New(r io.Reader) (*Dictionary, error) {
	lang, err := hyphenation.New(r)
	if err != nil {
		return nil, fmt.Errorf("failed to load hyphenation patterns: %w", err)
	}
	// speedata counts the minimums off by one relative to TeX on the left side.
	lang.Leftmin = LeftMin - 1
	lang.Rightmin = RightMin

	cache, err := lru.New[string, []int](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Dictionary{lang: lang, cache: cache}, nil
}

// Breaks returns the rune offsets inside word where a hyphen may be inserted,
// in increasing order. Offset i means "word[:i] - word[i:]" counted in runes.
// The returned slice is shared and must not be modified.
func (d *Dictionary) Breaks(word string) []int {
	if utf8.RuneCountInString(word) < LeftMin+RightMin {
		return nil
	}
	if breaks, ok := d.cache.Get(word); ok {
		return breaks
	}
	breaks := d.lang.Hyphenate(word)
	d.cache.Add(word, breaks)
	return breaks
}

// Hyphenate returns word with every permissible break marked by sep.
func (d *Dictionary) Hyphenate(word, sep string) string {
	breaks := d.Breaks(word)
	if len(breaks) == 0 {
		return word
	}
	runes := []rune(word)
	var b bytes.Buffer
	last := 0
	for _, br := range breaks {
		b.WriteString(string(runes[last:br]))
		b.WriteString(sep)
		last = br
	}
	b.WriteString(string(runes[last:]))
	return b.String()
}
