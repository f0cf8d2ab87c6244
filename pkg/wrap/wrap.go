// Package wrap measures text in terminal columns and wraps it into indented,
// hyphenated lines.
package wrap

import (
	"slices"
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// Ambiguous-width runes such as '•' are one column wide whatever the locale,
// so the box does not change shape under a CJK LANG.
var cond = &runewidth.Condition{EastAsianWidth: false, StrictEmojiNeutral: true}

// Width returns the number of terminal columns needed to display s.
func Width(s string) int {
	return cond.StringWidth(s)
}

// Hyphenator reports the rune offsets where word may be hyphenated.
type Hyphenator interface {
	Breaks(word string) []int
}

// Options controls Wrap.
type Options struct {
	// Width is the maximum width of a line in columns, indent included.
	Width int
	// InitialIndent prefixes the first line.
	InitialIndent string
	// SubsequentIndent prefixes every other line.
	SubsequentIndent string
	// Hyphenator splits words that do not fit. Nil splits only at hyphens
	// already present in the word.
	Hyphenator Hyphenator
}

// Wrap breaks text into lines no wider than opts.Width.
//
// Lines are filled greedily. A word that does not fit is hyphenated at the
// last break that still fits on the current line. A word that fits nowhere,
// not even on an empty line, overflows the width up to its first break, or
// entirely if it has none. Newlines in text start a new line; blank lines are
// kept as indent-only lines. Empty or blank text yields no lines.
func Wrap(text string, opts Options) []string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return nil
	}

	w := &wrapper{opts: opts}
	for _, para := range strings.Split(text, "\n") {
		w.start()
		for _, word := range strings.Fields(para) {
			w.add(word)
		}
		w.flush()
	}
	return w.lines
}

type wrapper struct {
	opts  Options
	lines []string

	line  strings.Builder
	width int
	words int
}

func (w *wrapper) start() {
	indent := w.opts.SubsequentIndent
	if len(w.lines) == 0 {
		indent = w.opts.InitialIndent
	}
	w.line.Reset()
	w.line.WriteString(indent)
	w.width = Width(indent)
	w.words = 0
}

func (w *wrapper) flush() {
	w.lines = append(w.lines, w.line.String())
}

func (w *wrapper) put(s string, sep int) {
	if sep > 0 {
		w.line.WriteByte(' ')
	}
	w.line.WriteString(s)
	w.width += sep + Width(s)
	w.words++
}

func (w *wrapper) add(word string) {
	for word != "" {
		sep := 0
		if w.words > 0 {
			sep = 1
		}
		if w.width+sep+Width(word) <= w.opts.Width {
			w.put(word, sep)
			return
		}

		if head, tail, ok := w.fit(word, w.opts.Width-w.width-sep); ok {
			w.put(head, sep)
			w.flush()
			w.start()
			word = tail
			continue
		}

		if w.words > 0 {
			w.flush()
			w.start()
			continue
		}

		// Nothing fits on an empty line.
		head, tail := w.firstFragment(word)
		w.put(head, 0)
		if tail == "" {
			return
		}
		w.flush()
		w.start()
		word = tail
	}
}

// fit returns the longest hyphenated head of word that is at most room
// columns wide.
func (w *wrapper) fit(word string, room int) (head, tail string, ok bool) {
	if room <= 0 {
		return "", "", false
	}
	points := breakPoints(word, w.opts.Hyphenator)
	for i := len(points) - 1; i >= 0; i-- {
		head = withHyphen(word[:points[i]])
		if Width(head) <= room {
			return head, word[points[i]:], true
		}
	}
	return "", "", false
}

func (w *wrapper) firstFragment(word string) (head, tail string) {
	points := breakPoints(word, w.opts.Hyphenator)
	if len(points) == 0 {
		return word, ""
	}
	return withHyphen(word[:points[0]]), word[points[0]:]
}

func withHyphen(s string) string {
	if strings.HasSuffix(s, "-") {
		return s
	}
	return s + "-"
}

// breakPoints returns the byte offsets inside word where it may be split:
// right after an existing hyphen, and at the hyphenation points of each run
// of letters.
func breakPoints(word string, h Hyphenator) []int {
	var points []int
	for i, r := range word {
		if r == '-' && i > 0 && i+1 < len(word) {
			points = append(points, i+1)
		}
	}

	if h != nil {
		runStart := -1
		for i, r := range word + " " {
			if unicode.IsLetter(r) {
				if runStart < 0 {
					runStart = i
				}
				continue
			}
			if runStart >= 0 {
				points = append(points, runBreaks(word[runStart:i], runStart, h)...)
				runStart = -1
			}
		}
	}

	slices.Sort(points)
	return slices.Compact(points)
}

// runBreaks converts the rune offsets reported for run into byte offsets
// within the enclosing word.
func runBreaks(run string, base int, h Hyphenator) []int {
	breaks := h.Breaks(run)
	if len(breaks) == 0 {
		return nil
	}
	out := make([]int, 0, len(breaks))
	runeIdx, next := 0, 0
	for byteIdx := range run {
		for next < len(breaks) && breaks[next] == runeIdx {
			if byteIdx > 0 {
				out = append(out, base+byteIdx)
			}
			next++
		}
		runeIdx++
	}
	return out
}
