// Package render draws a task list as a fixed-width box of colored,
// word-wrapped rows.
package render

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/muesli/termenv"

	"github.com/harrisonrobin/gtasksprint/pkg/colors"
	"github.com/harrisonrobin/gtasksprint/pkg/hyphen"
	"github.com/harrisonrobin/gtasksprint/pkg/model"
	"github.com/harrisonrobin/gtasksprint/pkg/urgency"
	"github.com/harrisonrobin/gtasksprint/pkg/wrap"
)

var (
	// ErrInvalidWidth is returned before any output when the box cannot fit
	// its borders and one column of note text.
	ErrInvalidWidth = errors.New("invalid width")
	// ErrOutput wraps a failed write to the output sink.
	ErrOutput = errors.New("output error")
)

const (
	// Frame is the number of columns not available to row content: two
	// borders plus one column left free at the right edge of the terminal.
	Frame = 3
	// Margin is the number of columns not available to wrapped text.
	Margin = 6

	TitleBullet = "• "
	TitleIndent = "   "
	NoteBullet  = "  • "
	NoteIndent  = "     "

	// MinWidth is the smallest width accepted by New. Below it a note's
	// continuation lines cannot hold a single column of text.
	MinWidth = Margin + len(NoteIndent) + 1
)

// EmptyTitlePolicy decides what is printed for a task without a title.
type EmptyTitlePolicy int

const (
	// BlankEmptyTitle prints a single row holding only the bullet, colored
	// like any other title.
	BlankEmptyTitle EmptyTitlePolicy = iota
	// SkipEmptyTitle prints no title row. Notes are still printed.
	SkipEmptyTitle
)

// Config controls a Renderer.
type Config struct {
	// Width of the terminal in columns.
	Width int
	// Now is the instant due dates are compared with. Zero means time.Now().
	Now time.Time
	// Palette colors rows. The zero value is the default palette.
	Palette colors.Palette
	// Profile is the terminal color profile. termenv.Ascii disables color.
	Profile    termenv.Profile
	EmptyTitle EmptyTitlePolicy
	// Hyphenator splits long words. Nil uses US English.
	Hyphenator wrap.Hyphenator
}

// Renderer draws task boxes. It holds no state between calls and may be used
// from several goroutines as long as each call has its own writer.
type Renderer struct {
	cfg Config
}

// New validates cfg and returns a Renderer.
func New(cfg Config) (*Renderer, error) {
	if cfg.Width < MinWidth {
		return nil, fmt.Errorf("%w: %d columns, need at least %d", ErrInvalidWidth, cfg.Width, MinWidth)
	}
	if cfg.Hyphenator == nil {
		d, err := hyphen.Default()
		if err != nil {
			return nil, err
		}
		cfg.Hyphenator = d
	}
	return &Renderer{cfg: cfg}, nil
}

// Render draws tasks to w with a Renderer built from cfg.
func Render(w io.Writer, tasks []model.Task, cfg Config) error {
	r, err := New(cfg)
	if err != nil {
		return err
	}
	return r.Render(w, tasks)
}

// Render draws tasks to w in the given order.
//
// A task with a malformed due date aborts the render. Rows of the tasks
// before it have already been written; nothing of the failing task is.
func (r *Renderer) Render(w io.Writer, tasks []model.Task) error {
	now := r.cfg.Now
	if now.IsZero() {
		now = time.Now()
	}

	out := &sink{w: w, inner: r.cfg.Width - Frame}
	if err := out.top(); err != nil {
		return err
	}

	notesStyle := r.cfg.Profile.String().Foreground(r.cfg.Palette.NotesColor(r.cfg.Profile))
	for i, task := range tasks {
		class, err := urgency.Classify(task.Due, now)
		if err != nil {
			return fmt.Errorf("task %d %q: %w", i+1, task.Title, err)
		}
		titleStyle := r.cfg.Profile.String().Foreground(r.cfg.Palette.Color(class, r.cfg.Profile))

		for _, line := range r.titleLines(task.Title) {
			if err := out.row(line, titleStyle); err != nil {
				return err
			}
		}
		if !task.HasNotes() {
			continue
		}
		for _, line := range r.wrap(task.Notes, NoteBullet, NoteIndent) {
			if err := out.row(line, notesStyle); err != nil {
				return err
			}
		}
	}

	return out.bottom()
}

func (r *Renderer) titleLines(title string) []string {
	lines := r.wrap(title, TitleBullet, TitleIndent)
	if len(lines) == 0 && r.cfg.EmptyTitle == BlankEmptyTitle {
		return []string{TitleBullet}
	}
	return lines
}

func (r *Renderer) wrap(text, initial, subsequent string) []string {
	return wrap.Wrap(text, wrap.Options{
		Width:            r.cfg.Width - Margin,
		InitialIndent:    initial,
		SubsequentIndent: subsequent,
		Hyphenator:       r.cfg.Hyphenator,
	})
}
