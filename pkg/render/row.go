package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/harrisonrobin/gtasksprint/pkg/wrap"
)

const (
	horizontal  = "─"
	vertical    = "│"
	topLeft     = "┌"
	topRight    = "┐"
	bottomLeft  = "└"
	bottomRight = "┘"
)

// Row formats one box row: line padded with spaces to inner columns and
// styled, between two vertical borders. A line wider than inner is not
// truncated.
func Row(line string, inner int, style termenv.Style) string {
	pad := max(inner-wrap.Width(line), 0)
	return vertical + style.Styled(line+strings.Repeat(" ", pad)) + vertical + "\n"
}

// Border formats a horizontal border of inner columns between two corners.
func Border(left, right string, inner int) string {
	return left + strings.Repeat(horizontal, inner) + right
}

// sink writes rows and borders, one write per row.
type sink struct {
	w     io.Writer
	inner int
}

func (s *sink) top() error {
	return s.write(Border(topLeft, topRight, s.inner) + "\n")
}

func (s *sink) bottom() error {
	return s.write(Border(bottomLeft, bottomRight, s.inner))
}

func (s *sink) row(line string, style termenv.Style) error {
	return s.write(Row(line, s.inner, style))
}

func (s *sink) write(str string) error {
	if _, err := io.WriteString(s.w, str); err != nil {
		return fmt.Errorf("%w: %w", ErrOutput, err)
	}
	return nil
}
