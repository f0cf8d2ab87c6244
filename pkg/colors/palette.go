package colors

import (
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/harrisonrobin/gtasksprint/pkg/urgency"
)

// Color codes are ANSI (0-15), 256-color (16-255) or "#rrggbb" strings.
const (
	Red    = "9"
	Orange = "208"
	White  = "15"
	Grey   = "7"
)

// Palette holds the color used for each urgency class and for notes.
// Empty entries fall back to the defaults.
type Palette struct {
	Classes [4]string
	Notes   string
}

var defaultPalette = Palette{
	Classes: [4]string{
		urgency.NoDueDate: White,
		urgency.DueLater:  White,
		urgency.DueToday:  Orange,
		urgency.Overdue:   Red,
	},
	Notes: Grey,
}

// Default returns the built-in palette: red when overdue, orange when due
// today, white otherwise, grey notes.
func Default() Palette {
	return defaultPalette
}

// Code returns the color code for class.
func (p Palette) Code(class urgency.Class) string {
	if class < 0 || int(class) >= len(p.Classes) {
		return White
	}
	if c := p.Classes[class]; c != "" {
		return c
	}
	return defaultPalette.Classes[class]
}

// NotesCode returns the color code used for notes.
func (p Palette) NotesCode() string {
	if p.Notes != "" {
		return p.Notes
	}
	return defaultPalette.Notes
}

// Color returns the class color converted for profile.
func (p Palette) Color(class urgency.Class, profile termenv.Profile) termenv.Color {
	return convert(p.Code(class), profile)
}

// NotesColor returns the notes color converted for profile.
func (p Palette) NotesColor(profile termenv.Profile) termenv.Color {
	return convert(p.NotesCode(), profile)
}

// Valid reports whether code is a color termenv understands.
func Valid(code string) bool {
	if strings.HasPrefix(code, "#") {
		return termenv.TrueColor.Color(code) != nil
	}
	n, err := strconv.Atoi(code)
	return err == nil && n >= 0 && n <= 255
}

func convert(code string, profile termenv.Profile) termenv.Color {
	if !Valid(code) {
		code = White
	}
	return profile.Color(code)
}
