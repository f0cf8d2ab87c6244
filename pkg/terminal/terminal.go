// Package terminal detects the width and color support of the output terminal.
package terminal

import (
	"errors"
	"fmt"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Color modes accepted by Profile.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var (
	// ErrNotTerminal is returned when the width of a non-terminal is requested.
	ErrNotTerminal = errors.New("not a terminal")
	// ErrUnknownColorMode is returned for a color mode other than auto, always or never.
	ErrUnknownColorMode = errors.New("unknown color mode")
)

// Replaceable in tests.
var (
	isTerminalFn = term.IsTerminal
	getSizeFn    = term.GetSize
	envProfileFn = func(f *os.File) termenv.Profile {
		return termenv.NewOutput(f).EnvColorProfile()
	}
)

// Width returns the number of columns of the terminal attached to f.
func Width(f *os.File) (int, error) {
	fd := int(f.Fd())
	if !isTerminalFn(fd) {
		return 0, fmt.Errorf("%s: %w", f.Name(), ErrNotTerminal)
	}
	w, _, err := getSizeFn(fd)
	if err != nil {
		return 0, fmt.Errorf("failed to get terminal size: %w", err)
	}
	return w, nil
}

// ResolveWidth picks the box width: an explicit flag wins over the configured
// width, which wins over the detected terminal width. Zero means unset.
func ResolveWidth(flagWidth, configWidth int, f *os.File) (int, error) {
	switch {
	case flagWidth != 0:
		return flagWidth, nil
	case configWidth != 0:
		return configWidth, nil
	}
	w, err := Width(f)
	if err != nil {
		return 0, fmt.Errorf("cannot determine width, pass it as an argument: %w", err)
	}
	return w, nil
}

// Profile returns the color profile for output to f.
//
// "auto" inspects f and the environment (NO_COLOR, CLICOLOR_FORCE, TERM),
// "always" forces 256 colors and "never" disables color.
func Profile(mode string, f *os.File) (termenv.Profile, error) {
	switch mode {
	case ColorAuto, "":
		return envProfileFn(f), nil
	case ColorAlways:
		return termenv.ANSI256, nil
	case ColorNever:
		return termenv.Ascii, nil
	}
	return termenv.Ascii, fmt.Errorf("%w %q", ErrUnknownColorMode, mode)
}
