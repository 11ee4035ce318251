package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/temirov/ptree/internal/render"
	"github.com/temirov/ptree/internal/types"
)

const errorUnknownColorMode = "unknown color mode %q (expected auto, always, or never)"

// ColorMode selects when ANSI styling is written to standard output.
type ColorMode string

const (
	ColorAuto   ColorMode = types.ColorAuto
	ColorAlways ColorMode = types.ColorAlways
	ColorNever  ColorMode = types.ColorNever
)

// ParseColorMode converts a mode name into a ColorMode. An empty name means ColorAuto.
func ParseColorMode(name string) (ColorMode, error) {
	switch ColorMode(strings.ToLower(strings.TrimSpace(name))) {
	case "", ColorAuto:
		return ColorAuto, nil
	case ColorAlways:
		return ColorAlways, nil
	case ColorNever:
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf(errorUnknownColorMode, name)
}

// String returns the mode name.
func (mode ColorMode) String() string {
	if mode == "" {
		return types.ColorAuto
	}
	return string(mode)
}

// Profile picks the color profile for writer. ColorAuto styles only terminals.
func (mode ColorMode) Profile(writer io.Writer) termenv.Profile {
	switch mode {
	case ColorAlways:
		return termenv.ANSI
	case ColorNever:
		return termenv.Ascii
	}
	if isTerminal(writer) {
		return termenv.ANSI
	}
	return termenv.Ascii
}

func isTerminal(writer io.Writer) bool {
	file, isFile := writer.(*os.File)
	return isFile && term.IsTerminal(int(file.Fd()))
}

type lipglossPainter struct {
	dimStyle lipgloss.Style
}

// NewPainter returns a render.Painter that styles text for profile. termenv.Ascii yields plain text.
func NewPainter(profile termenv.Profile) render.Painter {
	renderer := lipgloss.NewRenderer(io.Discard)
	renderer.SetColorProfile(profile)
	return lipglossPainter{dimStyle: renderer.NewStyle().Faint(true)}
}

func (painter lipglossPainter) Dim(text string) string {
	return painter.dimStyle.Render(text)
}
