package format

import (
	"strings"
	"unicode"
)

// DefaultCellWidth bounds a table cell before it is truncated.
const DefaultCellWidth = 40

// Cell makes server-supplied text safe to place in a terminal table cell:
// control characters are dropped, tabs and newlines become spaces and the
// result is truncated to DefaultCellWidth runes.
func Cell(s string) string {
	return CellWidth(s, DefaultCellWidth)
}

func CellWidth(s string, width int) string {
	var b strings.Builder
	b.Grow(len(s))

	space := false
	for _, r := range s {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			if !space {
				b.WriteRune(' ')
			}
			space = true
			continue
		case unicode.IsControl(r):
			continue
		}
		space = r == ' '
		b.WriteRune(r)
	}

	out := strings.TrimSpace(b.String())
	if width <= 0 {
		return out
	}

	runes := []rune(out)
	if len(runes) > width {
		return string(runes[:width-1]) + "…"
	}
	return out
}

// Or returns fallback when s is blank.
func Or(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
