package lookup

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

// Printable returns s without terminal escape sequences or other control
// characters. Newlines and tabs are kept. Page text passes through it before
// it is written to the terminal.
func Printable(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, ansi.Strip(s))
}

// Display is the text of c safe to draw on a terminal.
func (c Content) Display() string { return Printable(c.Text) }
