package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/vidyasagar/tdoc/internal/listing"
	"github.com/vidyasagar/tdoc/internal/theme"
)

// gutterWidth is the width of the line-number column including its space.
const gutterWidth = 6

// ListingView shows a disassembly listing and tracks the selected token.
type ListingView struct {
	listing *listing.Listing
	line    int // selected line
	token   int // selected token on line, -1 when the line has none
	offset  int // first visible line
	width   int
	height  int
}

// NewListingView creates a view over l.
func NewListingView(l *listing.Listing) ListingView {
	lv := ListingView{listing: l}
	lv.token = lv.firstToken(0)
	return lv
}

// SetListing replaces the listing and resets the cursor.
func (lv *ListingView) SetListing(l *listing.Listing) {
	lv.listing = l
	lv.line, lv.offset = 0, 0
	lv.token = lv.firstToken(0)
}

// SetSize sets the visible area.
func (lv *ListingView) SetSize(w, h int) {
	lv.width = w
	lv.height = h
	lv.follow()
}

func (lv *ListingView) lines() []listing.Line {
	if lv.listing == nil {
		return nil
	}
	return lv.listing.Lines
}

func (lv *ListingView) firstToken(line int) int {
	lines := lv.lines()
	if line >= len(lines) || len(lines[line].Tokens) == 0 {
		return -1
	}
	return 0
}

// MoveLine moves the cursor n lines, keeping the token column close.
func (lv *ListingView) MoveLine(n int) {
	lines := lv.lines()
	if len(lines) == 0 {
		return
	}
	col := 0
	if lv.token >= 0 {
		col = lines[lv.line].Tokens[lv.token].Col
	}
	lv.line = clamp(lv.line+n, 0, len(lines)-1)
	lv.token = nearestToken(lines[lv.line], col)
	lv.follow()
}

// MoveToken moves to the next (n>0) or previous token, crossing lines.
func (lv *ListingView) MoveToken(n int) {
	lines := lv.lines()
	if len(lines) == 0 {
		return
	}
	step := 1
	if n < 0 {
		step, n = -1, -n
	}
	for ; n > 0; n-- {
		line, tok := lv.line, lv.token+step
		for line >= 0 && line < len(lines) {
			if tok >= 0 && tok < len(lines[line].Tokens) {
				lv.line, lv.token = line, tok
				break
			}
			line += step
			if line < 0 || line >= len(lines) {
				break
			}
			tok = 0
			if step < 0 {
				tok = len(lines[line].Tokens) - 1
			}
		}
	}
	lv.follow()
}

// GotoTop selects the first line.
func (lv *ListingView) GotoTop() {
	lv.line = 0
	lv.token = lv.firstToken(0)
	lv.follow()
}

// GotoBottom selects the last line.
func (lv *ListingView) GotoBottom() {
	if n := len(lv.lines()); n > 0 {
		lv.line = n - 1
		lv.token = lv.firstToken(lv.line)
		lv.follow()
	}
}

// SelectAt selects the token under screen cell p. It reports whether a
// token was hit.
func (lv *ListingView) SelectAt(p Point) bool {
	lines := lv.lines()
	row := lv.offset + p.Y
	if p.Y < 0 || p.Y >= lv.height || row >= len(lines) {
		return false
	}
	idx := lines[row].TokenAt(p.X - gutterWidth)
	if idx < 0 {
		return false
	}
	lv.line, lv.token = row, idx
	return true
}

// Selected returns the selected token text.
func (lv *ListingView) Selected() (string, bool) {
	lines := lv.lines()
	if lv.token < 0 || lv.line >= len(lines) {
		return "", false
	}
	return lines[lv.line].Tokens[lv.token].Text, true
}

// CursorPoint returns the screen cell of the selected token.
func (lv *ListingView) CursorPoint() Point {
	p := Point{X: gutterWidth, Y: lv.line - lv.offset}
	if lv.token >= 0 {
		p.X += lv.lines()[lv.line].Tokens[lv.token].Col
	}
	return p
}

// Position returns "line/total" for the status bar.
func (lv *ListingView) Position() string {
	return fmt.Sprintf("%d/%d", lv.line+1, len(lv.lines()))
}

// follow scrolls so the selected line is visible.
func (lv *ListingView) follow() {
	if lv.height <= 0 {
		return
	}
	if lv.line < lv.offset {
		lv.offset = lv.line
	}
	if lv.line >= lv.offset+lv.height {
		lv.offset = lv.line - lv.height + 1
	}
}

// View renders the visible lines.
func (lv *ListingView) View() string {
	t := theme.Current
	gutter := lipgloss.NewStyle().Foreground(t.TextDim)
	text := lipgloss.NewStyle().Foreground(t.Text)
	mnemonic := lipgloss.NewStyle().Foreground(t.Mnemonic)
	comment := lipgloss.NewStyle().Foreground(t.Comment).Italic(true)
	selected := lipgloss.NewStyle().Foreground(t.Background).Background(t.Selection).Bold(true)

	lines := lv.lines()
	out := make([]string, 0, lv.height)
	for row := lv.offset; row < len(lines) && len(out) < lv.height; row++ {
		var sb strings.Builder
		sb.WriteString(gutter.Render(fmt.Sprintf("%5d ", row+1)))

		line := lines[row]
		semi := strings.IndexByte(line.Text, ';')
		if semi < 0 {
			semi = len(line.Text)
		}
		gap := func(from, to int) {
			if from >= to {
				return
			}
			if from < semi {
				sb.WriteString(text.Render(line.Text[from:min(to, semi)]))
			}
			if to > semi {
				sb.WriteString(comment.Render(line.Text[max(from, semi):to]))
			}
		}
		pos := 0
		for i, tok := range line.Tokens {
			start := byteOffset(line.Text, tok.Col)
			gap(pos, start)
			style := text
			switch {
			case row == lv.line && i == lv.token:
				style = selected
			case start >= semi:
				style = comment
			case i == 0 && strings.HasPrefix(line.Text, " "):
				style = mnemonic
			}
			sb.WriteString(style.Render(tok.Text))
			pos = start + len(tok.Text)
		}
		gap(pos, len(line.Text))
		out = append(out, ansi.Truncate(sb.String(), lv.width, "…"))
	}
	for len(out) < lv.height {
		out = append(out, "")
	}
	return strings.Join(out, "\n")
}

// byteOffset converts a display column of s into a byte offset.
func byteOffset(s string, col int) int {
	w := 0
	for i, r := range s {
		if w >= col {
			return i
		}
		w += ansi.StringWidth(string(r))
	}
	return len(s)
}

func nearestToken(l listing.Line, col int) int {
	best, dist := -1, 0
	for i, t := range l.Tokens {
		d := t.Col - col
		if d < 0 {
			d = -d
		}
		if best < 0 || d < dist {
			best, dist = i, d
		}
	}
	return best
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
