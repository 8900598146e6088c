package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Point is a terminal cell, zero-based from the top-left corner.
type Point struct {
	X, Y int
}

// Rect is a box of cells.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// placeBox positions a w×h box near anchor inside a screen of sw×sh cells:
// one row below the anchor, or above it when there is no room below.
func placeBox(anchor Point, w, h, sw, sh int) Rect {
	x, y := anchor.X, anchor.Y+1
	if x+w > sw {
		x = sw - w
	}
	if y+h > sh {
		y = anchor.Y - h
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return Rect{X: x, Y: y, W: w, H: h}
}

// Overlay draws fg over bg with its top-left corner at (x, y). Both may
// contain ANSI styling; cells outside fg keep their background content.
func Overlay(bg, fg string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	for i, line := range strings.Split(fg, "\n") {
		row := y + i
		if row < 0 {
			continue
		}
		for row >= len(bgLines) {
			bgLines = append(bgLines, "")
		}
		under := bgLines[row]
		left := ansi.Truncate(under, x, "")
		if w := ansi.StringWidth(left); w < x {
			left += strings.Repeat(" ", x-w)
		}
		right := ansi.TruncateLeft(under, x+ansi.StringWidth(line), "")
		bgLines[row] = left + line + right
	}
	return strings.Join(bgLines, "\n")
}
