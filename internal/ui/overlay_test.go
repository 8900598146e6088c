package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlay(t *testing.T) {
	tests := []struct {
		name   string
		bg, fg string
		x, y   int
		want   string
	}{
		{"inside", "aaaaa\nbbbbb", "XY", 1, 1, "aaaaa\nbXYbb"},
		{"past line end", "ab", "XY", 4, 0, "ab  XY"},
		{"extra rows", "a", "X", 0, 2, "a\n\nX"},
		{"multi line", "....\n....\n....", "12\n34", 2, 1, "....\n..12\n..34"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlay(tt.bg, tt.fg, tt.x, tt.y))
		})
	}
}

func TestPlaceBox(t *testing.T) {
	assert.Equal(t, Rect{X: 10, Y: 6, W: 20, H: 4}, placeBox(Point{X: 10, Y: 5}, 20, 4, 80, 24))
	// no room below: flip above the anchor
	assert.Equal(t, Rect{X: 10, Y: 18, W: 20, H: 4}, placeBox(Point{X: 10, Y: 22}, 20, 4, 80, 24))
	// clamp to the right edge
	assert.Equal(t, Rect{X: 60, Y: 6, W: 20, H: 4}, placeBox(Point{X: 70, Y: 5}, 20, 4, 80, 24))
	// larger than the screen
	assert.Equal(t, Rect{X: 0, Y: 0, W: 100, H: 30}, placeBox(Point{X: 5, Y: 5}, 100, 30, 80, 24))
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 2, Y: 2, W: 3, H: 2}
	assert.True(t, r.Contains(Point{X: 2, Y: 2}))
	assert.True(t, r.Contains(Point{X: 4, Y: 3}))
	assert.False(t, r.Contains(Point{X: 5, Y: 3}))
	assert.False(t, r.Contains(Point{X: 3, Y: 4}))
}
