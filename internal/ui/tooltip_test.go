package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vidyasagar/tdoc/internal/lookup"
)

func TestTooltip(t *testing.T) {
	tt := NewTooltip()
	tt.SetSize(80, 24)
	assert.False(t, tt.IsVisible())
	assert.Equal(t, "bg", tt.Overlay("bg"))

	tt.Set(lookup.TextContent("Closes an open object handle.\n\n"), Point{X: 2, Y: 1})
	assert.True(t, tt.IsVisible())
	assert.Contains(t, tt.View(), "Closes an open object handle.")
	assert.Contains(t, tt.Overlay(strings.Repeat("\n", 5)), "Closes an open")

	tt.Clear()
	assert.False(t, tt.IsVisible())
	assert.Empty(t, tt.View())
}

func TestTooltipTruncatesLongContent(t *testing.T) {
	tt := NewTooltip()
	tt.SetSize(80, 40)
	tt.Set(lookup.TextContent(strings.Repeat("line\n", 30)), Point{})
	lines := strings.Split(tt.View(), "\n")
	assert.Len(t, lines, tooltipMaxLines)
	assert.Contains(t, lines[len(lines)-1], "…")
}

func TestTooltipStripsTerminalEscapes(t *testing.T) {
	tt := NewTooltip()
	tt.SetSize(80, 24)
	tt.Set(lookup.TextContent("safe\x1b]52;c;cHduZWQ=\x07\x1b[2Jtext"), Point{})

	v := tt.View()
	assert.Contains(t, v, "safetext")
	assert.NotContains(t, v, "\x1b]52")
	assert.NotContains(t, v, "\x1b[2J")
	assert.NotContains(t, v, "\x07")
}
