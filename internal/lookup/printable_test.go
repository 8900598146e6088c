package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintable(t *testing.T) {
	for name, tc := range map[string]struct{ in, want string }{
		"plain":          {"Creates a file.\n\n", "Creates a file.\n\n"},
		"tabs kept":      {"a\tb\nc", "a\tb\nc"},
		"clipboard":      {"safe\x1b]52;c;cHduZWQ=\x07text", "safetext"},
		"clear screen":   {"a\x1b[2Jb", "ab"},
		"title":          {"\x1b]0;owned\x07doc", "doc"},
		"bare controls":  {"be\x07ll\r\x00", "bell"},
		"unicode intact": {"café → naïve", "café → naïve"},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, Printable(tc.in))
		})
	}

	got := Printable("x\u009b2Jy")
	assert.NotContains(t, got, "\u009b")
	assert.Contains(t, got, "x")
}

func TestExtractKeepsControlBytes(t *testing.T) {
	got := Extract(page(200, "<p>a\x1b[2Jb</p>"), []string{"//p"})
	assert.Equal(t, "a\x1b[2Jb\n\n", got.Text)
	assert.Equal(t, "ab\n\n", got.Display())
}
