// Package listing models the disassembly text the user browses: lines split
// into selectable tokens.
package listing

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// tokenPattern matches identifiers (including MSVC-mangled names and dotted
// imports), registers and hex immediates in both 0x and h-suffix forms.
var tokenPattern = regexp.MustCompile(`0[xX][0-9A-Fa-f]+|[0-9][0-9A-Fa-f]*h\b|[A-Za-z_?@$.][A-Za-z0-9_?@$.]*`)

// Token is a selectable word of a line.
type Token struct {
	Text string
	Col  int // display column of the first cell
}

// Line is one source line and its tokens.
type Line struct {
	Text   string
	Tokens []Token
}

// Listing is a parsed disassembly buffer.
type Listing struct {
	Name  string
	Lines []Line
}

// Parse reads r line by line. Tabs are expanded to four columns so token
// columns match what the terminal shows.
func Parse(name string, r io.Reader) (*Listing, error) {
	l := &Listing{Name: name}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		l.Lines = append(l.Lines, ParseLine(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return l, nil
}

// ParseLine tokenizes a single line.
func ParseLine(text string) Line {
	text = strings.ReplaceAll(text, "\t", "    ")
	line := Line{Text: text}
	for _, loc := range tokenPattern.FindAllStringIndex(text, -1) {
		word := strings.Trim(text[loc[0]:loc[1]], ".")
		if word == "" {
			continue
		}
		lead := strings.Index(text[loc[0]:loc[1]], word)
		line.Tokens = append(line.Tokens, Token{
			Text: word,
			Col:  ansi.StringWidth(text[:loc[0]+lead]),
		})
	}
	return line
}

// TokenAt returns the index of the token covering display column col on
// line, or -1.
func (l Line) TokenAt(col int) int {
	for i, t := range l.Tokens {
		if col >= t.Col && col < t.Col+ansi.StringWidth(t.Text) {
			return i
		}
	}
	return -1
}

// Sample is shown when tdoc starts without a listing file.
const Sample = `; kernel32 thunk, sub_140001000
sub_140001000:
	push    rbx
	sub     rsp, 40h
	mov     rcx, [rsp+58h]          ; lpFileName
	mov     edx, 0C0000000h         ; GENERIC_READ|GENERIC_WRITE
	xor     r8d, r8d
	call    cs:__imp_CreateFileW
	mov     rbx, rax
	cmp     rax, 0FFFFFFFFFFFFFFFFh
	jz      short loc_140001040
	lea     rdx, [rsp+30h]
	mov     rcx, rbx
	call    cs:GetFileSizeEx
	mov     rcx, rbx
	call    cs:CloseHandle
loc_140001040:
	call    cs:GetLastError
	mov     ecx, eax
	call    memcpy
	add     rsp, 40h
	pop     rbx
	retn
`
