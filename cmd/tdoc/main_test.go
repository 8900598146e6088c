package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingOpener struct {
	urls []string
}

func (o *recordingOpener) Open(rawURL string) error {
	o.urls = append(o.urls, rawURL)
	return nil
}

func docServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("q") {
		case "CreateFileW":
			fmt.Fprint(w, `<html><body><p>Creates or opens a file.</p></body></html>`)
		case "memcpy":
			fmt.Fprint(w, `<html><body><div>nothing useful</div></body></html>`)
		case "MessageBeep":
			fmt.Fprint(w, "<html><body><p>Plays\x1b]52;c;cHduZWQ=\x07\x1b[2J a sound.</p></body></html>")
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeConfig(t *testing.T, searchURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := fmt.Sprintf("search_url: %q\ntooltip_xpaths:\n  - //p\ntimeout_seconds: 5\n", searchURL)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func execute(t *testing.T, opener *recordingOpener, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd(opener)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestLookupCommand(t *testing.T) {
	srv := docServer(t)
	cfg := writeConfig(t, srv.URL+"/?q={search_term}")

	out, _, err := execute(t, &recordingOpener{}, "--config", cfg, "lookup", "CreateFileW")
	require.NoError(t, err)
	assert.Equal(t, "Creates or opens a file.\n", out)

	out, _, err = execute(t, &recordingOpener{}, "--config", cfg, "lookup", "--url", "memcpy")
	require.NoError(t, err)
	assert.Contains(t, out, "search: "+srv.URL+"/?q=memcpy")
	assert.Contains(t, out, "No info found")
}

func TestLookupCommandStripsTerminalEscapes(t *testing.T) {
	srv := docServer(t)
	cfg := writeConfig(t, srv.URL+"/?q={search_term}")

	out, _, err := execute(t, &recordingOpener{}, "--config", cfg, "lookup", "MessageBeep")
	require.NoError(t, err)
	assert.Equal(t, "Plays a sound.\n", out)
}

func TestLookupCommandReportsStatus(t *testing.T) {
	srv := docServer(t)
	cfg := writeConfig(t, srv.URL+"/?q={search_term}")

	out, errOut, err := execute(t, &recordingOpener{}, "--config", cfg, "lookup", "Unknown")
	assert.ErrorIs(t, err, errReported)
	assert.Empty(t, out)
	assert.Equal(t, "Error: 404\n", errOut)
}

func TestOpenCommand(t *testing.T) {
	cfg := writeConfig(t, "https://docs.example.com/search?q={search_term}")

	out, _, err := execute(t, &recordingOpener{}, "--config", cfg, "open", "--print", "CloseHandle")
	require.NoError(t, err)
	assert.Equal(t, "https://docs.example.com/search?q=CloseHandle\n", out)

	opener := &recordingOpener{}
	_, _, err = execute(t, opener, "--config", cfg, "open", "CloseHandle")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://docs.example.com/search?q=CloseHandle"}, opener.urls)
}

func TestConfigCommand(t *testing.T) {
	cfg := writeConfig(t, "https://docs.example.com/search?q={search_term}")

	out, _, err := execute(t, &recordingOpener{}, "--config", cfg, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "# "+cfg)
	assert.Contains(t, out, "docs.example.com/search?q={search_term}")
	assert.Contains(t, out, "timeout_seconds: 5")

	out, _, err = execute(t, &recordingOpener{}, "--config", cfg, "config", "--path")
	require.NoError(t, err)
	assert.Equal(t, cfg+"\n", out)
}

func TestConfigCreatedOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	_, _, err := execute(t, &recordingOpener{}, "--config", path, "config", "--path")
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestUnknownTheme(t *testing.T) {
	cfg := writeConfig(t, "https://docs.example.com/search?q={search_term}")

	_, _, err := execute(t, &recordingOpener{}, "--config", cfg, "--theme", "neon", "config")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown theme "neon"`)
}

func TestLoadListing(t *testing.T) {
	l, err := loadListing(nil)
	require.NoError(t, err)
	assert.Equal(t, "sample", l.Name)
	assert.NotEmpty(t, l.Lines)

	path := filepath.Join(t.TempDir(), "dump.asm")
	require.NoError(t, os.WriteFile(path, []byte("    call    memcpy\n"), 0o644))
	l, err = loadListing([]string{path})
	require.NoError(t, err)
	assert.Equal(t, "dump.asm", l.Name)
	require.Len(t, l.Lines, 1)
	assert.Equal(t, "memcpy", l.Lines[0].Tokens[1].Text)

	_, err = loadListing([]string{filepath.Join(t.TempDir(), "missing.asm")})
	assert.Error(t, err)
}
