package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedirectTarget(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		target, found, err := RedirectTarget("<html><body>plain page</body></html>")
		assert.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, target)
	})

	t.Run("tracking suffix dropped and decoded", func(t *testing.T) {
		body := `<script>window.location.replace('https%3A%2F%2Fdocs.example.com%2Fx&utm=1');</script>`
		target, found, err := RedirectTarget(body)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "https://docs.example.com/x", target)
	})

	t.Run("leading relative path stripped", func(t *testing.T) {
		body := `window.location.replace('/l/?uddg=https%3A%2F%2Flearn.microsoft.com%2Fen-us%2Fwin32%2Fapi&rut=abc')`
		target, found, err := RedirectTarget(body)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "https://learn.microsoft.com/en-us/win32/api", target)
	})

	t.Run("double quotes", func(t *testing.T) {
		target, found, err := RedirectTarget(`window.location.replace("http%3A%2F%2Fa.example%2F")`)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "http://a.example/", target)
	})

	t.Run("plus is not a space", func(t *testing.T) {
		target, _, err := RedirectTarget(`window.location.replace('https://a.example/c++')`)
		require.NoError(t, err)
		assert.Equal(t, "https://a.example/c++", target)
	})

	t.Run("malformed escapes kept", func(t *testing.T) {
		body := `window.location.replace('//duckduckgo.com/l/?uddg=https%3A%2F%2Fx.com%2Fa%zz&rut=1')`
		target, found, err := RedirectTarget(body)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "https://x.com/a%zz", target)

		target, _, err = RedirectTarget(`window.location.replace('https://a.example/100%%2')`)
		require.NoError(t, err)
		assert.Equal(t, "https://a.example/100%%2", target)
	})

	for name, body := range map[string]string{
		"missing opening quote": `window.location.replace(url)`,
		"missing closing quote": `window.location.replace('https://a.example/`,
		"no http":               `window.location.replace('/relative/only&x=1')`,
		"marker at end":         `window.location.replace(`,
	} {
		t.Run(name, func(t *testing.T) {
			_, found, err := RedirectTarget(body)
			assert.True(t, found)
			var perr *RedirectParseError
			assert.ErrorAs(t, err, &perr)
		})
	}
}
