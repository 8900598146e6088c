package launch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpenRejectsNonHTTP(t *testing.T) {
	for _, raw := range []string{"file:///etc/passwd", "javascript:alert(1)", "no-scheme", "%zz"} {
		assert.Error(t, Browser{}.Open(raw), raw)
	}
}
