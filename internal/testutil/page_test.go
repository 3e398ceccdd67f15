package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/scriptlet/internal/host"
)

func TestNewPage(t *testing.T) {
	p := NewPage(t, `<div id="x"></div>`, host.WithURL(MustURL(t, "https://example.com/a/")))

	assert.Equal(t, 1, p.Document().Find("#x").Length())
	assert.Equal(t, "https://example.com/a/b.png", p.ResolveURL("b.png"))
}
