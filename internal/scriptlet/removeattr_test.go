package scriptlet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trackedHTML = `<a id="a" href="/x" onclick="track()">x</a><button id="b" onclick="track()">b</button><p id="c">c</p>`

func TestRemoveAttrDefaultSelector(t *testing.T) {
	p := newPage(t, trackedHTML)

	_, err := run(t, p, "ra.js", "onclick")
	require.NoError(t, err)

	out, err := p.HTML()
	require.NoError(t, err)
	assert.NotContains(t, out, "onclick")
	assert.Contains(t, out, `href="/x"`)
}

func TestRemoveAttrSelector(t *testing.T) {
	p := newPage(t, trackedHTML)

	_, err := run(t, p, "remove-attr.js", "onclick", "button")
	require.NoError(t, err)

	a, err := p.Select("#a")
	require.NoError(t, err)
	_, ok := a.Attr("onclick")
	assert.True(t, ok)

	b, err := p.Select("#b")
	require.NoError(t, err)
	_, ok = b.Attr("onclick")
	assert.False(t, ok)
}

func TestRemoveAttrIsIdempotent(t *testing.T) {
	p := newPage(t, trackedHTML)

	_, err := run(t, p, "ra.js", "onclick", "a")
	require.NoError(t, err)
	first, err := p.HTML()
	require.NoError(t, err)

	_, err = run(t, p, "ra.js", "onclick", "a")
	require.NoError(t, err)
	second, err := p.HTML()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRemoveAttrNoops(t *testing.T) {
	p := newPage(t, trackedHTML)
	before, err := p.HTML()
	require.NoError(t, err)

	_, err = run(t, p, "ra.js", "", "a")
	assert.NoError(t, err)
	_, err = run(t, p, "ra.js", "{{1}}")
	assert.NoError(t, err)
	_, err = run(t, p, "ra.js", "onclick", "a[")
	assert.Error(t, err)

	after, err := p.HTML()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
