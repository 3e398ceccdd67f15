package host

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPageWindowIsGlobal(t *testing.T) {
	p, err := NewPage("<html><body></body></html>", WithScript("var answer = 42;"))
	require.NoError(t, err)

	v, err := p.Eval("window.answer === 42 && window === self && typeof document === 'object'")
	require.NoError(t, err)
	assert.True(t, v.ToBoolean())
}

func TestNewPageBootstrapError(t *testing.T) {
	_, err := NewPage("", WithScript("throw new Error('nope')"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bootstrap script 0")
}

func TestConsoleBinding(t *testing.T) {
	console := NewMemoryConsole()
	p, err := NewPage("", WithConsole(console))
	require.NoError(t, err)

	_, err = p.Eval("console.warn('a', 1); console.log('b')")
	require.NoError(t, err)
	assert.Equal(t, []ConsoleEntry{
		{Level: "warn", Message: "a 1"},
		{Level: "log", Message: "b"},
	}, console.Entries())
}

func TestSetCookie(t *testing.T) {
	p, err := NewPage("")
	require.NoError(t, err)

	require.NoError(t, p.SetCookie("id=42; Path=/; Secure; SameSite=Strict"))
	c, ok := p.Cookie("id")
	require.True(t, ok)
	assert.Equal(t, "42", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.Secure)

	require.NoError(t, p.SetCookie("id=43; Path=/"))
	assert.Len(t, p.Cookies(), 1)
	assert.Equal(t, "id=43", p.CookieHeader())

	require.NoError(t, p.SetCookie("id=; Max-Age=0; Path=/"))
	_, ok = p.Cookie("id")
	assert.False(t, ok)
	assert.Len(t, p.CookieAssignments(), 3)

	assert.Error(t, p.SetCookie(" ; Path=/"))
	assert.Error(t, p.SetCookie("a\x01=1"))
}

func TestSetCookieLenientNames(t *testing.T) {
	p, err := NewPage("")
	require.NoError(t, err)

	require.NoError(t, p.SetCookie("a(b)=1; Max-Age=60; Path=/"))
	c, ok := p.Cookie("a(b)")
	require.True(t, ok)
	assert.Equal(t, "1", c.Value)
	assert.Equal(t, 60, c.MaxAge)

	require.NoError(t, p.SetCookie("novalue"))
	assert.Equal(t, "a(b)=1; novalue", p.CookieHeader())
}

func TestDocumentCookieFromScript(t *testing.T) {
	p, err := NewPage("")
	require.NoError(t, err)

	_, err = p.Eval("document.cookie = 'a=1; Path=/'; document.cookie = 'b=2'")
	require.NoError(t, err)

	v, err := p.Eval("document.cookie")
	require.NoError(t, err)
	assert.Equal(t, "a=1; b=2", v.String())
}

func TestSelect(t *testing.T) {
	p, err := NewPage(`<div class="ad"><p>x</p></div><div></div>`)
	require.NoError(t, err)

	sel, err := p.Select("div.ad")
	require.NoError(t, err)
	assert.Equal(t, 1, sel.Length())

	_, err = p.Select("div[")
	assert.Error(t, err)
}

func TestCompileRegExp(t *testing.T) {
	re, err := CompileRegExp(`ads?\.example\.com/banner`)
	require.NoError(t, err)
	ok, err := re.MatchString("https://ad.example.com/banner.png")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = CompileRegExp("(unclosed")
	assert.Error(t, err)
}

func TestImageSourceResolution(t *testing.T) {
	base, err := url.Parse("https://news.example.org/world/story.html")
	require.NoError(t, err)
	p, err := NewPage(`<img id="a" src="/img/ad.png"><img id="b">`, WithURL(base))
	require.NoError(t, err)

	a, err := p.Select("#a")
	require.NoError(t, err)
	assert.Equal(t, "https://news.example.org/img/ad.png", p.ImageSource(a))

	b, err := p.Select("#b")
	require.NoError(t, err)
	assert.Equal(t, "", p.ImageSource(b))

	noURL, err := NewPage(`<img src="/img/ad.png">`)
	require.NoError(t, err)
	assert.Equal(t, "/img/ad.png", noURL.ImageSource(noURL.Document().Find("img")))
}

func TestHTMLRendersMutations(t *testing.T) {
	p, err := NewPage(`<p id="x" data-track="1">hi</p>`)
	require.NoError(t, err)
	sel, err := p.Select("#x")
	require.NoError(t, err)
	sel.RemoveAttr("data-track")

	out, err := p.HTML()
	require.NoError(t, err)
	assert.Contains(t, out, `<p id="x">hi</p>`)
}

func TestIsConsoleLevel(t *testing.T) {
	assert.True(t, IsConsoleLevel("warn"))
	assert.False(t, IsConsoleLevel("trace"))
	assert.False(t, IsConsoleLevel("WARN"))
}
