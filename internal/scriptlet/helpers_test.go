package scriptlet

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/scriptlet/internal/binder"
	"github.com/roach88/scriptlet/internal/catalog"
	"github.com/roach88/scriptlet/internal/host"
	"github.com/roach88/scriptlet/internal/ir"
)

var builtinCatalog = catalog.MustBuiltin()

// bind binds args against the built-in declaration of name.
func bind(t *testing.T, name string, args ...string) ir.Bound {
	t.Helper()
	tmpl, err := builtinCatalog.Lookup(name)
	require.NoError(t, err)
	return binder.Bind(tmpl, args)
}

// run binds and executes a built-in behavior against p.
func run(t *testing.T, p *host.Page, name string, args ...string) (ir.Result, error) {
	t.Helper()
	b := bind(t, name, args...)
	fn, ok := Builtin().Lookup(b.Template.Name)
	require.True(t, ok, "no behavior for %s", b.Template.Name)
	return fn(p, b)
}

func newPage(t *testing.T, html string, opts ...host.PageOption) *host.Page {
	t.Helper()
	p, err := host.NewPage(html, opts...)
	require.NoError(t, err)
	return p
}

func eval(t *testing.T, p *host.Page, src string) any {
	t.Helper()
	v, err := p.Eval(src)
	require.NoError(t, err)
	return v.Export()
}
