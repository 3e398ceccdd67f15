package testutil

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/scriptlet/internal/host"
)

// NewPage builds a page for a test, failing it on error.
func NewPage(t testing.TB, html string, opts ...host.PageOption) *host.Page {
	t.Helper()
	p, err := host.NewPage(html, opts...)
	require.NoError(t, err)
	return p
}

// MustURL parses raw, failing the test on error.
func MustURL(t testing.TB, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}
