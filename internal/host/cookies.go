package host

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// cookieJar keeps the page's live cookies in insertion order, keyed like a
// browser store by name, domain and path.
type cookieJar struct {
	cookies     []*http.Cookie
	assignments []string
}

func newCookieJar() *cookieJar {
	return &cookieJar{}
}

func sameCookie(a, b *http.Cookie) bool {
	return a.Name == b.Name && a.Domain == b.Domain && a.Path == b.Path
}

func (j *cookieJar) set(c *http.Cookie) {
	for i, existing := range j.cookies {
		if sameCookie(existing, c) {
			if c.MaxAge < 0 {
				j.cookies = append(j.cookies[:i], j.cookies[i+1:]...)
				return
			}
			j.cookies[i] = c
			return
		}
	}
	if c.MaxAge < 0 {
		return
	}
	j.cookies = append(j.cookies, c)
}

// header renders the jar the way document.cookie reads.
func (j *cookieJar) header() string {
	parts := make([]string, 0, len(j.cookies))
	for _, c := range j.cookies {
		if c.Name == "" {
			parts = append(parts, c.Value)
			continue
		}
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; ")
}

// SetCookie applies a cookie assignment string, as assigning it to
// document.cookie would. A non-positive Max-Age removes the cookie.
//
// The name=value pair is read with the lenient rules browsers apply to
// document.cookie, so names outside the RFC 6265 token set (such as
// "a(b)") are kept. Attributes are parsed by net/http.
func (p *Page) SetCookie(assignment string) error {
	c, err := parseAssignment(assignment)
	if err != nil {
		return fmt.Errorf("invalid cookie assignment %q: %w", assignment, err)
	}
	p.cookies.assignments = append(p.cookies.assignments, assignment)
	p.cookies.set(c)
	return nil
}

var (
	errEmptyCookie   = errors.New("empty name and value")
	errCookieControl = errors.New("control character in name or value")
)

// parseAssignment splits off the leading pair and hands the attributes to
// http.ParseSetCookie behind a placeholder pair. A pair without "=" is a
// value with an empty name.
func parseAssignment(assignment string) (*http.Cookie, error) {
	pair, attrs, _ := strings.Cut(assignment, ";")
	name, value, found := strings.Cut(pair, "=")
	if !found {
		name, value = "", name
	}
	name, value = strings.TrimSpace(name), strings.TrimSpace(value)
	if name == "" && value == "" {
		return nil, errEmptyCookie
	}
	if hasControl(name) || hasControl(value) {
		return nil, errCookieControl
	}

	c, err := http.ParseSetCookie("x=x;" + attrs)
	if err != nil {
		return nil, err
	}
	c.Name, c.Value, c.Raw = name, value, assignment
	return c, nil
}

func hasControl(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] == 0x7f {
			return true
		}
	}
	return false
}

// Cookie returns the first live cookie named name.
func (p *Page) Cookie(name string) (*http.Cookie, bool) {
	for _, c := range p.cookies.cookies {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Cookies returns the live cookies in insertion order.
func (p *Page) Cookies() []*http.Cookie {
	out := make([]*http.Cookie, len(p.cookies.cookies))
	copy(out, p.cookies.cookies)
	return out
}

// CookieAssignments returns every assignment string applied so far,
// including ones that removed a cookie.
func (p *Page) CookieAssignments() []string {
	out := make([]string, len(p.cookies.assignments))
	copy(out, p.cookies.assignments)
	return out
}

// CookieHeader renders the live cookies as document.cookie would.
func (p *Page) CookieHeader() string {
	return p.cookies.header()
}
