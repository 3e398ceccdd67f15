package scriptlet

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/roach88/scriptlet/internal/host"
	"github.com/roach88/scriptlet/internal/ir"
)

var sameSitePolicies = []string{"Lax", "Strict", "None"}

// BuildCookie renders the cookie assignment for a bound set-cookie.js
// instance. It reports false when the cookie name is absent.
func BuildCookie(b ir.Bound) (string, bool) {
	name := b.Arg(1)
	if !b.Satisfied() || name == "" {
		return "", false
	}

	var sb strings.Builder
	sb.WriteString(encodeURIComponent(name))
	sb.WriteByte('=')
	sb.WriteString(encodeURIComponent(b.Arg(2)))

	if maxAge, ok := parseInt(b.Arg(3)); ok {
		sb.WriteString("; Max-Age=")
		sb.WriteString(maxAge)
	}

	path := b.Arg(4)
	if path == "" {
		path = "/"
	}
	sb.WriteString("; Path=")
	sb.WriteString(path)

	if domain := b.Arg(5); domain != "" {
		sb.WriteString("; Domain=")
		sb.WriteString(domain)
	}

	if strings.EqualFold(b.Arg(6), "true") {
		sb.WriteString("; Secure")
	}

	if sameSite := b.Arg(7); sameSite != "" {
		for _, policy := range sameSitePolicies {
			if strings.EqualFold(policy, sameSite) {
				sb.WriteString("; SameSite=")
				sb.WriteString(policy)
				break
			}
		}
	}
	return sb.String(), true
}

func setCookie(p *host.Page, b ir.Bound) (ir.Result, error) {
	cookie, ok := BuildCookie(b)
	if !ok {
		return ir.NoResult, nil
	}
	if err := p.SetCookie(cookie); err != nil {
		return ir.NoResult, fmt.Errorf("writing cookie: %w", err)
	}
	return ir.NoResult, nil
}

// encodeURIComponent percent-encodes every byte outside the unreserved
// set A-Z a-z 0-9 - _ . ! ~ * ' ( ).
func encodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isURIUnreserved(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(hex[c>>4])
		sb.WriteByte(hex[c&0x0f])
	}
	return sb.String()
}

func isURIUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

// parseInt mirrors JavaScript's parseInt(s, 10): optional leading
// whitespace and sign, then the longest run of decimal digits. The digits
// are returned without leading zeros.
func parseInt(s string) (string, bool) {
	s = strings.TrimLeftFunc(s, func(r rune) bool { return unicode.IsSpace(r) || r == '\ufeff' })
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	end := 0
	for end < len(s) && '0' <= s[end] && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return "", false
	}
	digits := strings.TrimLeft(s[:end], "0")
	if digits == "" {
		return "0", true
	}
	if neg {
		return "-" + digits, true
	}
	return digits, true
}
