package host

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/dlclark/regexp2"
)

// Select returns the elements matching a CSS selector. Unlike
// goquery's Find, a selector that fails to compile is an error rather
// than an empty match.
func (p *Page) Select(selector string) (*goquery.Selection, error) {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return p.doc.FindMatcher(m), nil
}

// CompileRegExp compiles a regular expression source with JavaScript
// RegExp semantics and no flags.
func CompileRegExp(source string) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(source, regexp2.ECMAScript)
	if err != nil {
		return nil, fmt.Errorf("invalid regular expression %q: %w", source, err)
	}
	return re, nil
}

// ImageSource returns the resolved src of an <img> element the way the
// DOM's HTMLImageElement.src reports it: absolute when the page has a URL,
// empty when the attribute is missing.
func (p *Page) ImageSource(img *goquery.Selection) string {
	src, ok := img.Attr("src")
	if !ok {
		return ""
	}
	return p.ResolveURL(src)
}
