package scriptlet

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/roach88/scriptlet/internal/host"
	"github.com/roach88/scriptlet/internal/ir"
)

// hideIfContainsImage hides every container holding an <img> whose
// resolved src matches the pattern. A bad selector or pattern fails the
// whole invocation before any container is touched.
func hideIfContainsImage(p *host.Page, b ir.Bound) (ir.Result, error) {
	selector, pattern := b.Arg(1), b.Arg(2)
	if !b.Satisfied() || selector == "" || pattern == "" {
		return ir.NoResult, nil
	}

	re, err := host.CompileRegExp(pattern)
	if err != nil {
		return ir.NoResult, err
	}
	containers, err := p.Select(selector)
	if err != nil {
		return ir.NoResult, err
	}

	var matchErr error
	containers.EachWithBreak(func(_ int, container *goquery.Selection) bool {
		container.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
			src := p.ImageSource(img)
			if src == "" {
				return true
			}
			ok, err := re.MatchString(src)
			if err != nil {
				matchErr = err
				return false
			}
			if ok {
				style, _ := container.Attr("style")
				container.SetAttr("style", setStyleProperty(style, "display", "none", "important"))
				return false
			}
			return true
		})
		return matchErr == nil
	})
	return ir.NoResult, matchErr
}

// setStyleProperty rewrites an inline style declaration list the way
// CSSStyleDeclaration.setProperty does: an existing declaration of prop is
// replaced and the new one is appended.
func setStyleProperty(style, prop, value, priority string) string {
	var decls []string
	for _, decl := range strings.Split(style, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		name, _, _ := strings.Cut(decl, ":")
		if strings.EqualFold(strings.TrimSpace(name), prop) {
			continue
		}
		decls = append(decls, decl+";")
	}
	decl := prop + ": " + value
	if priority != "" {
		decl += " !" + priority
	}
	decls = append(decls, decl+";")
	return strings.Join(decls, " ")
}
