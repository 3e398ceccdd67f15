package scriptlet

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/roach88/scriptlet/internal/host"
	"github.com/roach88/scriptlet/internal/ir"
)

// removeAttr strips an attribute from every element matching the
// selector (default "*").
func removeAttr(p *host.Page, b ir.Bound) (ir.Result, error) {
	attr := b.Arg(1)
	if !b.Satisfied() || attr == "" {
		return ir.NoResult, nil
	}
	selector := b.Arg(2)
	if selector == "" {
		selector = "*"
	}

	elements, err := p.Select(selector)
	if err != nil {
		return ir.NoResult, err
	}
	elements.Each(func(_ int, el *goquery.Selection) {
		if _, ok := el.Attr(attr); ok {
			el.RemoveAttr(attr)
		}
	})
	return ir.NoResult, nil
}
