package host

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dop251/goja"
	"golang.org/x/net/html"
)

// Page is one host environment instance.
type Page struct {
	vm      *goja.Runtime
	doc     *goquery.Document
	base    *url.URL
	console Console
	cookies *cookieJar
	scripts []string
}

// PageOption configures a Page.
type PageOption func(*Page)

// WithURL sets the document URL used to resolve relative resource
// references, as HTMLImageElement.src does.
func WithURL(u *url.URL) PageOption {
	return func(p *Page) {
		p.base = u
	}
}

// WithConsole replaces the default in-memory console.
func WithConsole(c Console) PageOption {
	return func(p *Page) {
		p.console = c
	}
}

// WithScript adds a bootstrap script evaluated in the page's global scope
// once the page is built. Scripts run in the order given.
func WithScript(src string) PageOption {
	return func(p *Page) {
		p.scripts = append(p.scripts, src)
	}
}

// NewPage parses src as an HTML document and builds a page around it.
func NewPage(src string, opts ...PageOption) (*Page, error) {
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	p := &Page{
		vm:      goja.New(),
		doc:     goquery.NewDocumentFromNode(root),
		console: NewMemoryConsole(),
		cookies: newCookieJar(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.installGlobals(); err != nil {
		return nil, fmt.Errorf("installing globals: %w", err)
	}
	for i, src := range p.scripts {
		if _, err := p.vm.RunString(src); err != nil {
			return nil, fmt.Errorf("bootstrap script %d: %w", i, err)
		}
	}
	return p, nil
}

// Runtime returns the underlying JS runtime.
func (p *Page) Runtime() *goja.Runtime {
	return p.vm
}

// Global returns the global object (window).
func (p *Page) Global() *goja.Object {
	return p.vm.GlobalObject()
}

// Eval runs src in the page's global scope.
func (p *Page) Eval(src string) (goja.Value, error) {
	return p.vm.RunString(src)
}

// Document returns the parsed HTML document.
func (p *Page) Document() *goquery.Document {
	return p.doc
}

// HTML renders the current document.
func (p *Page) HTML() (string, error) {
	return p.doc.Html()
}

// Console returns the page console.
func (p *Page) Console() Console {
	return p.console
}

// URL returns the document URL, or nil when none was set.
func (p *Page) URL() *url.URL {
	return p.base
}

// ResolveURL resolves ref against the document URL. Without a document URL
// or with an unparsable ref the reference is returned as written.
func (p *Page) ResolveURL(ref string) string {
	if p.base == nil {
		return ref
	}
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ref
	}
	return p.base.ResolveReference(u).String()
}

// installGlobals wires window, document and console into the JS scope.
func (p *Page) installGlobals() error {
	global := p.vm.GlobalObject()
	if err := global.Set("window", global); err != nil {
		return err
	}
	if err := global.Set("self", global); err != nil {
		return err
	}

	document := p.vm.NewObject()
	err := document.DefineAccessorProperty("cookie",
		p.vm.ToValue(func(goja.FunctionCall) goja.Value {
			return p.vm.ToValue(p.cookies.header())
		}),
		p.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			// Browsers ignore malformed assignments silently.
			_ = p.SetCookie(call.Argument(0).String())
			return goja.Undefined()
		}),
		goja.FLAG_TRUE, goja.FLAG_TRUE)
	if err != nil {
		return err
	}
	if p.base != nil {
		if err := document.Set("URL", p.base.String()); err != nil {
			return err
		}
	}
	if err := global.Set("document", document); err != nil {
		return err
	}

	console := p.vm.NewObject()
	for _, level := range ConsoleLevels {
		fn := func(call goja.FunctionCall) goja.Value {
			parts := make([]string, len(call.Arguments))
			for i, arg := range call.Arguments {
				parts[i] = arg.String()
			}
			p.console.Log(level, strings.Join(parts, " "))
			return goja.Undefined()
		}
		if err := console.Set(level, fn); err != nil {
			return err
		}
	}
	return global.Set("console", console)
}
