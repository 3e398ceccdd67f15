package scriptlet

import (
	"sort"
	"sync"

	"github.com/roach88/scriptlet/internal/host"
	"github.com/roach88/scriptlet/internal/ir"
)

// Behavior executes one bound template against a page.
type Behavior func(p *host.Page, b ir.Bound) (ir.Result, error)

// Canonical names of the built-in templates.
const (
	AbortOnPropertyRead = "abort-on-property-read.js"
	HideIfContainsImage = "hide-if-contains-image.js"
	RemoveAttr          = "remove-attr.js"
	SetCookie           = "set-cookie.js"
	JSONPrune           = "json-prune.js"
	Log                 = "log.js"
	Noop                = "noop.js"
)

// Registry maps canonical template names to behaviors.
type Registry struct {
	mu        sync.RWMutex
	behaviors map[string]Behavior
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		behaviors: make(map[string]Behavior),
	}
}

// Builtin returns a registry holding every built-in behavior.
func Builtin() *Registry {
	r := NewRegistry()
	r.Register(AbortOnPropertyRead, abortOnPropertyRead)
	r.Register(HideIfContainsImage, hideIfContainsImage)
	r.Register(RemoveAttr, removeAttr)
	r.Register(SetCookie, setCookie)
	r.Register(JSONPrune, jsonPrune)
	r.Register(Log, logMessage)
	r.Register(Noop, noop)
	return r
}

// Register adds a behavior to the registry.
// If a behavior with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn Behavior) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.behaviors[name] = fn
}

// Lookup returns the behavior registered under a canonical name.
func (r *Registry) Lookup(name string) (Behavior, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.behaviors[name]
	return fn, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.behaviors))
	for name := range r.behaviors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func noop(*host.Page, ir.Bound) (ir.Result, error) {
	return ir.NoResult, nil
}
