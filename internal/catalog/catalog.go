package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/roach88/scriptlet/internal/ir"
)

// ErrUnknownTemplate is returned when a name is neither a canonical
// template name nor a declared alias.
var ErrUnknownTemplate = errors.New("unknown template")

// Catalog is a concurrency-safe set of templates indexed by canonical name
// and alias. Templates are read-only once added.
type Catalog struct {
	mu        sync.RWMutex
	templates map[string]*ir.Template
	aliases   map[string]string // alias -> canonical name
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{
		templates: make(map[string]*ir.Template),
		aliases:   make(map[string]string),
	}
}

// Add registers a template. A name or alias already claimed by another
// template is rejected, so resolution stays unambiguous.
func (c *Catalog) Add(t *ir.Template) error {
	if verrs := Validate(t); len(verrs) > 0 {
		return fmt.Errorf("template %q: %w", t.Name, verrs[0])
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkNamesLocked(t, ""); err != nil {
		return err
	}
	c.insertLocked(t)
	return nil
}

// Put registers a template, replacing any template with the same canonical
// name. Aliases of the replaced template are released first.
func (c *Catalog) Put(t *ir.Template) error {
	if verrs := Validate(t); len(verrs) > 0 {
		return fmt.Errorf("template %q: %w", t.Name, verrs[0])
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkNamesLocked(t, t.Name); err != nil {
		return err
	}
	if old, ok := c.templates[t.Name]; ok {
		for _, a := range old.Aliases {
			delete(c.aliases, a)
		}
	}
	c.insertLocked(t)
	return nil
}

// checkNamesLocked rejects t if its name or aliases collide with a
// template other than replacing.
func (c *Catalog) checkNamesLocked(t *ir.Template, replacing string) error {
	if _, ok := c.templates[t.Name]; ok && t.Name != replacing {
		return ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("template %q already registered", t.Name),
			Code:    ErrDuplicateName,
		}
	}
	if owner, ok := c.aliases[t.Name]; ok && owner != replacing {
		return ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("template name %q is already an alias of %q", t.Name, owner),
			Code:    ErrAliasCollision,
		}
	}
	for _, a := range t.Aliases {
		if _, ok := c.templates[a]; ok {
			return ValidationError{
				Field:   "aliases",
				Message: fmt.Sprintf("alias %q is already a template name", a),
				Code:    ErrAliasCollision,
			}
		}
		if owner, ok := c.aliases[a]; ok && owner != replacing {
			return ValidationError{
				Field:   "aliases",
				Message: fmt.Sprintf("alias %q already belongs to %q", a, owner),
				Code:    ErrAliasCollision,
			}
		}
	}
	return nil
}

func (c *Catalog) insertLocked(t *ir.Template) {
	c.templates[t.Name] = t
	for _, a := range t.Aliases {
		c.aliases[a] = t.Name
	}
}

// Resolve maps a filter-rule name to its canonical template name.
// Matching is exact: no case folding, no extension inference.
func (c *Catalog) Resolve(name string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if _, ok := c.templates[name]; ok {
		return name, nil
	}
	if canonical, ok := c.aliases[name]; ok {
		return canonical, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
}

// Lookup resolves name and returns its template.
func (c *Catalog) Lookup(name string) (*ir.Template, error) {
	canonical, err := c.Resolve(name)
	if err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.templates[canonical], nil
}

// List returns all templates sorted by canonical name.
func (c *Catalog) List() []*ir.Template {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*ir.Template, 0, len(c.templates))
	for _, t := range c.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.templates)
}

// Merge copies every template of other into c. Templates of other replace
// same-named templates of c.
func (c *Catalog) Merge(other *Catalog) error {
	for _, t := range other.List() {
		if err := c.Put(t); err != nil {
			return err
		}
	}
	return nil
}
