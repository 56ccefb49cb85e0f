package workspace

import (
	"fmt"
	"strings"
)

// Contribution is a named group of source documents sharing a domain and a
// summary, processed as one unit through the pipeline. Dir is populated by
// the workspace layout when the contribution is registered; the other fields
// are immutable after creation.
type Contribution struct {
	Name    string
	Domain  string // at most three words
	Summary string
	Dir     string
}

// Validate checks the caller-supplied fields.
func (c Contribution) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("contribution name is required")
	}
	if strings.ContainsAny(c.Name, `/\`) {
		return fmt.Errorf("contribution name %q must not contain path separators", c.Name)
	}
	if c.Domain == "" {
		return fmt.Errorf("contribution %s: domain is required", c.Name)
	}
	if len(strings.Fields(c.Domain)) > 3 {
		return fmt.Errorf("contribution %s: domain %q exceeds three words", c.Name, c.Domain)
	}
	if c.Summary == "" {
		return fmt.Errorf("contribution %s: summary is required", c.Name)
	}
	return nil
}

// Registry holds contributions in registration order. Names are unique
// within a workspace.
type Registry struct {
	layout   Layout
	contribs []*Contribution
	byName   map[string]*Contribution
}

// NewRegistry returns an empty registry bound to a layout.
func NewRegistry(layout Layout) *Registry {
	return &Registry{
		layout: layout,
		byName: make(map[string]*Contribution),
	}
}

// Register validates the contribution, ensures its directory tree exists and
// appends it to the registry. Duplicate names are rejected.
func (r *Registry) Register(c Contribution) (*Contribution, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if _, ok := r.byName[c.Name]; ok {
		return nil, fmt.Errorf("contribution %q already registered", c.Name)
	}
	dir, err := r.layout.EnsureContribution(c.Name)
	if err != nil {
		return nil, err
	}
	c.Dir = dir
	contrib := &c
	r.contribs = append(r.contribs, contrib)
	r.byName[c.Name] = contrib
	return contrib, nil
}

// Get returns a contribution by name, or nil.
func (r *Registry) Get(name string) *Contribution {
	return r.byName[name]
}

// All returns contributions in registration order.
func (r *Registry) All() []*Contribution {
	return r.contribs
}

// Layout returns the workspace layout the registry is bound to.
func (r *Registry) Layout() Layout {
	return r.layout
}
