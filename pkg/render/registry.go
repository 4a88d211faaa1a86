package render

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry maps format names and their aliases to document renderers. Names
// are matched case-insensitively.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
	aliases   map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[string]Renderer),
		aliases:   make(map[string]string),
	}
}

// NewDefaultRegistry returns a registry holding the JSON and YAML renderers,
// with "yml" accepted for YAML.
func NewDefaultRegistry() *Registry {
	reg := NewRegistry()
	reg.MustRegister(JSON())
	reg.MustRegister(YAML())
	if err := reg.Alias("yml", FormatYAML); err != nil {
		panic(err)
	}
	return reg
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds a renderer under its Name.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return fmt.Errorf("render: renderer is required")
	}
	name := normalize(renderer.Name())
	if name == "" {
		return fmt.Errorf("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.renderers[name]; taken {
		return fmt.Errorf("render: format %q already registered", name)
	}
	if _, taken := r.aliases[name]; taken {
		return fmt.Errorf("render: format %q is already an alias", name)
	}
	r.renderers[name] = renderer
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Alias makes alias resolve to the registered format target.
func (r *Registry) Alias(alias, target string) error {
	alias, target = normalize(alias), normalize(target)
	if alias == "" {
		return fmt.Errorf("render: alias is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.renderers[target]; !ok {
		return fmt.Errorf("render: alias %q targets unknown format %q", alias, target)
	}
	if _, taken := r.renderers[alias]; taken {
		return fmt.Errorf("render: alias %q shadows a registered format", alias)
	}
	r.aliases[alias] = target
	return nil
}

// Get resolves a format name or alias.
func (r *Registry) Get(name string) (Renderer, error) {
	key := normalize(name)

	r.mu.RLock()
	defer r.mu.RUnlock()
	if target, ok := r.aliases[key]; ok {
		key = target
	}
	renderer, ok := r.renderers[key]
	if !ok {
		return nil, fmt.Errorf("render: format %q not registered (have %s)", name, strings.Join(r.names(), ", "))
	}
	return renderer, nil
}

// Has reports whether name resolves to a renderer.
func (r *Registry) Has(name string) bool {
	_, err := r.Get(name)
	return err == nil
}

// List returns the sorted format names, aliases excluded.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.names()
}

func (r *Registry) names() []string {
	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
