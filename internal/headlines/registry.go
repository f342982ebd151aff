package headlines

import (
	"fmt"
	"sort"
	"strings"

	"NewsAgent/internal/ports"
)

// Registry keeps a mapping from provider names to headline sources.
type Registry struct {
	sources map[string]ports.HeadlineSource
}

// NewRegistry builds a registry holding the given sources.
func NewRegistry(sources ...ports.HeadlineSource) *Registry {
	r := &Registry{sources: map[string]ports.HeadlineSource{}}
	for _, src := range sources {
		r.Register(src)
	}
	return r
}

// Register adds or replaces a source implementation.
func (r *Registry) Register(source ports.HeadlineSource) {
	if source == nil {
		return
	}
	if r.sources == nil {
		r.sources = map[string]ports.HeadlineSource{}
	}
	r.sources[strings.ToLower(source.Name())] = source
}

// Resolve returns a source by name or an error if it is absent.
func (r *Registry) Resolve(name string) (ports.HeadlineSource, error) {
	if source, ok := r.sources[strings.ToLower(strings.TrimSpace(name))]; ok {
		return source, nil
	}
	return nil, fmt.Errorf("headline provider %s is not registered (known: %s)", name, strings.Join(r.Names(), ", "))
}

// Names lists registered providers in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
