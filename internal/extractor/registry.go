package extractor

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry is the explicit source-ID -> extractor table. Sources register
// once at startup; there is no reflective discovery.
type Registry struct {
	mu   sync.RWMutex
	byID map[string]Extractor
}

func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Extractor)}
}

func (r *Registry) Register(e Extractor) error {
	if r == nil {
		return fmt.Errorf("registry is nil")
	}
	if e == nil {
		return fmt.Errorf("extractor is nil")
	}

	src := e.Source()
	id := strings.TrimSpace(src.ID)
	if id == "" {
		return fmt.Errorf("extractor source ID is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[id]; exists {
		return fmt.Errorf("extractor %q is already registered", id)
	}
	r.byID[id] = e
	return nil
}

// ForCity returns the extractors registered for a city, ordered by source
// ID so runs process sources in a stable order.
func (r *Registry) ForCity(city string) []Extractor {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]Extractor, 0, len(r.byID))
	for _, e := range r.byID {
		if strings.EqualFold(e.Source().City, strings.TrimSpace(city)) {
			matched = append(matched, e)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Source().ID < matched[j].Source().ID
	})
	return matched
}

func (r *Registry) Get(id string) (Extractor, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[strings.TrimSpace(id)]
	return e, ok
}

// Sources lists every registered source, ordered by ID.
func (r *Registry) Sources() []Source {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	sources := make([]Source, 0, len(r.byID))
	for _, e := range r.byID {
		sources = append(sources, e.Source())
	}
	sort.Slice(sources, func(i, j int) bool {
		return sources[i].ID < sources[j].ID
	})
	return sources
}
