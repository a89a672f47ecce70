package transform

import (
	"path/filepath"
	"slices"
	"sync"
)

// IgnoreModules maps descriptor paths to module names that must be removed
// from their module list.
type IgnoreModules struct {
	mu      sync.RWMutex
	modules map[string][]string
}

// NewIgnoreModules returns an empty registry.
func NewIgnoreModules() *IgnoreModules {
	return &IgnoreModules{modules: make(map[string][]string)}
}

// Add registers module as ignored for the descriptor at path.
func (m *IgnoreModules) Add(path string, modules ...string) {
	key := filepath.Clean(path)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mod := range modules {
		if mod != "" && !slices.Contains(m.modules[key], mod) {
			m.modules[key] = append(m.modules[key], mod)
		}
	}
}

// Modules returns the ignored modules for path in registration order.
func (m *IgnoreModules) Modules(path string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.modules[filepath.Clean(path)])
}

// Contains reports whether module is ignored for path.
func (m *IgnoreModules) Contains(path, module string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Contains(m.modules[filepath.Clean(path)], module)
}

// filter returns modules without the ones ignored for path.
func (m *IgnoreModules) filter(path string, modules []string) []string {
	ignored := m.Modules(path)
	if len(ignored) == 0 {
		return modules
	}
	out := make([]string, 0, len(modules))
	for _, mod := range modules {
		if !slices.Contains(ignored, mod) {
			out = append(out, mod)
		}
	}
	return out
}
