package tools

import (
	"fmt"
	"sync"
)

// Registry holds the enabled tools keyed by id. It is assembled once at
// startup and treated as read-only for the rest of the process, which is what
// lets concurrent investigations share it without coordination.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: map[string]Tool{}}
}

func (r *Registry) Register(t Tool) error {
	d := t.Describe()
	if d.ID == "" {
		return fmt.Errorf("tool descriptor has no id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[d.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, d.ID)
	}
	r.tools[d.ID] = t
	r.order = append(r.order, d.ID)
	return nil
}

func (r *Registry) Get(id string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, id)
	}
	return t, nil
}

// ListEnabled returns every registered descriptor in registration order,
// the planner's menu of available actions.
func (r *Registry) ListEnabled() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.tools[id].Describe())
	}
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}
