package operations

import (
	"fmt"
)

// Registry holds the steps of one pipeline in execution order
type Registry struct {
	steps []Step
	index map[string]int
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register appends a Step. IDs must be unique.
func (r *Registry) Register(step Step) error {
	if step == nil {
		return fmt.Errorf("cannot register nil step")
	}
	id := step.ID()
	if id == "" {
		return fmt.Errorf("step ID cannot be empty")
	}
	if _, exists := r.index[id]; exists {
		return fmt.Errorf("step %s already registered", id)
	}
	r.index[id] = len(r.steps)
	r.steps = append(r.steps, step)
	return nil
}

// Get returns a Step by ID
func (r *Registry) Get(id string) (Step, error) {
	i, ok := r.index[id]
	if !ok {
		return nil, fmt.Errorf("step %s not found", id)
	}
	return r.steps[i], nil
}

// List returns the steps in registration order
func (r *Registry) List() []Step {
	return append([]Step(nil), r.steps...)
}

// ListIDs returns the step IDs in registration order
func (r *Registry) ListIDs() []string {
	ids := make([]string, len(r.steps))
	for i, s := range r.steps {
		ids[i] = s.ID()
	}
	return ids
}

// Count returns the number of registered steps
func (r *Registry) Count() int {
	return len(r.steps)
}
