// Package tools holds the actions the assistant can take on the host machine.
package tools

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
)

type Args map[string]any

// String returns the named argument as text, or "" when it is missing.
func (a Args) String(name string) string {
	v, ok := a[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Result is what a tool hands back. ImagePath is set by tools that produce a
// picture for the vision model to describe.
type Result struct {
	Text      string
	ImagePath string
}

type Tool struct {
	Name        string
	Description string
	Params      []string
	Run         func(ctx context.Context, args Args) (Result, error)
}

type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

func (r *Registry) Register(t Tool) error {
	if t.Name == "" {
		return fmt.Errorf("tool without a name")
	}
	if t.Run == nil {
		return fmt.Errorf("tool %q has no Run func", t.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tools[t.Name]; ok {
		return fmt.Errorf("tool %q already registered", t.Name)
	}
	r.tools[t.Name] = t
	return nil
}

func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Names is sorted so prompts built from it are stable.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for n := range r.tools {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Takes reports whether the tool declares the given parameter.
func (t Tool) Takes(param string) bool {
	return slices.Contains(t.Params, param)
}
