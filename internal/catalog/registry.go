// Package catalog holds the static registry of UI views grouped into
// modules. The registry is built once at startup from a JSON file and is
// immutable afterwards; everything that needs it receives the handle.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// View is one catalog entry. Auth-gated views may restrict access by role.
type View struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Alias       string   `json:"alias"`
	Code        string   `json:"code"`
	Type        string   `json:"type"`
	Module      string   `json:"module"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Auth        bool     `json:"auth"`
	Required    []string `json:"required_roles,omitempty"`
	Forbidden   []string `json:"forbidden_roles,omitempty"`
}

// Module groups views and carries display metadata.
type Module struct {
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Version     string   `json:"version"`
	Icon        string   `json:"icon"`
	Color       string   `json:"color"`
	Category    string   `json:"category"`
	Routes      []string `json:"routes"`
	Views       []View   `json:"views"`
}

// ModuleSummary is the listing shape for a module.
type ModuleSummary struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Version     string `json:"version"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Category    string `json:"category"`
	ViewCount   int    `json:"view_count"`
	RouteCount  int    `json:"route_count"`
}

type catalogFile struct {
	Modules []Module `json:"modules"`
}

// Registry is the immutable view/module lookup. Safe for concurrent use
// because nothing mutates it after construction.
type Registry struct {
	modules map[string]*Module
	byID    map[string]*View
	byAlias map[string]*View
	order   []string
}

// LoadFromFile reads and indexes the catalog JSON.
func LoadFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	return New(file.Modules)
}

// New builds a registry from in-memory modules, rejecting duplicate view
// IDs or aliases across modules.
func New(modules []Module) (*Registry, error) {
	r := &Registry{
		modules: make(map[string]*Module),
		byID:    make(map[string]*View),
		byAlias: make(map[string]*View),
	}

	for i := range modules {
		m := &modules[i]
		if _, exists := r.modules[m.Name]; exists {
			return nil, fmt.Errorf("duplicate module %q", m.Name)
		}
		r.modules[m.Name] = m
		r.order = append(r.order, m.Name)

		for j := range m.Views {
			v := &m.Views[j]
			if v.Module == "" {
				v.Module = m.Name
			}
			if _, exists := r.byID[v.ID]; exists {
				return nil, fmt.Errorf("duplicate view id %q", v.ID)
			}
			r.byID[v.ID] = v
			if v.Alias != "" {
				if _, exists := r.byAlias[v.Alias]; exists {
					return nil, fmt.Errorf("duplicate view alias %q", v.Alias)
				}
				r.byAlias[v.Alias] = v
			}
		}
	}

	return r, nil
}

// View looks up a view by ID across all modules.
func (r *Registry) View(id string) *View {
	return r.byID[id]
}

// ViewByAlias looks up a view by its alias across all modules.
func (r *Registry) ViewByAlias(alias string) *View {
	return r.byAlias[alias]
}

// ViewFilter narrows Views listings. Empty fields match everything.
type ViewFilter struct {
	Module   string
	Category string
	Type     string
}

// Views lists all views matching the filter, in module declaration order.
func (r *Registry) Views(filter ViewFilter) []View {
	var out []View
	for _, name := range r.order {
		for _, v := range r.modules[name].Views {
			if filter.Module != "" && v.Module != filter.Module {
				continue
			}
			if filter.Category != "" && v.Category != filter.Category {
				continue
			}
			if filter.Type != "" && v.Type != filter.Type {
				continue
			}
			out = append(out, v)
		}
	}
	return out
}

// Module looks up a module by name.
func (r *Registry) Module(name string) *Module {
	return r.modules[name]
}

// ModuleNames lists module names in declaration order.
func (r *Registry) ModuleNames() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Modules lists summaries for every module.
func (r *Registry) Modules() []ModuleSummary {
	out := make([]ModuleSummary, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.modules[name].Summary())
	}
	return out
}

// Summary returns the module's listing metadata.
func (m *Module) Summary() ModuleSummary {
	return ModuleSummary{
		Name:        m.Name,
		Title:       m.Title,
		Description: m.Description,
		Version:     m.Version,
		Icon:        m.Icon,
		Color:       m.Color,
		Category:    m.Category,
		ViewCount:   len(m.Views),
		RouteCount:  len(m.Routes),
	}
}

// AccessibleBy reports whether a user with the given role may open the
// view. Views without auth requirements are open to everyone.
func (v *View) AccessibleBy(role string) bool {
	if !v.Auth {
		return true
	}
	for _, forbidden := range v.Forbidden {
		if forbidden == role {
			return false
		}
	}
	if len(v.Required) == 0 {
		return true
	}
	for _, required := range v.Required {
		if required == role {
			return true
		}
	}
	return false
}
