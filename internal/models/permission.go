package models

// Permission scope kinds. A scope either grants everything or an explicit
// item list; no other shape is legal.
const (
	ScopeAll      = "all"
	ScopeSpecific = "specific"
)

// PermissionScope is the two-variant permission descriptor attached to a
// user for modules and for views. Items is only meaningful for the
// "specific" variant and must be present (possibly empty) there.
type PermissionScope struct {
	Type  string   `json:"type"`
	Items []string `json:"items,omitempty"`
}

// AllScope grants access to everything.
func AllScope() PermissionScope {
	return PermissionScope{Type: ScopeAll}
}

// SpecificScope grants access to exactly the named items.
func SpecificScope(items []string) PermissionScope {
	if items == nil {
		items = []string{}
	}
	return PermissionScope{Type: ScopeSpecific, Items: items}
}

// Valid reports whether the scope has one of the two legal shapes.
func (p PermissionScope) Valid() bool {
	switch p.Type {
	case ScopeAll:
		return true
	case ScopeSpecific:
		return p.Items != nil
	default:
		return false
	}
}

// Allows reports whether the scope grants the named item.
func (p PermissionScope) Allows(item string) bool {
	if p.Type == ScopeAll {
		return true
	}
	for _, it := range p.Items {
		if it == item {
			return true
		}
	}
	return false
}
