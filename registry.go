package applogging

// CategoryID identifies a registered category. IDs are assigned in
// registration order and stay valid for the life of the registry.
type CategoryID int

type categoryEntry struct {
	name    string
	enabled bool
}

// CategoryRegistry holds the known categories and their enabled state.
// It does no locking of its own; Facade serializes access.
type CategoryRegistry struct {
	entries []categoryEntry
	index   map[string]CategoryID
}

func NewCategoryRegistry() *CategoryRegistry {
	return &CategoryRegistry{index: make(map[string]CategoryID)}
}

// Register adds name if it is not known yet. New categories start
// enabled; registering an existing name returns its ID and leaves its
// state untouched.
func (r *CategoryRegistry) Register(name string) CategoryID {
	if id, ok := r.index[name]; ok {
		return id
	}
	if r.index == nil {
		r.index = make(map[string]CategoryID)
	}
	id := CategoryID(len(r.entries))
	r.entries = append(r.entries, categoryEntry{name: name, enabled: true})
	r.index[name] = id
	return id
}

func (r *CategoryRegistry) Lookup(name string) (CategoryID, bool) {
	id, ok := r.index[name]
	return id, ok
}

// SetEnabled toggles a category. Unknown names are ignored.
func (r *CategoryRegistry) SetEnabled(name string, enabled bool) {
	if id, ok := r.index[name]; ok {
		r.entries[id].enabled = enabled
	}
}

// IsEnabled reports false for unknown names.
func (r *CategoryRegistry) IsEnabled(name string) bool {
	id, ok := r.index[name]
	if !ok {
		return false
	}
	return r.entries[id].enabled
}

// Names returns every registered name in registration order.
func (r *CategoryRegistry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		names = append(names, e.name)
	}
	return names
}

// EnabledNames returns the enabled names in registration order.
func (r *CategoryRegistry) EnabledNames() []string {
	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		if e.enabled {
			names = append(names, e.name)
		}
	}
	return names
}

func (r *CategoryRegistry) Len() int {
	return len(r.entries)
}
