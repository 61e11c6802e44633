package model

// FieldChange represents a change in a destination field
type FieldChange struct {
	Field  string `yaml:"field"`
	Before string `yaml:"before"`
	After  string `yaml:"after"`
}

// Change is the outcome of upserting a single issue
type Change struct {
	Created bool          `yaml:"created,omitempty"`
	Updated bool          `yaml:"updated,omitempty"`
	Summary string        `yaml:"summary,omitempty"`
	Fields  []FieldChange `yaml:"fields,omitempty"`
}

// Report aggregates the changes of a single pass
type Report struct {
	Created  map[string]Change `yaml:"created"`
	Updated  map[string]Change `yaml:"updated"`
	Archived []string          `yaml:"archived"`

	order []string
}

// NewReport returns an empty report
func NewReport() *Report {
	return &Report{
		Created: map[string]Change{},
		Updated: map[string]Change{},
	}
}

// Add classifies a change as created or updated. Changes that are neither are ignored.
func (r *Report) Add(key string, change Change) {
	switch {
	case change.Created:
		r.Created[key] = change
	case change.Updated:
		r.Updated[key] = change
	default:
		return
	}
	r.order = append(r.order, key)
}

// CreatedKeys returns the keys of created records in processing order
func (r *Report) CreatedKeys() []string {
	return r.keys(r.Created)
}

// UpdatedKeys returns the keys of updated records in processing order
func (r *Report) UpdatedKeys() []string {
	return r.keys(r.Updated)
}

func (r *Report) keys(m map[string]Change) []string {
	var keys []string
	for _, key := range r.order {
		if _, ok := m[key]; ok {
			keys = append(keys, key)
		}
	}
	return keys
}

// HasChanges returns true if anything was created or updated
func (r *Report) HasChanges() bool {
	return len(r.Created) > 0 || len(r.Updated) > 0
}
