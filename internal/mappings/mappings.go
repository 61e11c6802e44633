package mappings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/petr-muller/jira-notion-sync/internal/config"
	"github.com/petr-muller/jira-notion-sync/internal/model"
)

const (
	mappingsFileName = "mappings.yaml"

	// KeyField is a pseudo source field resolving to the issue key
	KeyField = "key"
	// TicketIDField is the destination field joining Notion pages to Jira issues
	TicketIDField = "Ticket ID"
	// StatusField is the destination status field set on created pages
	StatusField = "Status"
	// DefaultStatus is the initial status of created pages
	DefaultStatus = "Not started"
)

// baseFields are always requested from Jira, on top of the mapped ones
var baseFields = []string{"summary", "status", "assignee", "duedate"}

// Field maps one destination field to a Jira field
type Field struct {
	Destination string     `yaml:"destination"`
	Source      string     `yaml:"source"`
	Kind        model.Kind `yaml:"kind"`
}

// Mappings holds the field mapping table and the role to Jira field table
type Mappings struct {
	// Fields is the ordered destination field mapping table
	Fields []Field `yaml:"fields"`
	// Roles maps a role name to the JQL identity field it filters on
	Roles map[string]string `yaml:"roles"`
}

// NewMappings returns the built-in mapping table
func NewMappings() *Mappings {
	fields := make([]Field, len(defaultFields))
	copy(fields, defaultFields)

	roles := make(map[string]string, len(defaultRoles))
	for role, field := range defaultRoles {
		roles[role] = field
	}

	return &Mappings{Fields: fields, Roles: roles}
}

// DefaultPath returns the location of the user mappings file
func DefaultPath() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, mappingsFileName), nil
}

// LoadMappings loads mappings from path. An empty path means the default
// location, where a missing file or an unknown config directory yields the
// built-in table. Sections missing from the file keep their built-in values.
func LoadMappings(path string) (*Mappings, error) {
	explicit := path != ""
	if !explicit {
		defaultPath, err := DefaultPath()
		if err != nil {
			return NewMappings(), nil
		}
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return NewMappings(), nil
		}
		return nil, fmt.Errorf("failed to read mappings file: %w", err)
	}

	var loaded Mappings
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse mappings file: %w", err)
	}

	m := NewMappings()
	if len(loaded.Fields) > 0 {
		m.Fields = loaded.Fields
	}
	if len(loaded.Roles) > 0 {
		m.Roles = loaded.Roles
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mappings file %s: %w", path, err)
	}

	return m, nil
}

// Validate checks that every destination field appears once, carries a known
// kind and that the Ticket ID is mapped from the issue key
func (m *Mappings) Validate() error {
	seen := sets.New[string]()
	for _, f := range m.Fields {
		if f.Destination == "" || f.Source == "" {
			return fmt.Errorf("field mapping %+v must have both destination and source", f)
		}
		if seen.Has(f.Destination) {
			return fmt.Errorf("destination field %q is mapped more than once", f.Destination)
		}
		seen.Insert(f.Destination)
		if !f.Kind.Valid() {
			return fmt.Errorf("destination field %q has unknown kind %q", f.Destination, f.Kind)
		}
	}

	ticket, ok := m.Field(TicketIDField)
	if !ok || ticket.Source != KeyField || ticket.Kind != model.KindText {
		return fmt.Errorf("%q must be mapped from %q as text", TicketIDField, KeyField)
	}

	return nil
}

// Field returns the mapping of a destination field
func (m *Mappings) Field(destination string) (Field, bool) {
	for _, f := range m.Fields {
		if f.Destination == destination {
			return f, true
		}
	}
	return Field{}, false
}

// SourceFields returns the Jira fields to request, without duplicates, in a stable order
func (m *Mappings) SourceFields() []string {
	seen := sets.New[string]()
	var fields []string
	add := func(name string) {
		if name == KeyField || seen.Has(name) {
			return
		}
		seen.Insert(name)
		fields = append(fields, name)
	}

	for _, name := range baseFields {
		add(name)
	}
	for _, f := range m.Fields {
		add(f.Source)
	}

	return fields
}

// GetFieldForRole returns the JQL identity field for a role, empty string if not found
func (m *Mappings) GetFieldForRole(role string) string {
	return m.Roles[strings.ToLower(strings.TrimSpace(role))]
}

// KnownRoles returns the sorted role names
func (m *Mappings) KnownRoles() []string {
	return sets.List(sets.KeySet(m.Roles))
}
