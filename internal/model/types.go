package model

import (
	"k8s.io/apimachinery/pkg/util/sets"
)

// Kind is the destination property type a mapped field is written as
type Kind string

const (
	KindTitle  Kind = "title"
	KindChoice Kind = "choice"
	KindDate   Kind = "date"
	KindText   Kind = "text"

	// KindStatus is only written once, as the initial status of a created page
	KindStatus Kind = "status"
)

// DateLayout is the only date form written to the destination
const DateLayout = "2006-01-02"

// Valid reports whether k can appear in a field mapping table
func (k Kind) Valid() bool {
	switch k {
	case KindTitle, KindChoice, KindDate, KindText:
		return true
	}
	return false
}

// RawKind tags the shape of a raw Jira field value
type RawKind int

const (
	RawAbsent RawKind = iota
	RawText
	RawPerson
	RawPersonList
	RawOther
)

func (k RawKind) String() string {
	switch k {
	case RawAbsent:
		return "absent"
	case RawText:
		return "text"
	case RawPerson:
		return "person"
	case RawPersonList:
		return "person-list"
	case RawOther:
		return "other"
	}
	return "unknown"
}

// RawValue is a Jira field value as returned by the search API
type RawValue struct {
	Kind RawKind
	// Text is set for RawText
	Text string
	// People holds display names for RawPerson (exactly one) and RawPersonList
	People []string
	// Raw is the undecoded JSON text for RawOther
	Raw string
}

func Absent() RawValue { return RawValue{Kind: RawAbsent} }
func Text(s string) RawValue { return RawValue{Kind: RawText, Text: s} }
func Person(name string) RawValue { return RawValue{Kind: RawPerson, People: []string{name}} }
func PersonList(names ...string) RawValue { return RawValue{Kind: RawPersonList, People: names} }
func Other(raw string) RawValue { return RawValue{Kind: RawOther, Raw: raw} }

// Issue is a single Jira issue with the fields requested from the server
type Issue struct {
	Key    string
	Fields map[string]RawValue
}

// Field returns the raw value of a field, or an absent value
func (i Issue) Field(name string) RawValue {
	if v, ok := i.Fields[name]; ok {
		return v
	}
	return Absent()
}

// Property is a single formatted destination property
type Property struct {
	Name  string `yaml:"name"`
	Kind  Kind   `yaml:"kind"`
	Value string `yaml:"value"`
	Link  string `yaml:"link,omitempty"`
}

// PropertyBag holds at most one property per destination field, in mapping order
type PropertyBag []Property

// Get returns the property with the given destination field name
func (b PropertyBag) Get(name string) (Property, bool) {
	for _, p := range b {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// Set replaces the property with the same name or appends it
func (b PropertyBag) Set(p Property) PropertyBag {
	for i := range b {
		if b[i].Name == p.Name {
			b[i] = p
			return b
		}
	}
	return append(b, p)
}

// Existing is a snapshot of the destination database taken at the start of a pass
type Existing struct {
	Keys       sets.Set[string]
	IDs        map[string]string
	Properties map[string]PropertyBag
	// Duplicates are page IDs of additional pages carrying an already-seen Ticket ID
	Duplicates []string
}

// NewExisting returns an empty snapshot
func NewExisting() *Existing {
	return &Existing{
		Keys:       sets.New[string](),
		IDs:        map[string]string{},
		Properties: map[string]PropertyBag{},
	}
}

// Add records a destination page. It returns false when the key was already
// known, in which case the page is recorded as a duplicate.
func (e *Existing) Add(key, pageID string, props PropertyBag) bool {
	if e.Keys.Has(key) {
		e.Duplicates = append(e.Duplicates, pageID)
		return false
	}
	e.Keys.Insert(key)
	e.IDs[key] = pageID
	e.Properties[key] = props
	return true
}
