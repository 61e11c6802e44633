// Package fieldmap turns raw Jira field values into destination properties.
// Everything here is pure: making sure choice options exist in the destination
// schema is left to the caller.
package fieldmap

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/petr-muller/jira-notion-sync/internal/mappings"
	"github.com/petr-muller/jira-notion-sync/internal/model"
)

// datePrefixLen is the length of the YYYY-MM-DD part of a Jira date or datetime
const datePrefixLen = 10

// Extract returns the string value of a raw field. The boolean is false when
// the value is absent and the property must be omitted.
func Extract(raw model.RawValue, kind model.Kind) (string, bool, error) {
	switch raw.Kind {
	case model.RawAbsent:
		return "", false, nil
	case model.RawText:
		return raw.Text, raw.Text != "", nil
	case model.RawPerson, model.RawPersonList:
		if len(raw.People) == 0 || raw.People[0] == "" {
			return "", false, nil
		}
		return raw.People[0], true, nil
	case model.RawOther:
		if kind == model.KindDate && raw.Raw != "" {
			return raw.Raw, true, nil
		}
		return "", false, nil
	}
	return "", false, fmt.Errorf("unsupported raw value kind %d", raw.Kind)
}

// Format formats a value as a destination property of the given kind. A date
// that is not a valid calendar day is omitted.
func Format(name, value string, kind model.Kind) (model.Property, bool) {
	if value == "" {
		return model.Property{}, false
	}

	switch kind {
	case model.KindTitle, model.KindText, model.KindStatus:
		return model.Property{Name: name, Kind: kind, Value: value}, true
	case model.KindChoice:
		value = strings.TrimSpace(value)
		if value == "" {
			return model.Property{}, false
		}
		return model.Property{Name: name, Kind: kind, Value: value}, true
	case model.KindDate:
		if len(value) > datePrefixLen {
			value = value[:datePrefixLen]
		}
		if _, err := time.Parse(model.DateLayout, value); err != nil {
			return model.Property{}, false
		}
		return model.Property{Name: name, Kind: kind, Value: value}, true
	}

	return model.Property{}, false
}

// Mapper builds destination property bags from issues
type Mapper struct {
	mappings  *mappings.Mappings
	browseURL func(key string) string
}

// NewMapper creates a mapper for the given table. browseURL produces the link
// attached to the Ticket ID property.
func NewMapper(m *mappings.Mappings, browseURL func(key string) string) *Mapper {
	return &Mapper{mappings: m, browseURL: browseURL}
}

// Build returns the property bag of an issue in mapping table order
func (m *Mapper) Build(issue model.Issue) (model.PropertyBag, error) {
	var bag model.PropertyBag

	for _, field := range m.mappings.Fields {
		if field.Source == mappings.KeyField {
			prop, ok := Format(field.Destination, issue.Key, field.Kind)
			if !ok {
				continue
			}
			if m.browseURL != nil {
				prop.Link = m.browseURL(issue.Key)
			}
			bag = append(bag, prop)
			continue
		}

		raw := issue.Field(field.Source)
		value, ok, err := Extract(raw, field.Kind)
		if err != nil {
			return nil, fmt.Errorf("cannot extract %s of %s: %w", field.Source, issue.Key, err)
		}
		if !ok {
			if raw.Kind == model.RawOther {
				logrus.WithFields(logrus.Fields{"key": issue.Key, "field": field.Source, "value": raw.Raw}).
					Warnf("Unsupported value shape for %s field %q, omitting", field.Kind, field.Destination)
			}
			continue
		}

		prop, ok := Format(field.Destination, value, field.Kind)
		if !ok {
			if field.Kind == model.KindDate {
				logrus.WithFields(logrus.Fields{"key": issue.Key, "field": field.Source, "value": value}).
					Warnf("Invalid date for field %q, omitting", field.Destination)
			}
			continue
		}
		bag = append(bag, prop)
	}

	return bag, nil
}

// Summary returns the issue summary, used in notifications
func Summary(issue model.Issue) string {
	value, _, _ := Extract(issue.Field("summary"), model.KindText)
	return value
}
