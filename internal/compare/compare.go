package compare

import (
	"strings"

	"github.com/petr-muller/jira-notion-sync/internal/model"
)

// CompareProperties compares the freshly mapped properties of an issue with the
// last known properties of its destination page. Only fields present in current
// are compared: an omitted field never clears existing destination state.
func CompareProperties(previous, current model.PropertyBag) []model.FieldChange {
	var changes []model.FieldChange

	for _, prop := range current {
		before, exists := previous.Get(prop.Name)
		if exists && sameProperty(before, prop) {
			continue
		}

		changes = append(changes, model.FieldChange{
			Field:  prop.Name,
			Before: before.Value,
			After:  prop.Value,
		})
	}

	return changes
}

// Changed returns the subset of current that differs from previous, ready to be patched
func Changed(previous, current model.PropertyBag) model.PropertyBag {
	var changed model.PropertyBag
	for _, change := range CompareProperties(previous, current) {
		if prop, ok := current.Get(change.Field); ok {
			changed = append(changed, prop)
		}
	}
	return changed
}

// sameProperty compares values only; links and kinds are derived from the mapping.
// Values read back from Notion are trimmed, so surrounding whitespace is not a change.
func sameProperty(a, b model.Property) bool {
	return strings.TrimSpace(a.Value) == strings.TrimSpace(b.Value)
}
