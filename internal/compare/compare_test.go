package compare

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/petr-muller/jira-notion-sync/internal/model"
)

func TestCompareProperties(t *testing.T) {
	tests := []struct {
		name     string
		previous model.PropertyBag
		current  model.PropertyBag
		expected []model.FieldChange
	}{
		{
			name: "no changes",
			previous: model.PropertyBag{
				{Name: "Name", Kind: model.KindTitle, Value: "Banner"},
				{Name: "Designer", Kind: model.KindChoice, Value: "Jane Doe"},
			},
			current: model.PropertyBag{
				{Name: "Name", Kind: model.KindTitle, Value: "Banner"},
				{Name: "Designer", Kind: model.KindChoice, Value: "Jane Doe"},
			},
		},
		{
			name: "changed value",
			previous: model.PropertyBag{
				{Name: "Name", Kind: model.KindTitle, Value: "Banner"},
				{Name: "Due date", Kind: model.KindDate, Value: "2024-03-15"},
			},
			current: model.PropertyBag{
				{Name: "Name", Kind: model.KindTitle, Value: "Banner"},
				{Name: "Due date", Kind: model.KindDate, Value: "2024-03-20"},
			},
			expected: []model.FieldChange{
				{Field: "Due date", Before: "2024-03-15", After: "2024-03-20"},
			},
		},
		{
			name:     "field missing from destination",
			previous: model.PropertyBag{{Name: "Name", Kind: model.KindTitle, Value: "Banner"}},
			current: model.PropertyBag{
				{Name: "Name", Kind: model.KindTitle, Value: "Banner"},
				{Name: "Copywriter", Kind: model.KindChoice, Value: "John Roe"},
			},
			expected: []model.FieldChange{
				{Field: "Copywriter", Before: "", After: "John Roe"},
			},
		},
		{
			name: "field omitted from current is not cleared",
			previous: model.PropertyBag{
				{Name: "Name", Kind: model.KindTitle, Value: "Banner"},
				{Name: "Designer", Kind: model.KindChoice, Value: "Jane Doe"},
				{Name: "Status", Kind: model.KindStatus, Value: "In progress"},
			},
			current: model.PropertyBag{{Name: "Name", Kind: model.KindTitle, Value: "Banner"}},
		},
		{
			name:     "surrounding whitespace is not a change",
			previous: model.PropertyBag{{Name: "Name", Kind: model.KindTitle, Value: "Banner"}},
			current:  model.PropertyBag{{Name: "Name", Kind: model.KindTitle, Value: "Banner  "}},
		},
		{
			name: "links are not compared",
			previous: model.PropertyBag{
				{Name: "Ticket ID", Kind: model.KindText, Value: "CFM-1", Link: "https://old.example.com/browse/CFM-1"},
			},
			current: model.PropertyBag{
				{Name: "Ticket ID", Kind: model.KindText, Value: "CFM-1", Link: "https://jira.example.com/browse/CFM-1"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			changes := CompareProperties(tc.previous, tc.current)
			if diff := cmp.Diff(tc.expected, changes); diff != "" {
				t.Errorf("changes differ from expected:\n%s", diff)
			}
		})
	}
}

func TestChanged(t *testing.T) {
	previous := model.PropertyBag{
		{Name: "Name", Kind: model.KindTitle, Value: "Banner"},
		{Name: "Designer", Kind: model.KindChoice, Value: "Jane Doe"},
	}
	current := model.PropertyBag{
		{Name: "Name", Kind: model.KindTitle, Value: "Banner v2"},
		{Name: "Ticket ID", Kind: model.KindText, Value: "CFM-1"},
		{Name: "Designer", Kind: model.KindChoice, Value: "Jane Doe"},
	}

	expected := model.PropertyBag{
		{Name: "Name", Kind: model.KindTitle, Value: "Banner v2"},
		{Name: "Ticket ID", Kind: model.KindText, Value: "CFM-1"},
	}
	if diff := cmp.Diff(expected, Changed(previous, current)); diff != "" {
		t.Errorf("patch differs from expected:\n%s", diff)
	}
}
