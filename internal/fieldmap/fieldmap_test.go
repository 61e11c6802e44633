package fieldmap

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/petr-muller/jira-notion-sync/internal/mappings"
	"github.com/petr-muller/jira-notion-sync/internal/model"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name      string
		raw       model.RawValue
		kind      model.Kind
		expected  string
		expectOK  bool
		expectErr bool
	}{
		{name: "absent", raw: model.Absent(), kind: model.KindText},
		{name: "empty text is absent", raw: model.Text(""), kind: model.KindText},
		{name: "text", raw: model.Text("Banner"), kind: model.KindTitle, expected: "Banner", expectOK: true},
		{name: "person", raw: model.Person("Jane Doe"), kind: model.KindChoice, expected: "Jane Doe", expectOK: true},
		{name: "person list yields the first person", raw: model.PersonList("Jane Doe", "John Roe"), kind: model.KindChoice, expected: "Jane Doe", expectOK: true},
		{name: "empty person list", raw: model.PersonList(), kind: model.KindChoice},
		{name: "other value for a date", raw: model.Other("20240315"), kind: model.KindDate, expected: "20240315", expectOK: true},
		{name: "other value for a choice", raw: model.Other(`{"value":"L"}`), kind: model.KindChoice},
		{name: "unknown tag", raw: model.RawValue{Kind: model.RawKind(42)}, kind: model.KindText, expectErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			value, ok, err := Extract(tc.raw, tc.kind)
			if tc.expectErr {
				if err == nil {
					t.Fatalf("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tc.expectOK {
				t.Errorf("expected ok=%v, got %v", tc.expectOK, ok)
			}
			if value != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, value)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		kind     model.Kind
		expected model.Property
		expectOK bool
	}{
		{name: "empty value is omitted", value: "", kind: model.KindTitle},
		{name: "title", value: "Banner", kind: model.KindTitle, expected: model.Property{Name: "F", Kind: model.KindTitle, Value: "Banner"}, expectOK: true},
		{name: "text keeps whitespace", value: " CFM-1 ", kind: model.KindText, expected: model.Property{Name: "F", Kind: model.KindText, Value: " CFM-1 "}, expectOK: true},
		{name: "choice is trimmed", value: "  Jane Doe ", kind: model.KindChoice, expected: model.Property{Name: "F", Kind: model.KindChoice, Value: "Jane Doe"}, expectOK: true},
		{name: "blank choice is omitted", value: "   ", kind: model.KindChoice},
		{name: "datetime is cut to the date", value: "2024-03-15T10:00:00Z", kind: model.KindDate, expected: model.Property{Name: "F", Kind: model.KindDate, Value: "2024-03-15"}, expectOK: true},
		{name: "date", value: "2024-03-15", kind: model.KindDate, expected: model.Property{Name: "F", Kind: model.KindDate, Value: "2024-03-15"}, expectOK: true},
		{name: "short date is omitted", value: "2024-03", kind: model.KindDate},
		{name: "impossible date is omitted", value: "2024-13-45", kind: model.KindDate},
		{name: "compact date is omitted", value: "20240315", kind: model.KindDate},
		{name: "status", value: "Not started", kind: model.KindStatus, expected: model.Property{Name: "F", Kind: model.KindStatus, Value: "Not started"}, expectOK: true},
		{name: "unknown kind is omitted", value: "x", kind: model.Kind("number")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			prop, ok := Format("F", tc.value, tc.kind)
			if ok != tc.expectOK {
				t.Fatalf("expected ok=%v, got %v", tc.expectOK, ok)
			}
			if diff := cmp.Diff(tc.expected, prop); diff != "" {
				t.Errorf("property differs from expected:\n%s", diff)
			}
		})
	}
}

func browse(key string) string {
	return "https://example.atlassian.net/browse/" + key
}

func TestMapperBuild(t *testing.T) {
	m := &mappings.Mappings{
		Fields: []mappings.Field{
			{Destination: "Name", Source: "summary", Kind: model.KindTitle},
			{Destination: mappings.TicketIDField, Source: mappings.KeyField, Kind: model.KindText},
			{Destination: "Designer", Source: "customfield_13403", Kind: model.KindChoice},
			{Destination: "Due date", Source: "customfield_13408", Kind: model.KindDate},
			{Destination: "Copywriter", Source: "customfield_13402", Kind: model.KindChoice},
			{Destination: "Sizing (brand)", Source: "customfield_15159", Kind: model.KindChoice},
		},
	}

	tests := []struct {
		name     string
		issue    model.Issue
		expected model.PropertyBag
	}{
		{
			name: "all fields",
			issue: model.Issue{
				Key: "CFM-1",
				Fields: map[string]model.RawValue{
					"summary":           model.Text("Spring campaign"),
					"customfield_13403": model.Person("Jane Doe"),
					"customfield_13408": model.Text("2024-03-15T10:00:00Z"),
					"customfield_13402": model.PersonList("John Roe", "Jane Doe"),
				},
			},
			expected: model.PropertyBag{
				{Name: "Name", Kind: model.KindTitle, Value: "Spring campaign"},
				{Name: "Ticket ID", Kind: model.KindText, Value: "CFM-1", Link: "https://example.atlassian.net/browse/CFM-1"},
				{Name: "Designer", Kind: model.KindChoice, Value: "Jane Doe"},
				{Name: "Due date", Kind: model.KindDate, Value: "2024-03-15"},
				{Name: "Copywriter", Kind: model.KindChoice, Value: "John Roe"},
			},
		},
		{
			name: "absent and unsupported values are omitted",
			issue: model.Issue{
				Key: "CFM-2",
				Fields: map[string]model.RawValue{
					"summary":           model.Text(""),
					"customfield_13403": model.Absent(),
					"customfield_15159": model.Other(`{"value":"L"}`),
				},
			},
			expected: model.PropertyBag{
				{Name: "Ticket ID", Kind: model.KindText, Value: "CFM-2", Link: "https://example.atlassian.net/browse/CFM-2"},
			},
		},
		{
			name: "invalid dates are omitted",
			issue: model.Issue{
				Key: "CFM-3",
				Fields: map[string]model.RawValue{
					"summary":           model.Text("Poster"),
					"customfield_13408": model.Text("2024-13-45"),
				},
			},
			expected: model.PropertyBag{
				{Name: "Name", Kind: model.KindTitle, Value: "Poster"},
				{Name: "Ticket ID", Kind: model.KindText, Value: "CFM-3", Link: "https://example.atlassian.net/browse/CFM-3"},
			},
		},
		{
			name: "non-text date value is omitted when it is not a date",
			issue: model.Issue{
				Key: "CFM-4",
				Fields: map[string]model.RawValue{
					"customfield_13408": model.Other("12345"),
				},
			},
			expected: model.PropertyBag{
				{Name: "Ticket ID", Kind: model.KindText, Value: "CFM-4", Link: "https://example.atlassian.net/browse/CFM-4"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bag, err := NewMapper(m, browse).Build(tc.issue)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tc.expected, bag); diff != "" {
				t.Errorf("bag differs from expected:\n%s", diff)
			}
		})
	}
}

func TestMapperBuildDefaultsKeepsOneEntryPerField(t *testing.T) {
	issue := model.Issue{
		Key: "CFM-7",
		Fields: map[string]model.RawValue{
			"summary":           model.Text("Poster"),
			"customfield_13607": model.Text("2024-05-01"),
		},
	}

	bag, err := NewMapper(mappings.NewMappings(), nil).Build(issue)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := map[string]int{}
	for _, p := range bag {
		names[p.Name]++
	}
	for name, count := range names {
		if count != 1 {
			t.Errorf("field %q appears %d times", name, count)
		}
	}

	// one source field feeds two destination fields
	for _, field := range []string{"Ideal go-live date", "Design due date"} {
		p, ok := bag.Get(field)
		if !ok || p.Value != "2024-05-01" {
			t.Errorf("expected %s to be 2024-05-01, got %+v", field, p)
		}
	}

	ticket, _ := bag.Get(mappings.TicketIDField)
	if ticket.Link != "" {
		t.Errorf("expected no link without a browse URL, got %q", ticket.Link)
	}
}

func TestMapperBuildFailsOnUnknownTag(t *testing.T) {
	m := &mappings.Mappings{Fields: []mappings.Field{{Destination: "Name", Source: "summary", Kind: model.KindTitle}}}
	issue := model.Issue{Key: "CFM-1", Fields: map[string]model.RawValue{"summary": {Kind: model.RawKind(99)}}}

	if _, err := NewMapper(m, nil).Build(issue); err == nil {
		t.Errorf("expected error for an unknown raw value kind")
	}
}

func TestSummary(t *testing.T) {
	if got := Summary(model.Issue{Key: "CFM-1", Fields: map[string]model.RawValue{"summary": model.Text("Banner")}}); got != "Banner" {
		t.Errorf("expected Banner, got %q", got)
	}
	if got := Summary(model.Issue{Key: "CFM-1"}); got != "" {
		t.Errorf("expected empty summary, got %q", got)
	}
}
