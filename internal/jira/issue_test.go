package jira

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/petr-muller/jira-notion-sync/internal/model"
)

func TestDecodeRawValue(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected model.RawValue
	}{
		{name: "null", raw: `null`, expected: model.Absent()},
		{name: "string", raw: `"Spring campaign"`, expected: model.Text("Spring campaign")},
		{name: "date string", raw: `"2024-03-15"`, expected: model.Text("2024-03-15")},
		{
			name:     "person",
			raw:      `{"accountId":"5b10a","displayName":"Jane Doe","emailAddress":"jane@example.com","active":true}`,
			expected: model.Person("Jane Doe"),
		},
		{
			name:     "person list",
			raw:      `[{"accountId":"1","displayName":"Jane Doe"},{"accountId":"2","displayName":"John Roe"}]`,
			expected: model.PersonList("Jane Doe", "John Roe"),
		},
		{name: "empty list", raw: `[]`, expected: model.Absent()},
		{name: "option object", raw: `{"self":"https://x","value":"L","id":"1"}`, expected: model.Other(`{"self":"https://x","value":"L","id":"1"}`)},
		{name: "list of options", raw: `[{"value":"L"}]`, expected: model.Other(`[{"value":"L"}]`)},
		{name: "number", raw: `42`, expected: model.Other(`42`)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := decodeRawValue(json.RawMessage(tc.raw))
			if diff := cmp.Diff(tc.expected, got); diff != "" {
				t.Errorf("value differs from expected:\n%s", diff)
			}
		})
	}
}
