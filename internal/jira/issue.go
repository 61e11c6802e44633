package jira

import (
	"bytes"
	"encoding/json"

	"github.com/andygrunwald/go-jira"

	"github.com/petr-muller/jira-notion-sync/internal/model"
)

// searchIssue is an issue as returned by the enhanced search endpoint. Field
// values are kept raw because custom fields have arbitrary shapes.
type searchIssue struct {
	Key    string                     `json:"key"`
	Fields map[string]json.RawMessage `json:"fields"`
}

func (i searchIssue) toModel() model.Issue {
	fields := make(map[string]model.RawValue, len(i.Fields))
	for name, raw := range i.Fields {
		fields[name] = decodeRawValue(raw)
	}
	return model.Issue{Key: i.Key, Fields: fields}
}

// decodeRawValue tags a field value by shape: string, person object, list of
// person objects, or anything else
func decodeRawValue(raw json.RawMessage) model.RawValue {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return model.Absent()
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return model.Other(string(trimmed))
		}
		return model.Text(s)
	case '{':
		if user, ok := decodePerson(trimmed); ok {
			return model.Person(user.DisplayName)
		}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return model.Other(string(trimmed))
		}
		if len(items) == 0 {
			return model.Absent()
		}
		if _, ok := decodePerson(items[0]); !ok {
			return model.Other(string(trimmed))
		}
		var names []string
		for _, item := range items {
			if user, ok := decodePerson(item); ok {
				names = append(names, user.DisplayName)
			}
		}
		return model.PersonList(names...)
	}

	return model.Other(string(trimmed))
}

// decodePerson decodes a Jira user object; objects without displayName are not people
func decodePerson(raw json.RawMessage) (*jira.User, bool) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, false
	}
	if _, ok := probe["displayName"]; !ok {
		return nil, false
	}

	var user jira.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, false
	}
	return &user, true
}
