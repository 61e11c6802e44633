package jira

import (
	"fmt"
	"strings"

	"github.com/petr-muller/jira-notion-sync/internal/mappings"
	"github.com/petr-muller/jira-notion-sync/internal/model"
)

const jqlTemplate = `project = CFM AND status != Resolved AND created >= "2024-01-01" AND %s = "%s" ORDER BY updated DESC`

// BuildJQL returns rawJQL if set, otherwise a filter scoped to issues where the
// identity field selected by role equals displayName
func BuildJQL(rawJQL, displayName, role string, m *mappings.Mappings) (string, error) {
	if jql := strings.TrimSpace(rawJQL); jql != "" {
		return jql, nil
	}

	displayName = strings.TrimSpace(displayName)
	role = strings.ToLower(strings.TrimSpace(role))
	if displayName == "" || role == "" {
		return "", model.Errorf(model.ErrConfiguration, nil, "either JIRA_JQL must be provided, or both JIRA_DISPLAY_NAME and JIRA_ROLE must be set")
	}

	field := m.GetFieldForRole(role)
	if field == "" {
		return "", model.Errorf(model.ErrConfiguration, nil, "unsupported JIRA_ROLE %q (known roles: %s)", role, strings.Join(m.KnownRoles(), ", "))
	}

	return fmt.Sprintf(jqlTemplate, field, strings.ReplaceAll(displayName, `"`, `\"`)), nil
}
