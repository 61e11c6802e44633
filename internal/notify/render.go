package notify

import (
	"strings"
	"text/template"
	"time"

	"github.com/petr-muller/jira-notion-sync/internal/model"
)

var summaryTemplate = template.Must(template.New("summary").Parse(`{{.Timestamp}}
{{if .Created}}
Created {{len .Created}} tickets:
{{range .Created}}- [{{.Key}}]({{.Link}}): {{.Summary}}
{{end}}{{end}}{{if .Updated}}
Updated {{len .Updated}} tickets:
{{range .Updated}}- [{{.Key}}]({{.Link}})
{{range .Fields}}  • {{.Field}}: {{.Before}} → {{.After}}
{{end}}{{end}}{{end}}{{if not (or .Created .Updated)}}
No ticket changes in this cycle.
{{end}}`))

type summaryEntry struct {
	Key     string
	Link    string
	Summary string
	Fields  []model.FieldChange
}

type summaryData struct {
	Timestamp string
	Created   []summaryEntry
	Updated   []summaryEntry
}

// RenderSummary renders the body of the summary email
func RenderSummary(now time.Time, report *model.Report, browseURL func(key string) string) (string, error) {
	data := summaryData{Timestamp: FormatTimestamp(now)}

	link := func(key string) string {
		if browseURL == nil {
			return key
		}
		return browseURL(key)
	}

	for _, key := range report.CreatedKeys() {
		summary := report.Created[key].Summary
		if summary == "" {
			summary = "No summary"
		}
		data.Created = append(data.Created, summaryEntry{Key: key, Link: link(key), Summary: summary})
	}
	for _, key := range report.UpdatedKeys() {
		data.Updated = append(data.Updated, summaryEntry{Key: key, Link: link(key), Fields: report.Updated[key].Fields})
	}

	var body strings.Builder
	if err := summaryTemplate.Execute(&body, data); err != nil {
		return "", err
	}
	return body.String(), nil
}
