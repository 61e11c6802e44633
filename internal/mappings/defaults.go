package mappings

import "github.com/petr-muller/jira-notion-sync/internal/model"

var defaultFields = []Field{
	{Destination: "Name", Source: "summary", Kind: model.KindTitle},
	{Destination: TicketIDField, Source: KeyField, Kind: model.KindText},
	{Destination: "Designer", Source: "customfield_13403", Kind: model.KindChoice},
	{Destination: "Copy due date", Source: "customfield_13406", Kind: model.KindDate},
	{Destination: "CR3", Source: "customfield_15039", Kind: model.KindDate},
	{Destination: "Ideal go-live date", Source: "customfield_13607", Kind: model.KindDate},
	{Destination: "Brand lead", Source: "customfield_13902", Kind: model.KindChoice},
	{Destination: "Brief date", Source: "customfield_15011", Kind: model.KindDate},
	{Destination: "Due date", Source: "customfield_13408", Kind: model.KindDate},
	{Destination: "Design due date", Source: "customfield_13607", Kind: model.KindDate},
	{Destination: "Copywriter", Source: "customfield_13402", Kind: model.KindChoice},
	{Destination: "Sizing (brand)", Source: "customfield_15159", Kind: model.KindChoice},
	{Destination: "Illustration due date", Source: "customfield_13407", Kind: model.KindDate},
	{Destination: "Project lead", Source: "customfield_13400", Kind: model.KindChoice},
	{Destination: "Head of Brand Design Review", Source: "customfield_14610", Kind: model.KindChoice},
	{Destination: "Video due date", Source: "customfield_15100", Kind: model.KindDate},
	{Destination: "Illustration", Source: "customfield_14110", Kind: model.KindChoice},
	{Destination: "CR2", Source: "customfield_14112", Kind: model.KindDate},
	{Destination: "CR1", Source: "customfield_14111", Kind: model.KindDate},
	{Destination: "Social media due date", Source: "customfield_14201", Kind: model.KindDate},
	{Destination: "Print producer", Source: "customfield_15530", Kind: model.KindChoice},
	{Destination: "Social media", Source: "customfield_14200", Kind: model.KindChoice},
}

// Roles cover every person field except Head of Brand Design Review
var defaultRoles = map[string]string{
	"designer":       "cf[13403]",
	"copywriter":     "cf[13402]",
	"brand_lead":     "cf[13902]",
	"project_lead":   "cf[13400]",
	"print_producer": "cf[15530]",
	"social_media":   "cf[14200]",
	"illustration":   "cf[14110]",
	"production":     "cf[14109]",
	"assignee":       "assignee",
}
