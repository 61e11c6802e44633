package notion

import (
	"slices"
	"strings"
	"time"

	"github.com/jomei/notionapi"
	"github.com/sirupsen/logrus"

	"github.com/petr-muller/jira-notion-sync/internal/model"
)

// toNotionProperties converts a property bag to the Notion request format.
// The mapper only produces dates in model.DateLayout; anything else is dropped.
func toNotionProperties(key string, bag model.PropertyBag) notionapi.Properties {
	props := notionapi.Properties{}

	for _, p := range bag {
		switch p.Kind {
		case model.KindTitle:
			props[p.Name] = notionapi.TitleProperty{
				Title: []notionapi.RichText{plainRichText(p.Value, p.Link)},
			}
		case model.KindText:
			props[p.Name] = notionapi.RichTextProperty{
				RichText: []notionapi.RichText{plainRichText(p.Value, p.Link)},
			}
		case model.KindChoice:
			props[p.Name] = notionapi.SelectProperty{
				Select: notionapi.Option{Name: p.Value},
			}
		case model.KindStatus:
			props[p.Name] = notionapi.StatusProperty{
				Status: notionapi.Status{Name: p.Value},
			}
		case model.KindDate:
			t, err := time.Parse(model.DateLayout, p.Value)
			if err != nil {
				logrus.WithFields(logrus.Fields{"key": key, "field": p.Name, "value": p.Value}).
					Warn("Dropping a date Notion cannot accept")
				continue
			}
			start := notionapi.Date(t)
			props[p.Name] = notionapi.DateProperty{
				Date: &notionapi.DateObject{Start: &start},
			}
		}
	}

	return props
}

// fromNotionProperties converts page properties back to a property bag so that
// they can be compared with freshly mapped values
func fromNotionProperties(props notionapi.Properties) model.PropertyBag {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	slices.Sort(names)

	var bag model.PropertyBag
	for _, name := range names {
		prop, ok := fromNotionProperty(name, props[name])
		if ok {
			bag = append(bag, prop)
		}
	}
	return bag
}

func fromNotionProperty(name string, property notionapi.Property) (model.Property, bool) {
	switch p := property.(type) {
	case *notionapi.TitleProperty:
		return textProperty(name, model.KindTitle, p.Title)
	case *notionapi.RichTextProperty:
		return textProperty(name, model.KindText, p.RichText)
	case *notionapi.SelectProperty:
		if p.Select.Name == "" {
			return model.Property{}, false
		}
		return model.Property{Name: name, Kind: model.KindChoice, Value: p.Select.Name}, true
	case *notionapi.StatusProperty:
		if p.Status.Name == "" {
			return model.Property{}, false
		}
		return model.Property{Name: name, Kind: model.KindStatus, Value: p.Status.Name}, true
	case *notionapi.DateProperty:
		if p.Date == nil || p.Date.Start == nil {
			return model.Property{}, false
		}
		return model.Property{Name: name, Kind: model.KindDate, Value: time.Time(*p.Date.Start).Format(model.DateLayout)}, true
	}
	return model.Property{}, false
}

func textProperty(name string, kind model.Kind, rich []notionapi.RichText) (model.Property, bool) {
	var parts []string
	var link string
	for _, rt := range rich {
		switch {
		case rt.Text != nil:
			parts = append(parts, rt.Text.Content)
			if rt.Text.Link != nil && link == "" {
				link = rt.Text.Link.Url
			}
		default:
			parts = append(parts, rt.PlainText)
		}
	}

	value := strings.TrimSpace(strings.Join(parts, ""))
	if value == "" {
		return model.Property{}, false
	}
	return model.Property{Name: name, Kind: kind, Value: value, Link: link}, true
}

func plainRichText(content, link string) notionapi.RichText {
	text := &notionapi.Text{Content: content}
	if link != "" {
		text.Link = &notionapi.Link{Url: link}
	}
	return notionapi.RichText{Type: notionapi.ObjectTypeText, Text: text}
}
