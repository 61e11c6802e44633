package notion

import (
	"context"
	"net/http"

	"github.com/jomei/notionapi"
	"github.com/sirupsen/logrus"

	"github.com/petr-muller/jira-notion-sync/internal/config"
	"github.com/petr-muller/jira-notion-sync/internal/mappings"
	"github.com/petr-muller/jira-notion-sync/internal/model"
)

const pageSize = 100

// Options configure the Notion store
type Options struct {
	APIKey        string
	DatabaseID    string
	MarkerBlockID string
	// HTTPClient overrides the client used to talk to the Notion API
	HTTPClient *http.Client
}

// OptionsFromConfig returns store options for the configured database
func OptionsFromConfig(c config.NotionConfig) Options {
	return Options{
		APIKey:        c.APIKey,
		DatabaseID:    c.DatabaseID,
		MarkerBlockID: c.MarkerBlockID,
	}
}

// Store reads and writes the pages of a single Notion database
type Store struct {
	client        *notionapi.Client
	databaseID    notionapi.DatabaseID
	markerBlockID string

	// selectOptions caches the options of every select field, loaded on first use
	selectOptions map[string][]notionapi.Option
}

// NewStore creates a new Notion store
func NewStore(opts Options) *Store {
	var clientOpts []notionapi.ClientOption
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, notionapi.WithHTTPClient(opts.HTTPClient))
	}

	return &Store{
		client:        notionapi.NewClient(notionapi.Token(opts.APIKey), clientOpts...),
		databaseID:    notionapi.DatabaseID(opts.DatabaseID),
		markerBlockID: opts.MarkerBlockID,
	}
}

// ListExisting returns every page of the database that carries a Ticket ID
func (s *Store) ListExisting(ctx context.Context) (*model.Existing, error) {
	existing := model.NewExisting()
	request := &notionapi.DatabaseQueryRequest{PageSize: pageSize}

	for {
		resp, err := s.client.Database.Query(ctx, s.databaseID, request)
		if err != nil {
			return nil, model.Errorf(model.ErrDestinationQuery, err, "cannot query database %s", s.databaseID)
		}

		for _, page := range resp.Results {
			props := fromNotionProperties(page.Properties)
			ticket, ok := props.Get(mappings.TicketIDField)
			if !ok || ticket.Value == "" {
				continue
			}
			if !existing.Add(ticket.Value, string(page.ID), props) {
				logrus.WithFields(logrus.Fields{"key": ticket.Value, "page": page.ID}).Warn("Found a duplicate page for ticket")
			}
		}

		if !resp.HasMore || resp.NextCursor == "" {
			break
		}
		request.StartCursor = resp.NextCursor
	}

	return existing, nil
}

// Create creates a page for key in the database
func (s *Store) Create(ctx context.Context, key string, bag model.PropertyBag) error {
	request := &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: s.databaseID,
		},
		Properties: toNotionProperties(key, bag),
	}

	if _, err := s.client.Page.Create(ctx, request); err != nil {
		return model.Errorf(model.ErrDestinationCreate, err, "failed to create ticket %s in Notion", key)
	}

	return nil
}

// Update patches the given properties of an existing page
func (s *Store) Update(ctx context.Context, pageID, key string, bag model.PropertyBag) error {
	request := &notionapi.PageUpdateRequest{
		Properties: toNotionProperties(key, bag),
	}

	if _, err := s.client.Page.Update(ctx, notionapi.PageID(pageID), request); err != nil {
		return model.Errorf(model.ErrDestinationUpdate, err, "failed to update ticket %s in Notion", key)
	}

	return nil
}

// Archive archives a page. Pages are never deleted permanently.
func (s *Store) Archive(ctx context.Context, pageID, key string) error {
	request := &notionapi.PageUpdateRequest{
		Properties: notionapi.Properties{},
		Archived:   true,
	}

	if _, err := s.client.Page.Update(ctx, notionapi.PageID(pageID), request); err != nil {
		return model.Errorf(model.ErrDestinationSecondary, err, "failed to archive ticket %s", key)
	}

	return nil
}

// EnsureChoiceOption adds option to the options of a select field unless it is
// already there. Fields that do not exist or are not select fields are ignored.
func (s *Store) EnsureChoiceOption(ctx context.Context, field, option string) error {
	if err := s.loadSchema(ctx); err != nil {
		return err
	}

	options, ok := s.selectOptions[field]
	if !ok {
		return nil
	}
	for _, existing := range options {
		if existing.Name == option {
			return nil
		}
	}

	updated := make([]notionapi.Option, 0, len(options)+1)
	updated = append(updated, options...)
	updated = append(updated, notionapi.Option{Name: option})

	request := &notionapi.DatabaseUpdateRequest{
		Properties: notionapi.PropertyConfigs{
			field: notionapi.SelectPropertyConfig{
				Type:   notionapi.PropertyConfigTypeSelect,
				Select: notionapi.Select{Options: updated},
			},
		},
	}
	if _, err := s.client.Database.Update(ctx, s.databaseID, request); err != nil {
		return model.Errorf(model.ErrDestinationSecondary, err, "could not add %q to %s", option, field)
	}

	s.selectOptions[field] = updated
	logrus.Infof("Added %q to select field %s", option, field)
	return nil
}

func (s *Store) loadSchema(ctx context.Context) error {
	if s.selectOptions != nil {
		return nil
	}

	db, err := s.client.Database.Get(ctx, s.databaseID)
	if err != nil {
		return model.Errorf(model.ErrDestinationSecondary, err, "failed to fetch schema of database %s", s.databaseID)
	}

	options := map[string][]notionapi.Option{}
	for name, cfg := range db.Properties {
		switch c := cfg.(type) {
		case *notionapi.SelectPropertyConfig:
			options[name] = c.Select.Options
		case notionapi.SelectPropertyConfig:
			options[name] = c.Select.Options
		}
	}
	s.selectOptions = options

	return nil
}

// WriteMarker replaces the text of the marker block. Without a configured
// marker block this is a no-op.
func (s *Store) WriteMarker(ctx context.Context, text string) error {
	if s.markerBlockID == "" {
		logrus.Info("No marker block configured, skipping timestamp update")
		return nil
	}

	request := &notionapi.BlockUpdateRequest{
		Paragraph: &notionapi.Paragraph{
			RichText: []notionapi.RichText{plainRichText(text, "")},
		},
	}
	if _, err := s.client.Block.Update(ctx, notionapi.BlockID(s.markerBlockID), request); err != nil {
		return model.Errorf(model.ErrDestinationSecondary, err, "failed to update timestamp block %s", s.markerBlockID)
	}

	logrus.Infof("Updated timestamp block: %s", text)
	return nil
}
