package jira

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/andygrunwald/go-jira"
	"github.com/sirupsen/logrus"
	prowjira "sigs.k8s.io/prow/pkg/jira"

	"github.com/petr-muller/jira-notion-sync/internal/config"
	"github.com/petr-muller/jira-notion-sync/internal/mappings"
	"github.com/petr-muller/jira-notion-sync/internal/model"
)

const (
	// searchPath is the enhanced JQL search endpoint; the legacy /search endpoint is gone from Jira Cloud
	searchPath     = "rest/api/3/search/jql"
	pageSize       = 100
	requestTimeout = 30 * time.Second
)

// Options configure the Jira client
type Options struct {
	Endpoint string
	Email    string
	APIToken string

	JQL         string
	DisplayName string
	Role        string
}

// OptionsFromConfig returns client options for the configured Jira instance
func OptionsFromConfig(c config.JiraConfig) Options {
	return Options{
		Endpoint:    c.Endpoint(),
		Email:       c.Email,
		APIToken:    c.APIToken,
		JQL:         c.JQL,
		DisplayName: c.DisplayName,
		Role:        c.Role,
	}
}

// requester is the part of the go-jira client we use
type requester interface {
	NewRequestWithContext(ctx context.Context, method, urlStr string, body interface{}) (*http.Request, error)
	Do(req *http.Request, v interface{}) (*jira.Response, error)
}

// Client fetches the issues matching the configured filter
type Client struct {
	jira   requester
	jql    string
	fields []string
}

// NewClient creates a new Jira client. The filter is resolved here so that an
// unusable filter configuration fails before any request is made.
func NewClient(opts Options, m *mappings.Mappings) (*Client, error) {
	jql, err := BuildJQL(opts.JQL, opts.DisplayName, opts.Role, m)
	if err != nil {
		return nil, err
	}

	jiraClient, err := prowjira.NewClient(
		strings.TrimSuffix(opts.Endpoint, "/"),
		prowjira.WithBasicAuth(func() (string, string) {
			return opts.Email, opts.APIToken
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create JIRA client: %w", err)
	}

	return &Client{
		jira:   jiraClient.JiraClient(),
		jql:    jql,
		fields: m.SourceFields(),
	}, nil
}

// JQL returns the effective filter
func (c *Client) JQL() string {
	return c.jql
}

type searchRequest struct {
	JQL           string   `json:"jql"`
	Fields        []string `json:"fields"`
	MaxResults    int      `json:"maxResults"`
	NextPageToken string   `json:"nextPageToken,omitempty"`
}

type searchResponse struct {
	Issues        []searchIssue `json:"issues"`
	IsLast        bool          `json:"isLast"`
	NextPageToken string        `json:"nextPageToken,omitempty"`
}

// Fetch returns all issues matching the filter, in the order the server returns them
func (c *Client) Fetch(ctx context.Context) ([]model.Issue, error) {
	logrus.Infof("JQL used: %s", c.jql)

	var issues []model.Issue
	var token string
	for {
		page, err := c.searchPage(ctx, token)
		if err != nil {
			return nil, err
		}

		for _, raw := range page.Issues {
			issues = append(issues, raw.toModel())
		}
		logrus.Infof("Fetched %d issues (total so far=%d)", len(page.Issues), len(issues))

		if page.IsLast {
			break
		}

		if page.NextPageToken == "" {
			logrus.Warn("Jira reported more pages but sent no nextPageToken, stopping early")
			break
		}
		token = page.NextPageToken
	}

	return issues, nil
}

func (c *Client) searchPage(ctx context.Context, token string) (*searchResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	body := searchRequest{
		JQL:           c.jql,
		Fields:        c.fields,
		MaxResults:    pageSize,
		NextPageToken: token,
	}

	req, err := c.jira.NewRequestWithContext(ctx, http.MethodPost, searchPath, body)
	if err != nil {
		return nil, model.Errorf(model.ErrSourceFetch, err, "cannot build search request")
	}

	var page searchResponse
	resp, err := c.jira.Do(req, &page)
	if err != nil {
		fetchErr := model.Errorf(model.ErrSourceFetch, err, "enhanced JQL search failed")
		if resp != nil && resp.Response != nil && (resp.StatusCode < 200 || resp.StatusCode > 299) {
			fetchErr.StatusCode = resp.StatusCode
			if data, readErr := io.ReadAll(resp.Body); readErr == nil {
				fetchErr.Body = strings.TrimSpace(string(data))
			}
			_ = resp.Body.Close()
		}
		return nil, fetchErr
	}

	return &page, nil
}
