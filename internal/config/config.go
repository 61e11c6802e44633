package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/petr-muller/jira-notion-sync/internal/model"
)

const (
	KeyJiraEmail        = "JIRA_EMAIL"
	KeyJiraAPIToken     = "JIRA_API_TOKEN"
	KeyJiraDomain       = "JIRA_DOMAIN"
	KeyJiraJQL          = "JIRA_JQL"
	KeyJiraDisplayName  = "JIRA_DISPLAY_NAME"
	KeyJiraRole         = "JIRA_ROLE"
	KeyNotionAPIKey     = "NOTION_API_KEY"
	KeyNotionDatabaseID = "NOTION_DATABASE_ID"
	KeyNotionBlockID    = "NOTION_TEXT_BLOCK_ID"
	KeyEmailSender      = "EMAIL_SENDER"
	KeyEmailReceiver    = "EMAIL_RECEIVER"
	KeyEmailPassword    = "EMAIL_APP_PASSWORD"
	KeySMTPHost         = "SMTP_HOST"
	KeySMTPPort         = "SMTP_PORT"
	KeyNotifyHours      = "NOTIFY_HOURS"
	KeyNotifyTimezone   = "NOTIFY_TIMEZONE"
)

// requiredKeys must all be set for a sync pass to start
var requiredKeys = []string{
	KeyNotionAPIKey,
	KeyNotionDatabaseID,
	KeyJiraEmail,
	KeyJiraAPIToken,
	KeyJiraDomain,
	KeyEmailSender,
	KeyEmailReceiver,
	KeyEmailPassword,
}

// Config is built once at startup and passed to every component
type Config struct {
	Jira   JiraConfig
	Notion NotionConfig
	Mail   MailConfig
	Notify NotifyConfig
}

type JiraConfig struct {
	Domain   string
	Email    string
	APIToken string

	// JQL takes precedence over DisplayName and Role
	JQL         string
	DisplayName string
	Role        string
}

// Endpoint returns the base URL of the Jira instance
func (c JiraConfig) Endpoint() string {
	return "https://" + c.Domain
}

// BrowseURL returns the web URL of an issue
func (c JiraConfig) BrowseURL(key string) string {
	return fmt.Sprintf("https://%s/browse/%s", c.Domain, key)
}

type NotionConfig struct {
	APIKey     string
	DatabaseID string
	// MarkerBlockID is the text block receiving the "last synced" line, optional
	MarkerBlockID string
}

type MailConfig struct {
	Sender    string
	Receivers []string
	Password  string
	Host      string
	Port      int
}

// Complete returns true if the mail transport can be used
func (c MailConfig) Complete() bool {
	return c.Sender != "" && len(c.Receivers) > 0 && c.Password != "" && c.Host != "" && c.Port != 0
}

type NotifyConfig struct {
	Hours    []int
	Location *time.Location
}

// LoadOptions select the optional files configuration is read from
type LoadOptions struct {
	// EnvFile is a dotenv file loaded into the process environment; a missing file is ignored
	EnvFile string
	// ConfigFile is an optional YAML file with the same keys as the environment
	ConfigFile string
}

// Load builds the configuration from the environment and the optional files.
// On a configuration error the partially filled Config is still returned so
// that callers can decide whether a failure notification can be sent.
func Load(opts LoadOptions) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, model.Errorf(model.ErrConfiguration, err, "cannot load env file %s", opts.EnvFile)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault(KeySMTPHost, "smtp.gmail.com")
	v.SetDefault(KeySMTPPort, 465)
	v.SetDefault(KeyNotifyHours, "9,17")
	v.SetDefault(KeyNotifyTimezone, "America/New_York")

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, model.Errorf(model.ErrConfiguration, err, "cannot read config file %s", opts.ConfigFile)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	get := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}

	cfg := &Config{
		Jira: JiraConfig{
			Domain:      strings.TrimSuffix(strings.TrimPrefix(get(KeyJiraDomain), "https://"), "/"),
			Email:       get(KeyJiraEmail),
			APIToken:    get(KeyJiraAPIToken),
			JQL:         get(KeyJiraJQL),
			DisplayName: get(KeyJiraDisplayName),
			Role:        get(KeyJiraRole),
		},
		Notion: NotionConfig{
			APIKey:        get(KeyNotionAPIKey),
			DatabaseID:    get(KeyNotionDatabaseID),
			MarkerBlockID: get(KeyNotionBlockID),
		},
		Mail: MailConfig{
			Sender:    get(KeyEmailSender),
			Receivers: splitList(get(KeyEmailReceiver)),
			Password:  get(KeyEmailPassword),
			Host:      get(KeySMTPHost),
			Port:      v.GetInt(KeySMTPPort),
		},
	}

	var missing []string
	for _, key := range requiredKeys {
		if get(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return cfg, model.Errorf(model.ErrConfiguration, nil, "missing required settings: %s", strings.Join(missing, ", "))
	}

	hours, err := parseHours(get(KeyNotifyHours))
	if err != nil {
		return cfg, model.Errorf(model.ErrConfiguration, err, "invalid %s", KeyNotifyHours)
	}
	cfg.Notify.Hours = hours

	location, err := time.LoadLocation(get(KeyNotifyTimezone))
	if err != nil {
		return cfg, model.Errorf(model.ErrConfiguration, err, "invalid %s", KeyNotifyTimezone)
	}
	cfg.Notify.Location = location

	return cfg, nil
}

func parseHours(value string) ([]int, error) {
	var hours []int
	for _, item := range splitList(value) {
		hour, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("hour %q is not a number", item)
		}
		if hour < 0 || hour > 23 {
			return nil, fmt.Errorf("hour %d is out of range", hour)
		}
		hours = append(hours, hour)
	}
	return hours, nil
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
