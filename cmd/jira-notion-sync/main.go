package main

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/fang"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"k8s.io/utils/clock"

	"github.com/petr-muller/jira-notion-sync/internal/config"
	"github.com/petr-muller/jira-notion-sync/internal/fieldmap"
	"github.com/petr-muller/jira-notion-sync/internal/flagutil"
	"github.com/petr-muller/jira-notion-sync/internal/jira"
	"github.com/petr-muller/jira-notion-sync/internal/mappings"
	"github.com/petr-muller/jira-notion-sync/internal/model"
	"github.com/petr-muller/jira-notion-sync/internal/notify"
	"github.com/petr-muller/jira-notion-sync/internal/notion"
	"github.com/petr-muller/jira-notion-sync/internal/reconcile"
)

var syncOptions flagutil.SyncOptions

func main() {
	rootCmd := &cobra.Command{
		Use:   "jira-notion-sync",
		Short: "Synchronize Jira issues into a Notion database",
		Long: `Jira to Notion sync mirrors the Jira issues matching a filter into a Notion database.

A single run fetches the matching issues, creates Notion pages for new issues,
updates the fields that changed, archives pages whose issue no longer matches
and updates the "last synced" block. A summary email is sent during the
configured notification hours when something was created or updated.

Run it periodically from cron or a scheduled CI job.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := syncOptions.Validate(); err != nil {
				return err
			}
			syncOptions.ConfigureLogging()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd.Context(), cmd.OutOrStdout())
		},
	}

	syncOptions.AddPFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newJQLCmd())

	if err := fang.Execute(context.Background(), rootCmd); err != nil {
		logrus.WithError(err).Fatal("command failed")
	}
}

func newJQLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "jql",
		Short: "Print the JQL filter a sync run would use",
		Long: `Print the effective JQL filter. An explicit JIRA_JQL wins; otherwise the filter
is built from JIRA_DISPLAY_NAME and JIRA_ROLE using the role mappings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJQL(cmd.OutOrStdout())
		},
	}
}

func runJQL(out io.Writer) error {
	cfg, err := config.Load(syncOptions.LoadOptions())
	if cfg == nil {
		return err
	}
	if err != nil {
		logrus.WithError(err).Debug("Configuration is incomplete, using what is available")
	}

	m, err := mappings.LoadMappings(syncOptions.MappingFile)
	if err != nil {
		return err
	}

	jql, err := jira.BuildJQL(cfg.Jira.JQL, cfg.Jira.DisplayName, cfg.Jira.Role, m)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, jql)
	return err
}

func runSync(ctx context.Context, out io.Writer) error {
	// configuration errors abort before any network call, so no failure email is sent for them
	cfg, err := config.Load(syncOptions.LoadOptions())
	if err != nil {
		return err
	}

	m, err := mappings.LoadMappings(syncOptions.MappingFile)
	if err != nil {
		return model.Errorf(model.ErrConfiguration, err, "cannot load mappings")
	}

	source, err := jira.NewClient(jira.OptionsFromConfig(cfg.Jira), m)
	if err != nil {
		return err
	}

	store := notion.NewStore(notion.OptionsFromConfig(cfg.Notion))
	notifier := notify.NewNotifier(
		notify.NewSMTPSender(cfg.Mail),
		notify.NewPolicy(cfg.Notify.Hours, cfg.Notify.Location),
		clock.RealClock{},
		cfg.Jira.BrowseURL,
	)

	r := reconcile.New(source, store, fieldmap.NewMapper(m, cfg.Jira.BrowseURL), notifier, reconcile.Options{
		DryRun:   syncOptions.DryRun,
		Clock:    clock.RealClock{},
		Location: cfg.Notify.Location,
	})

	report, err := r.Run(ctx)
	if report != nil {
		fmt.Fprint(out, renderSummary(report, syncOptions.DryRun))
		if syncOptions.PrintReport {
			encoder := yaml.NewEncoder(out)
			encoder.SetIndent(2)
			if encErr := encoder.Encode(report); encErr != nil {
				logrus.WithError(encErr).Warn("Failed to print report")
			}
			encoder.Close()
		}
	}
	return err
}
