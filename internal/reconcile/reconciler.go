package reconcile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/utils/clock"

	"github.com/petr-muller/jira-notion-sync/internal/compare"
	"github.com/petr-muller/jira-notion-sync/internal/fieldmap"
	"github.com/petr-muller/jira-notion-sync/internal/mappings"
	"github.com/petr-muller/jira-notion-sync/internal/model"
	"github.com/petr-muller/jira-notion-sync/internal/notify"
)

// Source provides the issues that should exist in the destination
type Source interface {
	Fetch(ctx context.Context) ([]model.Issue, error)
}

// Destination is the database issues are synchronized into
type Destination interface {
	ListExisting(ctx context.Context) (*model.Existing, error)
	Create(ctx context.Context, key string, bag model.PropertyBag) error
	Update(ctx context.Context, pageID, key string, bag model.PropertyBag) error
	Archive(ctx context.Context, pageID, key string) error
	EnsureChoiceOption(ctx context.Context, field, option string) error
	WriteMarker(ctx context.Context, text string) error
}

// Mapper builds the destination properties of an issue
type Mapper interface {
	Build(issue model.Issue) (model.PropertyBag, error)
}

// Notifier sends the emails of a pass
type Notifier interface {
	InWindow() bool
	SendSummary(ctx context.Context, report *model.Report) error
	SendFailure(ctx context.Context, subject, detail string) error
}

// Options tune a Reconciler
type Options struct {
	// DryRun performs fetching, diffing and reporting but no mutation and no notification
	DryRun bool
	Clock  clock.PassiveClock
	// Location is the time zone of the "last synced" marker
	Location *time.Location
}

// Reconciler runs sync passes from a Source into a Destination
type Reconciler struct {
	source      Source
	destination Destination
	mapper      Mapper
	notifier    Notifier

	dryRun   bool
	clock    clock.PassiveClock
	location *time.Location

	phase Phase
}

// New creates a new reconciler
func New(source Source, destination Destination, mapper Mapper, notifier Notifier, opts Options) *Reconciler {
	r := &Reconciler{
		source:      source,
		destination: destination,
		mapper:      mapper,
		notifier:    notifier,
		dryRun:      opts.DryRun,
		clock:       opts.Clock,
		location:    opts.Location,
	}
	if r.clock == nil {
		r.clock = clock.RealClock{}
	}
	if r.location == nil {
		r.location = time.UTC
	}
	return r
}

// Phase returns the phase the last pass reached
func (r *Reconciler) Phase() Phase {
	return r.phase
}

// Run performs a single sync pass. When the pass fails, a failure notification
// is attempted and the error is returned together with the partial report.
func (r *Reconciler) Run(ctx context.Context) (*model.Report, error) {
	report, err := r.run(ctx)
	if err != nil {
		r.fail(ctx, err)
		return report, err
	}
	return report, nil
}

func (r *Reconciler) run(ctx context.Context) (*model.Report, error) {
	r.enter(PhaseFetching)
	if r.dryRun {
		logrus.Info("Starting Jira → Notion sync (dry run)")
	} else {
		logrus.Info("Starting Jira → Notion sync")
	}

	issues, err := r.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch issues: %w", err)
	}
	logrus.Infof("Jira issues found: %d", len(issues))

	existing, err := r.destination.ListExisting(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot list existing tickets: %w", err)
	}
	logrus.Infof("Existing Notion tickets: %d", existing.Keys.Len())

	report := model.NewReport()
	seen := sets.New[string]()
	for _, issue := range issues {
		key, change, err := r.upsert(ctx, issue, existing)
		if err != nil {
			return report, err
		}
		seen.Insert(key)
		report.Add(key, change)
	}

	archived, err := r.deleteOrphaned(ctx, existing, seen)
	if err != nil {
		return report, err
	}
	report.Archived = archived

	r.enter(PhaseReporting)
	logrus.Infof("Created=%d, Updated=%d, Archived=%d", len(report.Created), len(report.Updated), len(report.Archived))

	r.enter(PhaseNotifying)
	if r.dryRun {
		logrus.Info("Dry run enabled, skipping email and Notion updates")
		r.enter(PhaseDone)
		return report, nil
	}

	if report.HasChanges() && r.notifier.InWindow() {
		if err := r.notifier.SendSummary(ctx, report); err != nil {
			logrus.WithError(err).Error("Failed to send summary email")
		}
	} else {
		logrus.Info("Not an email hour or no changes, skipping email")
	}

	r.enter(PhaseDone)
	marker := "Last synced: " + notify.FormatTimestamp(r.clock.Now().In(r.location))
	if err := r.advisory(r.destination.WriteMarker(ctx, marker), "Failed to update timestamp block", nil); err != nil {
		return report, err
	}

	return report, nil
}

// upsert creates the destination page of a new issue, or patches the fields of
// an existing page that differ from the freshly mapped ones
func (r *Reconciler) upsert(ctx context.Context, issue model.Issue, existing *model.Existing) (string, model.Change, error) {
	key := issue.Key
	log := logrus.WithField("key", key)

	r.enter(PhaseDiffing)
	bag, err := r.mapper.Build(issue)
	if err != nil {
		return key, model.Change{}, err
	}
	summary := fieldmap.Summary(issue)

	if !existing.Keys.Has(key) {
		bag = bag.Set(model.Property{Name: mappings.StatusField, Kind: model.KindStatus, Value: mappings.DefaultStatus})
		change := model.Change{Created: true, Summary: summary}

		if r.dryRun {
			log.Info("[DRY RUN] Would create ticket")
			return key, change, nil
		}

		r.enter(PhaseApplying)
		if err := r.ensureChoiceOptions(ctx, key, bag); err != nil {
			return key, model.Change{}, err
		}
		if err := r.destination.Create(ctx, key, bag); err != nil {
			return key, model.Change{}, err
		}
		log.Info("Created ticket in Notion")
		return key, change, nil
	}

	previous := existing.Properties[key]
	changes := compare.CompareProperties(previous, bag)
	if len(changes) == 0 {
		log.Debug("Ticket is up to date")
		return key, model.Change{}, nil
	}
	change := model.Change{Updated: true, Summary: summary, Fields: changes}

	if r.dryRun {
		log.Infof("[DRY RUN] Would update ticket fields: %s", fieldNames(changes))
		return key, change, nil
	}

	r.enter(PhaseApplying)
	patch := compare.Changed(previous, bag)
	if err := r.ensureChoiceOptions(ctx, key, patch); err != nil {
		return key, model.Change{}, err
	}
	if err := r.destination.Update(ctx, existing.IDs[key], key, patch); err != nil {
		return key, model.Change{}, err
	}
	log.Infof("Updated ticket fields in Notion: %s", fieldNames(changes))
	return key, change, nil
}

// ensureChoiceOptions extends the destination schema with every choice value
// about to be written. Failures are advisory: the write is attempted anyway.
func (r *Reconciler) ensureChoiceOptions(ctx context.Context, key string, bag model.PropertyBag) error {
	for _, prop := range bag {
		if prop.Kind != model.KindChoice {
			continue
		}
		err := r.destination.EnsureChoiceOption(ctx, prop.Name, prop.Value)
		if err := r.advisory(err, "Could not extend choice options", logrus.Fields{"key": key, "field": prop.Name}); err != nil {
			return err
		}
	}
	return nil
}

// deleteOrphaned archives destination pages whose key was not seen in the
// source, plus duplicate pages. It returns the keys that were (or, in a dry
// run, would have been) archived.
func (r *Reconciler) deleteOrphaned(ctx context.Context, existing *model.Existing, seen sets.Set[string]) ([]string, error) {
	var archived []string

	for _, key := range sets.List(existing.Keys.Difference(seen)) {
		pageID := existing.IDs[key]
		log := logrus.WithFields(logrus.Fields{"key": key, "page": pageID})
		log.Info("Removing orphaned ticket")

		if r.dryRun {
			log.Info("[DRY RUN] Would archive ticket")
			archived = append(archived, key)
			continue
		}

		r.enter(PhaseApplying)
		err := r.destination.Archive(ctx, pageID, key)
		if err == nil {
			archived = append(archived, key)
			continue
		}
		if err := r.advisory(err, "Failed to archive ticket", logrus.Fields{"key": key}); err != nil {
			return archived, err
		}
	}

	for _, pageID := range existing.Duplicates {
		log := logrus.WithField("page", pageID)
		log.Info("Removing duplicate page")

		if r.dryRun {
			log.Info("[DRY RUN] Would archive duplicate page")
			continue
		}

		r.enter(PhaseApplying)
		if err := r.advisory(r.destination.Archive(ctx, pageID, ""), "Failed to archive duplicate page", logrus.Fields{"page": pageID}); err != nil {
			return archived, err
		}
	}

	return archived, nil
}

// advisory logs advisory errors and returns nil for them; other errors are returned as they are
func (r *Reconciler) advisory(err error, msg string, fields logrus.Fields) error {
	if err == nil {
		return nil
	}
	if !model.IsAdvisory(err) {
		return err
	}
	logrus.WithError(err).WithFields(fields).Warn(msg)
	return nil
}

// fail moves the pass to the errored phase and attempts a failure notification
func (r *Reconciler) fail(ctx context.Context, err error) {
	failedIn := r.phase
	r.enter(PhaseErrored)
	logrus.WithError(err).WithField("failed_in", failedIn).Error("Sync failed")

	if r.dryRun {
		return
	}

	detail := fmt.Sprintf("Jira → Notion sync failed during %s:\n\n%v\n", failedIn, err)
	if sendErr := r.notifier.SendFailure(context.WithoutCancel(ctx), notify.FailureSubject, detail); sendErr != nil {
		logrus.WithError(sendErr).Error("Failed to send error email")
	}
}

func (r *Reconciler) enter(phase Phase) {
	if r.phase == phase {
		return
	}
	r.phase = phase
	logrus.WithField("phase", phase).Debug("Entering phase")
}

func fieldNames(changes []model.FieldChange) string {
	names := make([]string, 0, len(changes))
	for _, c := range changes {
		names = append(names, c.Field)
	}
	return strings.Join(names, ", ")
}
