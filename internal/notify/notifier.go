// Package notify sends the sync summary and failure emails.
package notify

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/utils/clock"

	"github.com/petr-muller/jira-notion-sync/internal/model"
)

const (
	SummarySubject = "Jira → Notion Sync Summary"
	FailureSubject = "Jira-to-Notion sync failed"

	timestampLayout = "Monday, January 02 at 03:04 PM MST"
)

// Sender delivers a plain text message
type Sender interface {
	Send(ctx context.Context, subject, body string) error
}

// Policy decides whether a summary may be sent at a given time
type Policy struct {
	hours    sets.Set[int]
	location *time.Location
}

// NewPolicy allows notifications during the given hours of the day in location
func NewPolicy(hours []int, location *time.Location) Policy {
	if location == nil {
		location = time.UTC
	}
	return Policy{hours: sets.New(hours...), location: location}
}

// Allows returns true if t falls into one of the notification hours
func (p Policy) Allows(t time.Time) bool {
	return p.hours.Has(t.In(p.location).Hour())
}

// Location returns the time zone notifications are scheduled in
func (p Policy) Location() *time.Location {
	return p.location
}

// FormatTimestamp formats t the way it appears in emails and the marker block
func FormatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

// Notifier formats and sends the emails of a sync pass
type Notifier struct {
	sender    Sender
	policy    Policy
	clock     clock.PassiveClock
	browseURL func(key string) string
}

// NewNotifier creates a new notifier
func NewNotifier(sender Sender, policy Policy, clk clock.PassiveClock, browseURL func(key string) string) *Notifier {
	return &Notifier{
		sender:    sender,
		policy:    policy,
		clock:     clk,
		browseURL: browseURL,
	}
}

// InWindow returns true if now is a notification hour
func (n *Notifier) InWindow() bool {
	return n.policy.Allows(n.clock.Now())
}

// SendSummary sends the created and updated records of a report
func (n *Notifier) SendSummary(ctx context.Context, report *model.Report) error {
	body, err := RenderSummary(n.clock.Now().In(n.policy.Location()), report, n.browseURL)
	if err != nil {
		return model.Errorf(model.ErrNotification, err, "cannot render summary email")
	}

	if err := n.sender.Send(ctx, SummarySubject, body); err != nil {
		return model.Errorf(model.ErrNotification, err, "failed to send summary email")
	}

	logrus.Info("Summary email sent")
	return nil
}

// SendFailure sends the detail of a failed pass
func (n *Notifier) SendFailure(ctx context.Context, subject, detail string) error {
	if err := n.sender.Send(ctx, subject, detail); err != nil {
		return model.Errorf(model.ErrNotification, err, "failed to send error email")
	}

	logrus.Info("Error email sent")
	return nil
}
