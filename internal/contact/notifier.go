package contact

import (
	"context"
	"time"

	apperrors "github.com/conneroisu/vacuumassist/internal/errors"
	"github.com/conneroisu/vacuumassist/internal/logging"
)

// Request is the finalized contact request handed to a Notifier.
type Request struct {
	Email       string    `json:"email"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Notifier delivers a finalized request to whatever backend collects leads.
type Notifier interface {
	Notify(ctx context.Context, req Request) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, req Request) error

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, req Request) error {
	return f(ctx, req)
}

// NopNotifier accepts every request and does nothing with it.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(context.Context, Request) error { return nil }

// LogNotifier records each request in the structured log with the address masked.
type LogNotifier struct {
	logger logging.Logger
}

// NewLogNotifier creates a notifier that only logs.
func NewLogNotifier(logger logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.WithComponent("contact")}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(ctx context.Context, req Request) error {
	n.logger.Info(ctx, "Contact request received",
		"email", logging.MaskEmail(req.Email),
		"submitted_at", req.SubmittedAt.UTC().Format(time.RFC3339))
	return nil
}

// MultiNotifier fans a request out to several notifiers. Every notifier runs;
// their errors are combined.
type MultiNotifier struct {
	notifiers []Notifier
}

// NewMultiNotifier creates a notifier that delivers to all given notifiers.
func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers}
}

// Notify implements Notifier.
func (m *MultiNotifier) Notify(ctx context.Context, req Request) error {
	var errs []error
	for _, n := range m.notifiers {
		if n == nil {
			continue
		}
		errs = append(errs, n.Notify(ctx, req))
	}
	return apperrors.CombineErrors(errs...)
}
