// Package contact holds the state of the "Request demo" form: the email a
// visitor is typing and whether the request has been submitted.
//
// The form has two states. It starts in Editing and moves to Submitted once,
// when Submit is called with a value that passes the email gate. Submitted is
// terminal: later SetEmail and Submit calls leave the form untouched.
package contact

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/conneroisu/vacuumassist/internal/errors"
	"github.com/conneroisu/vacuumassist/internal/logging"
	"github.com/conneroisu/vacuumassist/internal/validation"
)

// State is the position of a Form in its two-state lifecycle.
type State int

const (
	StateEditing State = iota
	StateSubmitted
)

// String returns the string representation of the State
func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// ErrInvalidEmail is returned by Submit when the current value is empty or not
// a syntactically valid address. The form stays in Editing.
var ErrInvalidEmail = apperrors.NewValidationError(
	apperrors.ErrCodeInvalidEmail,
	"email address is empty or malformed",
)

// Snapshot is an immutable copy of a form's state, safe to hand to renderers.
type Snapshot struct {
	Email     string
	Submitted bool
}

// State derives the lifecycle state of the snapshot.
func (s Snapshot) State() State {
	if s.Submitted {
		return StateSubmitted
	}
	return StateEditing
}

// Form is one visitor's contact request. It is safe for concurrent use.
type Form struct {
	mu          sync.Mutex
	email       string
	submitted   bool
	submittedAt time.Time

	notifier Notifier
	logger   logging.Logger
	now      func() time.Time
}

// Option configures a Form.
type Option func(*Form)

// WithNotifier sets the hook invoked once on the Editing -> Submitted transition.
func WithNotifier(n Notifier) Option {
	return func(f *Form) {
		if n != nil {
			f.notifier = n
		}
	}
}

// WithLogger sets the logger used to report notifier failures.
func WithLogger(l logging.Logger) Option {
	return func(f *Form) {
		if l != nil {
			f.logger = l.WithComponent("contact")
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(f *Form) {
		if now != nil {
			f.now = now
		}
	}
}

// NewForm creates a form in the Editing state with an empty email.
func NewForm(opts ...Option) *Form {
	f := &Form{
		notifier: NopNotifier{},
		logger:   logging.NewNopLogger(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SetEmail replaces the current value with exactly what the visitor typed.
// No validation happens here. Ignored once the form is submitted.
func (f *Form) SetEmail(value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.submitted {
		return
	}
	f.email = value
}

// Submit finalizes the request if the current value passes the email gate.
//
// It returns ErrInvalidEmail without changing state when the value is empty or
// malformed. On success the form becomes Submitted and the notifier runs once;
// a notifier failure is logged and does not undo the transition. The boolean
// is true only for the call that made the transition, so calling Submit on a
// submitted form returns false and a nil error.
func (f *Form) Submit(ctx context.Context) (bool, error) {
	f.mu.Lock()
	if f.submitted {
		f.mu.Unlock()
		return false, nil
	}
	if !validation.ValidEmail(f.email) {
		f.mu.Unlock()
		return false, ErrInvalidEmail
	}

	f.submitted = true
	f.submittedAt = f.now()
	req := Request{
		Email:       validation.SanitizeEmail(f.email),
		SubmittedAt: f.submittedAt,
	}
	f.mu.Unlock()

	if err := f.notifier.Notify(ctx, req); err != nil {
		fields := []interface{}{"email", logging.MaskEmail(req.Email)}
		for k, v := range apperrors.GetErrorContext(err) {
			fields = append(fields, k, v)
		}
		if apperrors.IsRecoverable(err) {
			f.logger.Warn(ctx, err, "Contact request notification failed", fields...)
		} else {
			f.logger.Error(ctx, err, "Contact request notification failed", fields...)
		}
	}

	return true, nil
}

// Snapshot returns a copy of the current state.
func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot{Email: f.email, Submitted: f.submitted}
}

// State returns the current lifecycle state.
func (f *Form) State() State {
	return f.Snapshot().State()
}

// SubmittedAt returns when the form was submitted, or the zero time.
func (f *Form) SubmittedAt() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submittedAt
}
