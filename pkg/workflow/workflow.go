// Package workflow implements the registration page state machine: the form,
// the referral result and the leaderboard, with exactly one active at a time.
package workflow

import (
	"context"
	"errors"
	"sync"

	"github.com/gss/competition-registration/pkg/models"
	"github.com/gss/competition-registration/pkg/services"
	"github.com/gss/competition-registration/pkg/validation"
)

var (
	// ErrBusy is returned while a registration or leaderboard request is in flight
	ErrBusy = errors.New("another request is in progress")
	// ErrUnavailable is returned when an action is not valid in the active view
	ErrUnavailable = errors.New("action not available in the current view")
)

// Page-level messages
const (
	RegistrationFailedMessage = "Registration failed. Please try again."
	LeaderboardFailedMessage  = "Could not load the leaderboard. Please try again."
)

// Actions named in failure reports
const (
	ActionRegister         = "register"
	ActionFetchLeaderboard = "fetch leaderboard"
	ActionCopySharingLink  = "copy sharing link"
)

// Clipboard receives the sharing link when the user copies it
type Clipboard interface {
	Copy(text string) error
}

// Reporter receives failures the workflow handles on the user's behalf
type Reporter interface {
	Report(ctx context.Context, action string, err error)
}

type nopClipboard struct{}

func (nopClipboard) Copy(string) error { return nil }

type nopReporter struct{}

func (nopReporter) Report(context.Context, string, error) {}

// Option configures a Workflow
type Option func(*Workflow)

// WithClipboard sets the clipboard used by CopySharingLink
func WithClipboard(c Clipboard) Option {
	return func(w *Workflow) { w.clipboard = c }
}

// WithReporter sets where handled failures are reported
func WithReporter(r Reporter) Option {
	return func(w *Workflow) { w.reporter = r }
}

// Workflow is safe for concurrent use. While a network action is in flight
// every other mutating action fails with ErrBusy; Navigate is always allowed.
type Workflow struct {
	registration services.RegistrationService
	leaderboard  services.LeaderboardService
	clipboard    Clipboard
	reporter     Reporter

	mu           sync.Mutex
	view         View
	pageError    string
	baseURL      string
	referralCode string
	busy         bool
}

// New returns a Workflow showing an empty form
func New(registration services.RegistrationService, leaderboard services.LeaderboardService, opts ...Option) *Workflow {
	w := &Workflow{
		registration: registration,
		leaderboard:  leaderboard,
		clipboard:    nopClipboard{},
		reporter:     nopReporter{},
		view:         FormView{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Navigate records the page the workflow is rendered on. The referral code in
// the page query re-seeds the form's referral field; other typed values and
// the active view are left alone.
func (w *Workflow) Navigate(pageURL string) error {
	base, code, err := parsePage(pageURL)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.baseURL = base
	w.referralCode = code
	if form, ok := w.view.(FormView); ok {
		form.Input.ReferralCode = code
		w.view = form
	}
	return nil
}

// HasPage reports whether Navigate has recorded a page yet
func (w *Workflow) HasPage() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.baseURL != ""
}

// Submit validates the input and registers the user. Invalid input returns
// validation.FieldErrors without touching the network. A failed registration
// keeps the form and its values and sets the page error. The seeded referral
// code wins over the posted one; a posted code is only taken, and becomes the
// seed, when the page carried none.
func (w *Workflow) Submit(ctx context.Context, input models.RegistrationInput) error {
	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return ErrBusy
	}
	if _, ok := w.view.(FormView); !ok {
		w.mu.Unlock()
		return ErrUnavailable
	}

	if w.referralCode == "" {
		w.referralCode = input.ReferralCode
	}
	input.ReferralCode = w.referralCode
	if errs := validation.Validate(input); errs != nil {
		w.view = FormView{Input: input, FieldErrors: errs}
		w.pageError = ""
		w.mu.Unlock()
		return errs
	}

	w.view = FormView{Input: input}
	w.busy = true
	w.mu.Unlock()

	user, err := w.registration.Register(ctx, input)

	w.mu.Lock()
	w.busy = false
	if err != nil {
		w.pageError = RegistrationFailedMessage
		w.mu.Unlock()
		w.reporter.Report(ctx, ActionRegister, err)
		return err
	}
	w.view = ResultView{
		User:        user,
		SharingLink: SharingLink(w.baseURL, user.ReferralCode),
	}
	w.pageError = ""
	w.mu.Unlock()
	return nil
}

// FinishCompetition loads the leaderboard. On failure the active view is
// kept and the page error is set.
func (w *Workflow) FinishCompetition(ctx context.Context) error {
	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return ErrBusy
	}
	if _, ok := w.view.(FormView); !ok {
		w.mu.Unlock()
		return ErrUnavailable
	}
	w.busy = true
	w.mu.Unlock()

	entries, err := w.leaderboard.FetchLeaderboard(ctx)

	w.mu.Lock()
	w.busy = false
	if err != nil {
		w.pageError = LeaderboardFailedMessage
		w.mu.Unlock()
		w.reporter.Report(ctx, ActionFetchLeaderboard, err)
		return err
	}
	w.view = LeaderboardView{Entries: entries}
	w.pageError = ""
	w.mu.Unlock()
	return nil
}

// Reset returns to an empty form seeded with the current referral code and
// drops the user, the sharing link, the leaderboard and any errors.
func (w *Workflow) Reset() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.busy {
		return ErrBusy
	}
	w.view = FormView{Input: models.RegistrationInput{ReferralCode: w.referralCode}}
	w.pageError = ""
	return nil
}

// CopySharingLink copies the sharing link to the clipboard. Clipboard
// failures are reported and otherwise ignored.
func (w *Workflow) CopySharingLink(ctx context.Context) error {
	w.mu.Lock()
	result, ok := w.view.(ResultView)
	busy := w.busy
	w.mu.Unlock()

	if busy {
		return ErrBusy
	}
	if !ok {
		return ErrUnavailable
	}

	if err := w.clipboard.Copy(result.SharingLink); err != nil {
		w.reporter.Report(ctx, ActionCopySharingLink, err)
	}
	return nil
}

// State returns a copy of the current state
func (w *Workflow) State() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	return Snapshot{
		View:         w.view.clone(),
		Error:        w.pageError,
		Busy:         w.busy,
		ReferralCode: w.referralCode,
	}
}
