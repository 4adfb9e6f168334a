package workflow

import (
	"github.com/gss/competition-registration/pkg/models"
	"github.com/gss/competition-registration/pkg/validation"
)

// ViewState names the active view
type ViewState int

const (
	Form ViewState = iota
	Result
	Leaderboard
)

func (v ViewState) String() string {
	switch v {
	case Form:
		return "form"
	case Result:
		return "result"
	case Leaderboard:
		return "leaderboard"
	default:
		return "unknown"
	}
}

// View is the data owned by the active view. Exactly one variant is held by
// a Workflow at a time.
type View interface {
	State() ViewState
	clone() View
}

// FormView holds the values typed into the registration form
type FormView struct {
	Input       models.RegistrationInput
	FieldErrors validation.FieldErrors
}

// ResultView holds the registered user and their sharing link
type ResultView struct {
	User        models.UserRecord
	SharingLink string
}

// LeaderboardView holds the entries in rank order
type LeaderboardView struct {
	Entries []models.LeaderboardEntry
}

func (FormView) State() ViewState        { return Form }
func (ResultView) State() ViewState      { return Result }
func (LeaderboardView) State() ViewState { return Leaderboard }

func (f FormView) clone() View {
	if f.FieldErrors != nil {
		errs := make(validation.FieldErrors, len(f.FieldErrors))
		for k, v := range f.FieldErrors {
			errs[k] = v
		}
		f.FieldErrors = errs
	}
	return f
}

func (r ResultView) clone() View { return r }

func (l LeaderboardView) clone() View {
	l.Entries = append([]models.LeaderboardEntry(nil), l.Entries...)
	return l
}

// Empty reports whether the backend returned no ranked referrers
func (l LeaderboardView) Empty() bool {
	return len(l.Entries) == 0
}

// Snapshot is a consistent copy of a Workflow's state for rendering
type Snapshot struct {
	View  View
	Error string
	Busy  bool
	// ReferralCode is the value seeded from the inbound page parameter
	ReferralCode string
}
