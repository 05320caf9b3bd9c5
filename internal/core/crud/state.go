// Package crud drives data-backed pages: list loading with the page-state
// machine, and create/edit dialogs whose failures are mapped onto form
// fields, notifications or the forbidden state.
package crud

// State is the load state of a data-driven page. Exactly one applies.
type State string

const (
	StateLoading   State = "loading"
	StateEmpty     State = "empty"
	StateError     State = "error"
	StateForbidden State = "forbidden"
	StateOK        State = "ok"
)

// Outcome is the result of a mutating action.
type Outcome string

const (
	OutcomeSaved          Outcome = "saved"
	OutcomeInvalid        Outcome = "invalid"
	OutcomeForbidden      Outcome = "forbidden"
	OutcomeFailed         Outcome = "failed"
	OutcomeSessionExpired Outcome = "session_expired"
)

// Hooks observe page activity. Nil fields are skipped.
type Hooks struct {
	Loaded         func(page string, s State)
	StaleDiscarded func(page string)
}

func (h Hooks) loaded(page string, s State) {
	if h.Loaded != nil {
		h.Loaded(page, s)
	}
}

func (h Hooks) stale(page string) {
	if h.StaleDiscarded != nil {
		h.StaleDiscarded(page)
	}
}
