package order

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gopizza-pos/api/internal/routing"
)

// State is the submission machine's position.
type State string

const (
	StateDraft      State = "DRAFT"
	StateValidating State = "VALIDATING"
	StateSubmitting State = "SUBMITTING"
	StateSubmitted  State = "SUBMITTED"
)

// ErrSubmissionInFlight is returned when Submit is called while a previous
// submission has not finished. At most one order is created per
// user-initiated submission cycle.
var ErrSubmissionInFlight = errors.New("submission already in flight")

// Store defines the persistence method needed by Submission.
// Satisfied by *store.Orders; narrow interface for testability.
type Store interface {
	CreateOrder(ctx context.Context, o Order) (Order, error)
}

// Submission drives one draft from validation through persistence.
//
// Machine: Draft → Validating → Submitting → Submitted (terminal). A
// validation or store failure returns the machine to Draft with the entered
// values preserved, so the user retries without re-typing anything.
type Submission struct {
	draft    *Draft
	store    Store
	nav      routing.Navigator
	waiterID uuid.UUID

	// busy is the single-submission guard. Taken atomically on entry to
	// Submit; a second concurrent Submit is rejected. It stays set after a
	// successful submission, which navigates away and discards the screen.
	busy atomic.Bool

	mu    sync.Mutex
	state State
}

// NewSubmission creates a submission for draft. nav may be nil when the
// caller owns navigation (e.g. the HTTP handler).
func NewSubmission(draft *Draft, store Store, nav routing.Navigator, waiterID uuid.UUID) *Submission {
	return &Submission{
		draft:    draft,
		store:    store,
		nav:      nav,
		waiterID: waiterID,
		state:    StateDraft,
	}
}

// State returns the machine's current position.
func (s *Submission) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Submission) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Submit validates the draft and persists the snapshot. Exactly one
// user-facing error is returned per attempt: the first failing validation
// check, or the store failure. On success it navigates to the home screen
// and returns the persisted order.
func (s *Submission) Submit(ctx context.Context) (Order, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return Order{}, ErrSubmissionInFlight
	}

	s.setState(StateValidating)
	if err := s.draft.Validate(); err != nil {
		s.setState(StateDraft)
		s.busy.Store(false)
		return Order{}, err
	}

	s.setState(StateSubmitting)
	created, err := s.store.CreateOrder(ctx, s.draft.Snapshot(s.waiterID))
	if err != nil {
		// Draft fields are untouched; the user may retry.
		s.setState(StateDraft)
		s.busy.Store(false)
		return Order{}, fmt.Errorf("create order: %w", err)
	}

	s.setState(StateSubmitted)
	if s.nav != nil {
		s.nav.Navigate(routing.ScreenHome, routing.Params{})
	}
	return created, nil
}
