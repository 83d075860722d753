package catalog

import (
	"context"
	"sync"
)

// Store defines the catalog index methods needed by Search.
// Satisfied by *store.Pizzas; narrow interface for testability.
type Store interface {
	// Range returns active pizzas whose name_insensitive lies in the
	// half-open range [start, end), ascending by name_insensitive.
	Range(ctx context.Context, start, end string) ([]Pizza, error)
}

// Search is one menu screen's search session. It owns the current query text
// and result set. Searches fire on focus and on explicit user action, never
// per keystroke; there is no debouncing and no automatic retry.
type Search struct {
	store Store

	mu      sync.Mutex
	query   string
	results []Pizza
}

// NewSearch creates a search session over the given catalog store.
func NewSearch(store Store) *Search {
	return &Search{store: store}
}

// Refresh reloads the full catalog. Called when the screen gains focus.
func (s *Search) Refresh(ctx context.Context) error {
	return s.Search(ctx, "")
}

// Search runs a prefix query and, on success, atomically replaces the result
// set. On failure the previous result set is kept so the screen never goes
// blank; the caller surfaces a single notice to the user.
func (s *Search) Search(ctx context.Context, query string) error {
	start, end := PrefixRange(query)

	pizzas, err := s.store.Range(ctx, start, end)
	if err != nil {
		return err
	}
	// The session may have been discarded (screen unmounted) while the
	// store call was in flight. Never mutate state for a dead session.
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.query = NormalizeQuery(query)
	s.results = pizzas
	s.mu.Unlock()
	return nil
}

// Clear resets the query and reloads the full catalog.
func (s *Search) Clear(ctx context.Context) error {
	return s.Search(ctx, "")
}

// Query returns the normalized query of the last successful search.
func (s *Search) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Results returns the current result set, ascending by name_insensitive.
func (s *Search) Results() []Pizza {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Pizza, len(s.results))
	copy(out, s.results)
	return out
}
