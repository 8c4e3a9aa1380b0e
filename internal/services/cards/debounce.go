package cards

import (
	"context"
	"sync"
	"time"

	"github.com/mcoot/commander-tracker/internal/dependencies/clock"
)

// DefaultDebounceDelay is the quiet period after the last keystroke before a lookup is sent
const DefaultDebounceDelay = 300 * time.Millisecond

// Debouncer runs only the most recent of a burst of submissions, once the
// delay has passed without a newer one. Each submission gets a generation
// number so late results from superseded work can be discarded.
type Debouncer struct {
	clock clock.Clock
	delay time.Duration

	mu         sync.Mutex
	timer      clock.Timer
	generation uint64
}

// NewDebouncer creates a debouncer using the given clock and delay
func NewDebouncer(clk clock.Clock, delay time.Duration) *Debouncer {
	return &Debouncer{clock: clk, delay: delay}
}

// Submit cancels any pending work and schedules fn. It returns the new generation.
func (d *Debouncer) Submit(fn func(generation uint64)) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	gen := d.bump()
	d.timer = d.clock.AfterFunc(d.delay, func() {
		fn(gen)
	})
	return gen
}

// Cancel drops any pending work without scheduling more. It returns the new generation.
func (d *Debouncer) Cancel() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bump()
}

// IsCurrent reports whether generation is still the latest submission
func (d *Debouncer) IsCurrent(generation uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return generation == d.generation
}

// Stop cancels pending work. Results of work already running are no longer current.
func (d *Debouncer) Stop() {
	d.Cancel()
}

// bump must be called with mu held
func (d *Debouncer) bump() uint64 {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.generation++
	return d.generation
}

// Suggester turns a stream of partial queries into debounced suggestion lookups.
// onResult is only called with results for the latest query.
type Suggester struct {
	client    *Client
	debouncer *Debouncer
	onResult  func(query string, names []string)
}

// NewSuggester creates a suggester reporting results to onResult
func NewSuggester(client *Client, debouncer *Debouncer, onResult func(query string, names []string)) *Suggester {
	return &Suggester{client: client, debouncer: debouncer, onResult: onResult}
}

// Input records a new query. Queries too short to look up report an empty
// list straight away; longer ones are looked up after the debounce delay.
func (s *Suggester) Input(ctx context.Context, query string) {
	if !s.client.ShouldSuggest(query) {
		s.debouncer.Cancel()
		s.onResult(query, []string{})
		return
	}

	s.debouncer.Submit(func(gen uint64) {
		names := s.client.Suggest(ctx, query)
		if s.debouncer.IsCurrent(gen) {
			s.onResult(query, names)
		}
	})
}

// Stop cancels any pending lookup
func (s *Suggester) Stop() {
	s.debouncer.Stop()
}
