package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/commander-tracker/internal/dependencies/random"
)

// MockRandom returns queued strings in order, then numbered fallbacks
type MockRandom struct {
	mu            sync.Mutex
	StringResults []string
	stringIndex   int
	generated     int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// String returns the next queued result. Once the queue is empty it returns
// zero-padded sequence numbers of the requested length.
func (r *MockRandom) String(length int, _ string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stringIndex < len(r.StringResults) {
		result := r.StringResults[r.stringIndex]
		r.stringIndex++
		return result
	}
	r.generated++
	return fmt.Sprintf("%0*d", length, r.generated)
}

// QueueString adds values to the String result queue
func (r *MockRandom) QueueString(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.StringResults = append(r.StringResults, values...)
}
