package factory

import (
	"time"

	"github.com/mcoot/commander-tracker/internal/dependencies/mocks"
	"github.com/mcoot/commander-tracker/internal/services/cards"
	"github.com/mcoot/commander-tracker/internal/storage/memory"
	"github.com/mcoot/commander-tracker/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App with in-memory storage and mocked dependencies.
// The card client points at the default base URL and is not expected to be called.
func NewTestApp() *TestApp {
	return NewTestAppWithCards(cards.DefaultConfig())
}

// NewTestAppWithCards is NewTestApp with the card client aimed at a fake server
func NewTestAppWithCards(cardsCfg cards.Config) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, cardsCfg, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
