package mock

import (
	"context"
	"time"

	"github.com/sbercal/sbercal/ai"
)

// MockPlanner is a test double for ai.EventPlanner.
// It allows custom behavior injection via function fields.
type MockPlanner struct {
	// PlanEventsFunc is called by PlanEvents if set.
	// If nil, a small canned set of events inside [from, to] is returned.
	PlanEventsFunc func(ctx context.Context, from, to time.Time) ([]ai.PlannedEvent, error)

	callCount int
}

// NewMockPlanner creates a mock planner with canned default events.
// Note: Returns concrete type to allow test assertions via GetMockPlanner().
func NewMockPlanner() *MockPlanner {
	return &MockPlanner{}
}

// PlanEvents returns the injected plan, or two canned events within the window.
func (m *MockPlanner) PlanEvents(ctx context.Context, from, to time.Time) ([]ai.PlannedEvent, error) {
	m.callCount++

	if m.PlanEventsFunc != nil {
		return m.PlanEventsFunc(ctx, from, to)
	}

	return []ai.PlannedEvent{
		{
			Date:        from.AddDate(0, 0, 7).Format("2006-01-02"),
			Name:        "AI Meetup",
			City:        "Санкт-Петербург",
			Description: "Митап по машинному обучению",
		},
		{
			Date:        from.AddDate(0, 0, 30).Format("2006-01-02"),
			Name:        "SecConf",
			City:        "Калининград",
			Description: "Конференция по кибербезопасности",
		},
	}, nil
}

// CallCount returns the number of times PlanEvents was called.
func (m *MockPlanner) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockPlanner) Reset() {
	m.callCount = 0
	m.PlanEventsFunc = nil
}
