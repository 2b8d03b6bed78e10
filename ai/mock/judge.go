package mock

import "context"

// MockJudge is a test double for ai.RelevanceJudge.
// It allows custom behavior injection via function fields.
type MockJudge struct {
	// IsRelevantFunc is called by IsRelevant if set.
	// If nil, every query is judged relevant.
	IsRelevantFunc func(ctx context.Context, query string) (bool, error)

	callCount int
}

// NewMockJudge creates a mock judge that answers yes for every query.
// Note: Returns concrete type to allow test assertions via GetMockJudge().
func NewMockJudge() *MockJudge {
	return &MockJudge{}
}

// IsRelevant returns the injected verdict, or true by default.
func (m *MockJudge) IsRelevant(ctx context.Context, query string) (bool, error) {
	m.callCount++

	if m.IsRelevantFunc != nil {
		return m.IsRelevantFunc(ctx, query)
	}
	return true, nil
}

// CallCount returns the number of times IsRelevant was called.
func (m *MockJudge) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockJudge) Reset() {
	m.callCount = 0
	m.IsRelevantFunc = nil
}
