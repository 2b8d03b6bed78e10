// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.RelevanceJudge,
// ai.EventPlanner and ai.AIProvider for use in unit tests. The mocks allow
// tests to run without external AI service dependencies and enable controlled,
// deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	vector, err := mockProvider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	mockJudge := mock.NewMockJudge()
//	mockJudge.IsRelevantFunc = func(ctx context.Context, query string) (bool, error) {
//	    return false, nil
//	}
//
//	// Check call counts
//	count := mockJudge.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockEmbedder: Returns deterministic 768-dim vectors based on text hash
//   - MockJudge: Judges every query relevant
//   - MockPlanner: Returns a small canned set of events inside the window
//   - MockProvider: Aggregates mock embedder, judge and planner
package mock
