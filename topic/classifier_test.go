package topic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sbercal/sbercal/ai/mock"
	"github.com/stretchr/testify/assert"
)

func TestClassifierFastPaths(t *testing.T) {
	ctx := context.Background()

	t.Run("city mention skips the judge", func(t *testing.T) {
		judge := mock.NewMockJudge()
		c := NewClassifier(judge)

		assert.True(t, c.IsOnTopic(ctx, "что проходит в Мурманске?"))
		assert.Zero(t, judge.CallCount())
	})

	t.Run("numeric date skips the judge", func(t *testing.T) {
		judge := mock.NewMockJudge()
		c := NewClassifier(judge)

		assert.True(t, c.IsOnTopic(ctx, "что будет 15.06?"))
		assert.Zero(t, judge.CallCount())
	})

	t.Run("near-term year skips the judge", func(t *testing.T) {
		judge := mock.NewMockJudge()
		c := NewClassifier(judge)

		assert.True(t, c.IsOnTopic(ctx, "планы на 2025 год"))
		assert.Zero(t, judge.CallCount())
	})

	t.Run("tokens glued to words do not trigger the fast path", func(t *testing.T) {
		judge := mock.NewMockJudge()
		judge.IsRelevantFunc = func(ctx context.Context, query string) (bool, error) {
			return false, nil
		}
		c := NewClassifier(judge)

		// A Cyrillic letter is a word character; year and day.month tokens
		// embedded in a word are not date signals.
		assert.False(t, c.IsOnTopic(ctx, "конференция2025"))
		assert.False(t, c.IsOnTopic(ctx, "версия15.06 пакета"))
		assert.Equal(t, 2, judge.CallCount())
	})
}

func TestClassifierJudge(t *testing.T) {
	ctx := context.Background()

	t.Run("judge verdict is respected", func(t *testing.T) {
		judge := mock.NewMockJudge()
		judge.IsRelevantFunc = func(ctx context.Context, query string) (bool, error) {
			return false, nil
		}
		c := NewClassifier(judge)

		assert.False(t, c.IsOnTopic(ctx, "как приготовить борщ?"))
		assert.Equal(t, 1, judge.CallCount())
	})

	t.Run("judge error fails open", func(t *testing.T) {
		judge := mock.NewMockJudge()
		judge.IsRelevantFunc = func(ctx context.Context, query string) (bool, error) {
			return false, errors.New("connection refused")
		}
		c := NewClassifier(judge)

		assert.True(t, c.IsOnTopic(ctx, "как приготовить борщ?"))
	})

	t.Run("judge timeout fails open", func(t *testing.T) {
		judge := mock.NewMockJudge()
		judge.IsRelevantFunc = func(ctx context.Context, query string) (bool, error) {
			<-ctx.Done()
			return false, ctx.Err()
		}
		c := NewClassifier(judge, WithTimeout(10*time.Millisecond))

		assert.True(t, c.IsOnTopic(ctx, "как приготовить борщ?"))
	})

	t.Run("nil judge lets everything through", func(t *testing.T) {
		c := NewClassifier(nil)
		assert.True(t, c.IsOnTopic(ctx, "как приготовить борщ?"))
	})
}
