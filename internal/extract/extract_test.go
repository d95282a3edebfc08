package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Kind{
		"":          KindFrequency,
		"frequency": KindFrequency,
		"  Gemini ": KindGemini,
		"FREQUENCY": KindFrequency,
	} {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseKind("lda")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lda")
}

func TestFrequencyRanksByCount(t *testing.T) {
	t.Parallel()

	text := "We build Go services. Go and Kubernetes run on AWS; Kubernetes clusters and Go tooling."

	got, err := NewFrequency(3, 0).Extract(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, []string{"go", "kubernetes", "build"}, got)
}

func TestFrequencyKeepsTechnologyTokens(t *testing.T) {
	t.Parallel()

	text := "Experience with C++, C#, Node.js and CI-CD. Salary 2024 in USD."

	got, err := NewFrequency(0, 0).Extract(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, []string{"experience", "c++", "c#", "node.js", "ci-cd", "salary", "usd"}, got)
}

func TestFrequencyEmptyText(t *testing.T) {
	t.Parallel()

	got, err := NewFrequency(10, 2).Extract(context.Background(), "  \n the and of ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFrequencyMinLength(t *testing.T) {
	t.Parallel()

	got, err := NewFrequency(10, 4).Extract(context.Background(), "Go SQL Rust Kafka")
	require.NoError(t, err)
	assert.Equal(t, []string{"rust", "kafka"}, got)
}

func TestCachedExtractsOncePerText(t *testing.T) {
	t.Parallel()

	calls := 0
	inner := Func(func(_ context.Context, text string) ([]string, error) {
		calls++
		return []string{text}, nil
	})

	cached := NewCached(inner, nil)
	ctx := context.Background()

	first, err := cached.Extract(ctx, "resume")
	require.NoError(t, err)
	first[0] = "mutated"

	second, err := cached.Extract(ctx, "resume")
	require.NoError(t, err)
	assert.Equal(t, []string{"resume"}, second)

	_, err = cached.Extract(ctx, "job")
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, cached.Len())
}

func TestCachedDoesNotCacheFailures(t *testing.T) {
	t.Parallel()

	calls := 0
	boom := errors.New("quota exceeded")
	inner := Func(func(context.Context, string) ([]string, error) {
		calls++
		if calls == 1 {
			return nil, boom
		}
		return []string{"go"}, nil
	})

	cached := NewCached(inner, nil)

	_, err := cached.Extract(context.Background(), "text")
	require.ErrorIs(t, err, boom)

	got, err := cached.Extract(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, got)
	assert.Equal(t, 2, calls)
}
