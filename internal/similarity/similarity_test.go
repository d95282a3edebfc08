package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		resume     []string
		job        []string
		percentage float64
		missing    []string
		common     []string
	}{
		{
			name:       "job description is the denominator",
			resume:     []string{"python", "sql"},
			job:        []string{"python", "sql", "java"},
			percentage: 200.0 / 3,
			missing:    []string{"java"},
			common:     []string{"python", "sql"},
		},
		{
			name:       "case insensitive",
			resume:     []string{"Python"},
			job:        []string{"python"},
			percentage: 100,
			missing:    []string{},
			common:     []string{"python"},
		},
		{
			name:       "empty job description",
			resume:     []string{"python"},
			job:        nil,
			percentage: 0,
			missing:    []string{},
			common:     []string{},
		},
		{
			name:       "empty resume",
			resume:     []string{},
			job:        []string{"python", "sql"},
			percentage: 0,
			missing:    []string{"python", "sql"},
			common:     []string{},
		},
		{
			name:       "duplicates collapse",
			resume:     []string{"Go", "go", "GO"},
			job:        []string{"go", "Go", "docker", "Docker"},
			percentage: 50,
			missing:    []string{"docker"},
			common:     []string{"go"},
		},
		{
			name:       "resume extras do not lower the score",
			resume:     []string{"go", "rust", "kafka", "redis"},
			job:        []string{"go"},
			percentage: 100,
			missing:    []string{},
			common:     []string{"go"},
		},
		{
			name:       "whitespace is not normalized",
			resume:     []string{" go"},
			job:        []string{"go"},
			percentage: 0,
			missing:    []string{"go"},
			common:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Compare(tt.resume, tt.job)

			assert.InDelta(t, tt.percentage, got.Percentage, 1e-9)
			assert.Equal(t, tt.missing, got.Missing)
			assert.Equal(t, tt.common, got.Common)
		})
	}
}

func TestComparePartition(t *testing.T) {
	t.Parallel()

	inputs := [][2][]string{
		{{"a", "B", "c"}, {"b", "C", "d", "E"}},
		{{}, {"x", "X", "y"}},
		{{"x"}, {}},
		{{"Straße"}, {"STRASSE", "go"}},
	}

	for _, in := range inputs {
		got := Compare(in[0], in[1])
		job := NewTermSet(in[1])

		union := make(map[string]int)
		for _, term := range got.Missing {
			union[term]++
		}
		for _, term := range got.Common {
			union[term]++
		}

		require.Len(t, union, job.Len(), "missing and common must cover the job set")
		for term, seen := range union {
			assert.Equal(t, 1, seen, "term %q must be in exactly one of missing/common", term)
			assert.True(t, job.Has(term), "term %q is not from the job set", term)
		}
	}
}

func TestCompareFullCaseFolding(t *testing.T) {
	t.Parallel()

	got := Compare([]string{"STRASSE"}, []string{"Straße"})

	assert.InDelta(t, 100, got.Percentage, 1e-9)
	assert.Equal(t, []string{"strasse"}, got.Common)
}

func TestCompareIsIdempotent(t *testing.T) {
	t.Parallel()

	resume := []string{"Kubernetes", "Go", "terraform"}
	job := []string{"go", "AWS", "kubernetes"}

	first := Compare(resume, job)
	second := Compare(resume, job)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"Kubernetes", "Go", "terraform"}, resume, "inputs must not be mutated")
}

func TestResultRounded(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 67, Result{Percentage: 200.0 / 3}.Rounded())
	assert.Equal(t, 33, Result{Percentage: 100.0 / 3}.Rounded())
	assert.Equal(t, 0, Result{}.Rounded())
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		percentage float64
		want       Tier
	}{
		{percentage: 100, want: TierStrong},
		{percentage: 50.0001, want: TierStrong},
		{percentage: 50, want: TierBorderline},
		{percentage: 40, want: TierBorderline},
		{percentage: 39.999, want: TierWeak},
		{percentage: 0, want: TierWeak},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.percentage), "percentage %v", tt.percentage)
	}
}

func TestTierString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "strong", TierStrong.String())
	assert.Equal(t, "borderline", TierBorderline.String())
	assert.Equal(t, "weak", TierWeak.String())
	assert.Equal(t, "borderline", Result{Percentage: 45}.Tier().String())
}
