package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/spigell/ats-scorer/internal/batch"
	"github.com/spigell/ats-scorer/internal/similarity"
)

func scored(resume, job string, resumeTerms, jobTerms []string) batch.Row {
	result := similarity.Compare(resumeTerms, jobTerms)
	return batch.Row{Resume: resume, JobDescription: job, Result: &result}
}

func fixtureRows() batch.Rows {
	return batch.Rows{
		scored("resumes/alice.docx", "jds/_backend.txt", []string{"python", "sql"}, []string{"python", "sql", "java"}),
		scored("resumes/alice.docx", "jds/_frontend.txt", []string{"python"}, []string{"react", "css"}),
		{Resume: "resumes/bob.pdf", JobDescription: "jds/_backend.txt", Err: errors.New("no text content found")},
		scored("resumes/carol.docx", "jds/_backend.txt", []string{"java", "python", "sql"}, []string{"python", "sql", "java"}),
		scored("resumes/carol.docx", "jds/_frontend.txt", []string{"css"}, []string{"react", "css"}),
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Format{
		"":      FormatTable,
		"TABLE": FormatTable,
		"json":  FormatJSON,
		"yml":   FormatYAML,
		" yaml": FormatYAML,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("csv")
	require.Error(t, err)
}

func TestPair(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(&buf, FormatTable, false).Pair(fixtureRows()[0])

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	assert.True(t, strings.HasPrefix(lines[0], "Resume alice.docx"))
	assert.Contains(t, lines[0], "| _backend.txt")
	assert.True(t, strings.HasSuffix(lines[0], "= 67% [strong]"), lines[0])
	assert.Equal(t, "  missing (1): java", lines[1])
	assert.Equal(t, "  common (2): python, sql", lines[2])
	assert.NotContains(t, buf.String(), "\x1b[", "colors must be off")
}

func TestPairFailedAndTiers(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := New(&buf, FormatTable, false)

	r.Pair(fixtureRows()[2])
	assert.Contains(t, buf.String(), "= error: no text content found")

	buf.Reset()
	r.Pair(fixtureRows()[1])
	assert.Contains(t, buf.String(), "= 0% [weak]")
	assert.Contains(t, buf.String(), "missing (2): css, react")
	assert.Contains(t, buf.String(), "common (0): -")

	buf.Reset()
	r.Pair(fixtureRows()[4])
	assert.Contains(t, buf.String(), "= 50% [borderline]")
}

func TestPairSilentForStructuredFormats(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := New(&buf, FormatJSON, false)
	r.Pair(fixtureRows()[0])
	r.Ranking(fixtureRows())

	assert.Empty(t, buf.String())
}

func TestSummaryTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, New(&buf, FormatTable, false).Summary(fixtureRows()))

	out := buf.String()
	for _, header := range SummaryHeaders {
		assert.Contains(t, out, header)
	}

	alice := strings.Index(out, "alice.docx")
	bob := strings.Index(out, "bob.pdf")
	carol := strings.Index(out, "carol.docx")
	require.True(t, alice >= 0 && bob >= 0 && carol >= 0)
	assert.True(t, alice < bob && bob < carol, "rows must keep processing order")

	assert.Contains(t, out, "error")
	assert.Contains(t, out, "67%")
	assert.Contains(t, out, "100%")
}

func TestSummaryRow(t *testing.T) {
	t.Parallel()

	rows := fixtureRows()
	assert.Equal(t, []string{"alice.docx", "_backend.txt", "67%", "1", "2"}, SummaryRow(rows[0]))
	assert.Equal(t, []string{"bob.pdf", "_backend.txt", "error", "-", "-"}, SummaryRow(rows[2]))
}

func TestSummaryJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, New(&buf, FormatJSON, false).Summary(fixtureRows()))

	var got summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, 5, got.Pairs)
	assert.Equal(t, 1, got.Failed)
	require.Len(t, got.Rows, 5)

	assert.Equal(t, "alice.docx", got.Rows[0].Resume)
	assert.Equal(t, 66.67, got.Rows[0].Similarity)
	assert.Equal(t, "strong", got.Rows[0].Tier)
	assert.Equal(t, []string{"java"}, got.Rows[0].Missing)

	assert.Equal(t, "no text content found", got.Rows[2].Error)
	assert.Empty(t, got.Rows[2].Tier)
}

func TestSummaryYAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, New(&buf, FormatYAML, false).Summary(fixtureRows()))

	var got summary
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))

	require.Len(t, got.Rows, 5)
	assert.Equal(t, "_frontend.txt", got.Rows[1].JobDescription)
	assert.Equal(t, []string{"css", "react"}, got.Rows[1].Missing)
	assert.Equal(t, float64(100), got.Rows[3].Similarity)
}

func TestRank(t *testing.T) {
	t.Parallel()

	rankings := Rank(fixtureRows())
	require.Len(t, rankings, 2)

	assert.Equal(t, "_backend.txt", rankings[0].JobName())
	require.Len(t, rankings[0].Rows, 2)
	assert.Equal(t, "carol.docx", rankings[0].Rows[0].ResumeName())
	assert.Equal(t, "alice.docx", rankings[0].Rows[1].ResumeName())

	assert.Equal(t, "_frontend.txt", rankings[1].JobName())
	assert.Equal(t, "carol.docx", rankings[1].Rows[0].ResumeName())
}

func TestRankingOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(&buf, FormatTable, false).Ranking(fixtureRows())

	out := buf.String()
	assert.Contains(t, out, "JD _backend.txt")
	assert.Contains(t, out, "1. carol.docx")
	assert.NotContains(t, out, "bob.pdf")
}

func TestDetail(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(&buf, FormatTable, false).Detail(fixtureRows()[0])

	out := buf.String()
	assert.Contains(t, out, "alice.docx vs _backend.txt")
	assert.Contains(t, out, "Missing (1):\n  - java\n")
	assert.Contains(t, out, "Common (2):\n  - python\n  - sql\n")
}
