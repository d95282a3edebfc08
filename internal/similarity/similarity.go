// Package similarity scores how much of a job description's term set is
// covered by a résumé's term set.
package similarity

import (
	"math"
	"sort"

	"golang.org/x/text/cases"
)

// TermSet is a set of case-folded terms.
type TermSet map[string]struct{}

// NewTermSet folds every term and collapses duplicates. No other normalization
// is applied: surrounding whitespace and punctuation are kept as is.
func NewTermSet(terms []string) TermSet {
	folder := cases.Fold()

	set := make(TermSet, len(terms))
	for _, term := range terms {
		set[folder.String(term)] = struct{}{}
	}

	return set
}

func (s TermSet) Len() int {
	return len(s)
}

// Has reports whether the already folded term is in the set.
func (s TermSet) Has(term string) bool {
	_, ok := s[term]
	return ok
}

// Sorted returns the terms in ascending order.
func (s TermSet) Sorted() []string {
	terms := make([]string, 0, len(s))
	for term := range s {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	return terms
}

// Result holds the outcome of comparing a résumé against a job description.
type Result struct {
	// Percentage is the share of job description terms found in the résumé, in [0, 100].
	Percentage float64 `json:"similarity" yaml:"similarity"`
	// Missing lists job description terms absent from the résumé.
	Missing []string `json:"missing" yaml:"missing"`
	// Common lists terms present in both documents.
	Common []string `json:"common" yaml:"common"`
}

// Rounded returns the percentage rounded to the nearest integer.
func (r Result) Rounded() int {
	return int(math.Round(r.Percentage))
}

// Tier classifies the unrounded percentage.
func (r Result) Tier() Tier {
	return Classify(r.Percentage)
}

// Compare measures overlap between résumé terms and job description terms.
// The job description set is the denominator: the score is the recall of job
// description terms, not a symmetric index. An empty job description set
// scores 0.
func Compare(resumeTerms, jobTerms []string) Result {
	resumeSet := NewTermSet(resumeTerms)
	jobSet := NewTermSet(jobTerms)

	common := make(TermSet)
	missing := make(TermSet)
	for term := range jobSet {
		if resumeSet.Has(term) {
			common[term] = struct{}{}
			continue
		}
		missing[term] = struct{}{}
	}

	var percentage float64
	if jobSet.Len() > 0 {
		percentage = 100 * float64(common.Len()) / float64(jobSet.Len())
	}

	return Result{
		Percentage: percentage,
		Missing:    missing.Sorted(),
		Common:     common.Sorted(),
	}
}
