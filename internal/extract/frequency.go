package extract

import (
	"context"
	"sort"
	"strings"
	"unicode"
)

const defaultMinTermLength = 2

// Frequency extracts the most frequent non stop-word tokens of a text.
type Frequency struct {
	maxTerms  int
	minLength int
}

// NewFrequency creates a frequency extractor returning at most maxTerms terms
// of at least minLength runes. Non-positive values fall back to defaults.
func NewFrequency(maxTerms, minLength int) *Frequency {
	if maxTerms <= 0 {
		maxTerms = DefaultMaxTerms
	}
	if minLength <= 0 {
		minLength = defaultMinTermLength
	}

	return &Frequency{maxTerms: maxTerms, minLength: minLength}
}

// Extract never fails; ctx is accepted to satisfy Extractor.
func (f *Frequency) Extract(_ context.Context, text string) ([]string, error) {
	type counted struct {
		term  string
		count int
		first int
	}

	index := make(map[string]*counted)
	var order []*counted

	for _, token := range tokenize(text) {
		if !f.keep(token) {
			continue
		}

		if c, ok := index[token]; ok {
			c.count++
			continue
		}

		c := &counted{term: token, count: 1, first: len(order)}
		index[token] = c
		order = append(order, c)
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].count != order[j].count {
			return order[i].count > order[j].count
		}
		return order[i].first < order[j].first
	})

	if len(order) > f.maxTerms {
		order = order[:f.maxTerms]
	}

	terms := make([]string, 0, len(order))
	for _, c := range order {
		terms = append(terms, c.term)
	}

	return terms, nil
}

func (f *Frequency) keep(token string) bool {
	if len([]rune(token)) < f.minLength {
		return false
	}
	if stopwords[token] {
		return false
	}

	return strings.IndexFunc(token, func(r rune) bool { return !unicode.IsDigit(r) }) >= 0
}

// tokenize lowercases text and splits it into tokens. Symbols that commonly
// belong to technology names ("c++", "c#", "node.js", "ci-cd") stay inside
// tokens; dots and dashes at token edges are dropped.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
		switch r {
		case '+', '#', '.', '-':
			return false
		}
		return true
	})

	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		field = strings.Trim(field, ".-")
		if field == "" {
			continue
		}
		tokens = append(tokens, field)
	}

	return tokens
}
