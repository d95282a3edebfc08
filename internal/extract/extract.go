// Package extract turns document text into candidate keyword or skill terms.
package extract

import (
	"context"
	"fmt"
	"strings"
)

// Kind selects a term extraction strategy.
type Kind string

const (
	// KindFrequency ranks stop-word filtered tokens by frequency and keeps a fixed number of them.
	KindFrequency Kind = "frequency"
	// KindGemini asks a Gemini model for skill keyphrases.
	KindGemini Kind = "gemini"
)

// DefaultMaxTerms mirrors the fixed term count used for both résumés and job descriptions.
const DefaultMaxTerms = 100

// Extractor produces terms for a text. Output is not normalized; callers that
// compare terms must fold case themselves.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]string, error)
}

// Func adapts a function to the Extractor interface.
type Func func(ctx context.Context, text string) ([]string, error)

func (f Func) Extract(ctx context.Context, text string) ([]string, error) {
	return f(ctx, text)
}

// ParseKind validates a configured extractor name. An empty name selects KindFrequency.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindFrequency:
		return KindFrequency, nil
	case KindGemini:
		return KindGemini, nil
	default:
		return "", fmt.Errorf("unsupported extractor: %q (use %s or %s)", s, KindFrequency, KindGemini)
	}
}

// UnmarshalText lets configuration decoders validate the extractor name.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
