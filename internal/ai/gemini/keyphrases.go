package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/ats-scorer/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Keyphrases extracts skill keyphrases from documents with a Gemini model.
type Keyphrases struct {
	generator contentGenerator
	maxTerms  int
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200
	defaultMaxTerms     = 100
	// Documents longer than this are cut before prompting.
	maxDocumentRunes = 30000
)

type keyphraseResponse struct {
	Keyphrases []string `mapstructure:"keyphrases"`
}

func NewKeyphrases(generator contentGenerator, maxTerms, maxLogLength int, logger *zap.Logger) *Keyphrases {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	if maxTerms <= 0 {
		maxTerms = defaultMaxTerms
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Keyphrases{
		generator: generator,
		maxTerms:  maxTerms,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Extract returns unique keyphrases in the order the model ranked them.
// Blank documents return no terms without calling the model.
func (k *Keyphrases) Extract(ctx context.Context, text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	if utf8.RuneCountInString(text) > maxDocumentRunes {
		text = string([]rune(text)[:maxDocumentRunes])
	}

	prompt := buildPrompt(text, k.maxTerms)

	k.logger.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, k.maxLogLen)),
	)

	raw, err := k.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	k.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, k.maxLogLen)),
	)

	phrases, err := parseKeyphrases(raw)
	if err != nil {
		return nil, err
	}

	phrases = cleanKeyphrases(phrases)
	if len(phrases) > k.maxTerms {
		phrases = phrases[:k.maxTerms]
	}

	return phrases, nil
}

func buildPrompt(document string, maxTerms int) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Return at most {{MAX_TERMS}} skill keyphrases as JSON {\"keyphrases\": []} for:\n{{DOCUMENT}}"
	}
	prompt := strings.ReplaceAll(template, "{{MAX_TERMS}}", strconv.Itoa(maxTerms))
	prompt = strings.ReplaceAll(prompt, "{{DOCUMENT}}", document)
	return prompt
}

// parseKeyphrases accepts either {"keyphrases": [...]} or a bare JSON array,
// optionally wrapped in a markdown code fence.
func parseKeyphrases(raw string) ([]string, error) {
	cleaned := extractJSON(raw)

	var data any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	if list, ok := data.([]any); ok {
		data = map[string]any{"keyphrases": list}
	}

	var resp keyphraseResponse
	if err := mapstructure.WeakDecode(data, &resp); err != nil {
		return nil, fmt.Errorf("decode gemini keyphrases: %w", err)
	}

	return resp.Keyphrases, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

// cleanKeyphrases trims entries, drops those without letters or digits and
// removes exact duplicates, keeping the first occurrence.
func cleanKeyphrases(phrases []string) []string {
	seen := make(map[string]struct{}, len(phrases))
	cleaned := make([]string, 0, len(phrases))

	for _, phrase := range phrases {
		phrase = strings.Join(strings.Fields(phrase), " ")
		if strings.IndexFunc(phrase, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) < 0 {
			continue
		}
		if _, ok := seen[phrase]; ok {
			continue
		}
		seen[phrase] = struct{}{}
		cleaned = append(cleaned, phrase)
	}

	return cleaned
}
