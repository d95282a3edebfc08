package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldRunID is the structured log field key for the batch run identifier.
	FieldRunID = "run_id"
	// FieldExtractor is the structured log field key for the term extractor kind.
	FieldExtractor = "extractor"
	// FieldModel is the structured log field key for the extraction model identifier.
	FieldModel = "model"
	// FieldResume is the structured log field key for a résumé path.
	FieldResume = "resume"
	// FieldJobDescription is the structured log field key for a job description path.
	FieldJobDescription = "job_description"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// A nil logger is replaced with a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// ExtractorFields returns fields describing the term extractor and its model.
// Empty values are ignored; the frequency extractor has no model.
func ExtractorFields(kind, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldExtractor, Value: kind},
		StringField{Key: FieldModel, Value: model},
	)
}

// PairFields returns fields identifying one résumé and job description pair.
func PairFields(resume, jobDescription string) []zap.Field {
	return StringFields(
		StringField{Key: FieldResume, Value: resume},
		StringField{Key: FieldJobDescription, Value: jobDescription},
	)
}

// WithRun attaches the run identifier and extractor fields to the logger.
func WithRun(logger *zap.Logger, runID, kind, model string) *zap.Logger {
	fields := StringFields(StringField{Key: FieldRunID, Value: runID})
	fields = append(fields, ExtractorFields(kind, model)...)
	return WithFields(logger, fields...)
}
