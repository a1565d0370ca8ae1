package resume

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cvkit/resume-parser/internal/ai"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrSchemaMismatch reports a field set that does not exactly match the
// record's required fields.
var ErrSchemaMismatch = errors.New("extracted fields do not match the resume schema")

// fieldOrder fixes the iteration order for per-field extraction so failures
// aggregate deterministically.
var fieldOrder = []string{ai.FieldName, ai.FieldEmail, ai.FieldSkills}

// Assemble merges extracted field values into a Record. The field set must
// contain exactly the record's required fields, nothing more and nothing less.
func Assemble(fields ai.Fields) (*Record, error) {
	var missing, extra []string

	for _, field := range fieldOrder {
		if _, ok := fields[field]; !ok {
			missing = append(missing, field)
		}
	}

	for field := range fields {
		if !isRequiredField(field) {
			extra = append(extra, field)
		}
	}

	if len(missing) > 0 || len(extra) > 0 {
		sort.Strings(extra)
		return nil, fmt.Errorf("%w: missing [%s], unexpected [%s]",
			ErrSchemaMismatch, strings.Join(missing, ", "), strings.Join(extra, ", "))
	}

	var record Record
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &record,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("building record decoder: %w", err)
	}

	if err := decoder.Decode(map[string]any(fields)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}

	return &record, nil
}

func isRequiredField(field string) bool {
	for _, required := range fieldOrder {
		if field == required {
			return true
		}
	}

	return false
}

// PartialExtractionError aggregates every per-field extraction failure of a
// multi-extractor run. Fields holds the failed field names in extraction order.
type PartialExtractionError struct {
	Fields []string
	err    error
}

func (e *PartialExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for fields [%s]: %v",
		strings.Join(e.Fields, ", "), e.err)
}

func (e *PartialExtractionError) Unwrap() error {
	return e.err
}

// MultiExtractor runs one extractor per resume field. Every field is
// attempted even when an earlier one fails; failures are reported together.
type MultiExtractor struct {
	extractors map[string]ai.Extractor
	logger     *zap.Logger
}

// NewMultiExtractor builds a MultiExtractor from per-field extractors. An
// extractor is required for every record field.
func NewMultiExtractor(extractors map[string]ai.Extractor, logger *zap.Logger) (*MultiExtractor, error) {
	for _, field := range fieldOrder {
		if _, ok := extractors[field]; !ok {
			return nil, fmt.Errorf("no extractor registered for field %q", field)
		}
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &MultiExtractor{extractors: extractors, logger: logger}, nil
}

// Extract runs each field's extractor independently and merges the results.
// When at least one field fails, all collected failures are returned as a
// single *PartialExtractionError and no fields are returned.
func (m *MultiExtractor) Extract(ctx context.Context, resumeText string) (ai.Fields, error) {
	fields := make(ai.Fields, len(fieldOrder))

	var failed []string
	var errs error

	for _, field := range fieldOrder {
		values, err := m.extractors[field].Extract(ctx, resumeText)
		if err != nil {
			m.logger.Warn("field extraction failed",
				zap.String("field", field),
				zap.Error(err),
			)
			failed = append(failed, field)
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", field, err))
			continue
		}

		fields[field] = values[field]
	}

	if errs != nil {
		return nil, &PartialExtractionError{Fields: failed, err: errs}
	}

	return fields, nil
}
