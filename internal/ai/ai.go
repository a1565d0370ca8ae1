// Package ai defines the provider-independent contract for extracting
// structured resume fields from plain text, plus the error taxonomy shared
// by every provider implementation.
package ai

import (
	"context"
	"errors"
)

// Field names of the resume record.
const (
	FieldName   = "name"
	FieldEmail  = "email"
	FieldSkills = "skills"
)

// Fields maps resume field names to their extracted values.
type Fields map[string]any

// Extractor derives one or more resume fields from raw resume text.
type Extractor interface {
	Extract(ctx context.Context, resumeText string) (Fields, error)
}

var (
	// ErrEmptyInput reports that the resume text was blank.
	ErrEmptyInput = errors.New("resume text is empty")
	// ErrEmptyResponse reports that the AI service returned no usable payload.
	ErrEmptyResponse = errors.New("ai service returned an empty response")
	// ErrMalformedResponse reports a payload that could not be parsed as JSON.
	ErrMalformedResponse = errors.New("ai service returned invalid JSON")
	// ErrIncompleteResponse reports a parsed payload missing expected keys.
	ErrIncompleteResponse = errors.New("ai response is missing expected fields")
	// ErrServiceUnavailable reports a retry budget exhausted on retryable failures.
	ErrServiceUnavailable = errors.New("ai service is temporarily unavailable")
	// ErrNetwork reports that the service could not be reached at all. Not retried.
	ErrNetwork = errors.New("network error contacting ai service")
	// ErrService reports a non-retryable request failure (auth, malformed request).
	ErrService = errors.New("ai service request failed")
)
