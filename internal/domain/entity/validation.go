package entity

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Online-Ugyvitel/ddata-core/internal/domain/model"
)

// maxURILength defines the maximum allowed length for folder URIs.
const maxURILength = 2048

// Check validates r and returns a *RecordError describing every failing field,
// or nil when r is valid. The record's validation state is recomputed.
func Check(r model.Record) error {
	model.Validate(r)

	var fields []*ValidationError
	for _, name := range r.ValidationErrors() {
		if rules := r.FailedRules(name); len(rules) > 0 {
			fields = append(fields, &ValidationError{
				Field:   name,
				Message: "failed rules: " + joinRules(rules),
			})
		}
		for _, msg := range r.FailedChecks(name) {
			fields = append(fields, &ValidationError{Field: name, Message: msg})
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return &RecordError{Model: r.ModelName(), Fields: fields}
}

func joinRules(rules []model.Rule) string {
	parts := make([]string, len(rules))
	for i, r := range rules {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}

// ValidateURI validates a site-relative folder URI such as "/docs/reports".
// An empty URI is allowed. It returns a ValidationError when the URI is
// absolute, does not start with a slash, contains whitespace or is too long.
func ValidateURI(uri string) error {
	if uri == "" {
		return nil
	}

	if len(uri) > maxURILength {
		return &ValidationError{
			Field:   "uri",
			Message: fmt.Sprintf("uri must not exceed %d characters", maxURILength),
		}
	}

	if !strings.HasPrefix(uri, "/") || strings.HasPrefix(uri, "//") {
		return &ValidationError{Field: "uri", Message: "uri must be a site-relative path starting with '/'"}
	}

	if strings.ContainsAny(uri, " \t\r\n") {
		return &ValidationError{Field: "uri", Message: "uri must not contain whitespace"}
	}

	parsed, err := url.Parse(uri)
	if err != nil {
		return fmt.Errorf("parse URI: %w", err)
	}
	if parsed.Scheme != "" || parsed.Host != "" {
		return &ValidationError{Field: "uri", Message: "uri must not contain a scheme or host"}
	}

	return nil
}
