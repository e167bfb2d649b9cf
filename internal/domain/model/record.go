// Package model implements the hydration and serialization contract shared by
// every domain record.
//
// A record embeds Base, declares its endpoint, name and rule table as methods
// of its type, binds its attributes to a Fields list, and is then driven by
// three package functions:
//
//	folder := model.Init(&entity.Folder{}, payload) // hydrate with defaults
//	model.Validate(folder)                          // recompute validation state
//	out := model.PrepareToSave(folder)              // plain payload
//
// Hydration never fails: absent, nil or malformed values are replaced by the
// field's declared default, so every attribute holds a concrete value after Init.
package model

// Record is implemented by every domain entity. APIEndpoint, ModelName and
// ValidationRules are fixed per type and must not depend on instance state.
// The validation state is promoted from an embedded Base, so only types
// embedding Base satisfy it.
type Record interface {
	APIEndpoint() string
	ModelName() string
	ValidationRules() Rules
	Fields() Fields
	IsValid() bool
	ValidationErrors() []string
	FailedRules(field string) []Rule
	FailedChecks(field string) []string
	base() *Base
}

// FieldError is a failed check that a rule table cannot express.
type FieldError struct {
	Field   string
	Message string
}

// ExtraValidator is implemented by records with checks beyond their rule
// table. Validate folds the returned fields into the validation state.
type ExtraValidator interface {
	ExtraValidation() []FieldError
}

// Base carries the validation state of a record. The zero value is ready to use.
type Base struct {
	isValid          bool
	validationErrors []string
	failed           map[string][]Rule
	checks           map[string][]string
}

func (b *Base) base() *Base { return b }

// IsValid reports the result of the last Validate call.
func (b *Base) IsValid() bool { return b.isValid }

// ValidationErrors returns the field names that failed the last Validate call.
func (b *Base) ValidationErrors() []string {
	out := make([]string, len(b.validationErrors))
	copy(out, b.validationErrors)
	return out
}

// GetValidatedErrorFields is an alias of ValidationErrors kept for callers
// that read the last error list by that name.
func (b *Base) GetValidatedErrorFields() []string {
	return b.ValidationErrors()
}

// FailedRules returns the rule tags field failed in the last Validate call.
func (b *Base) FailedRules(field string) []Rule {
	return append([]Rule(nil), b.failed[field]...)
}

// FailedChecks returns the messages of the extra checks field failed in the
// last Validate call.
func (b *Base) FailedChecks(field string) []string {
	return append([]string(nil), b.checks[field]...)
}

// Init hydrates every declared field of r from data and returns r itself.
// It mutates r in place; callers holding r observe the new values.
// data may be any value; non-objects are treated as an absent payload.
func Init[R Record](r R, data any) R {
	r.Fields().Hydrate(NewPayload(data))
	return r
}

// PrepareToSave returns a new plain payload describing the current state of
// r, with the declared defaults substituted for missing values. r is not
// modified.
func PrepareToSave(r Record) Payload {
	return r.Fields().Payload()
}
