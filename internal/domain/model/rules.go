package model

import (
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Rule is a declarative validation tag.
type Rule string

const (
	RuleRequired Rule = "required"
	RuleInteger  Rule = "integer"
	RuleNumber   Rule = "number"
	RuleString   Rule = "string"
	RuleBoolean  Rule = "boolean"
	RuleNullable Rule = "nullable"
)

// FieldRules lists the tags of one field in evaluation order.
type FieldRules struct {
	Field string
	Tags  []Rule
}

// Rules maps field names to their tags, preserving declaration order.
type Rules []FieldRules

// Add returns r extended with the tags for field.
func (r Rules) Add(field string, tags ...Rule) Rules {
	return append(r, FieldRules{Field: field, Tags: tags})
}

// For returns the tags declared for field.
func (r Rules) For(field string) []Rule {
	for _, fr := range r {
		if fr.Field == field {
			return fr.Tags
		}
	}
	return nil
}

// validator tags backing each rule; nullable is handled separately.
var ruleTags = map[Rule]string{
	RuleRequired: "required",
	RuleInteger:  "ddata_integer",
	RuleNumber:   "ddata_number",
	RuleString:   "ddata_string",
	RuleBoolean:  "ddata_boolean",
}

var (
	sharedOnce      sync.Once
	sharedValidator *validator.Validate
)

func shared() *validator.Validate {
	sharedOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("ddata_integer", isInteger)
		_ = v.RegisterValidation("ddata_number", isNumber)
		_ = v.RegisterValidation("ddata_string", isKind(reflect.String))
		_ = v.RegisterValidation("ddata_boolean", isKind(reflect.Bool))
		sharedValidator = v
	})
	return sharedValidator
}

// Check evaluates tags against value and returns the tags that failed.
// Unknown tags are ignored. With RuleNullable, an empty value passes every tag.
func Check(value any, tags []Rule) []Rule {
	nullable := false
	known := make([]Rule, 0, len(tags))
	for _, t := range tags {
		if t == RuleNullable {
			nullable = true
			continue
		}
		if _, ok := ruleTags[t]; ok {
			known = append(known, t)
		}
	}

	var failed []Rule
	v := shared()
	for _, t := range known {
		tag := ruleTags[t]
		if nullable {
			tag = "omitempty," + tag
		}
		if err := v.Var(value, tag); err != nil {
			failed = append(failed, t)
		}
	}
	return failed
}

func isInteger(fl validator.FieldLevel) bool {
	f := fl.Field()
	switch f.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	case reflect.Float32, reflect.Float64:
		x := f.Float()
		return !math.IsInf(x, 0) && x == math.Trunc(x)
	default:
		return false
	}
}

func isNumber(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func isKind(k reflect.Kind) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() == k
	}
}

// Validate recomputes the validation state of r from its rule table and, when
// r is an ExtraValidator, its extra checks. It returns the new IsValid value.
// Only the validation state is modified.
func Validate(r Record) bool {
	b := r.base()
	fields := r.Fields()
	errs := []string{}
	failed := map[string][]Rule{}

	for _, fr := range r.ValidationRules() {
		var value any
		if f, ok := fields.Get(fr.Field); ok {
			value = f.validationValue()
		} else {
			// undeclared fields can only fail RuleRequired
			if hasRule(fr.Tags, RuleRequired) && !hasRule(fr.Tags, RuleNullable) {
				failed[fr.Field] = []Rule{RuleRequired}
				errs = append(errs, fr.Field)
			}
			continue
		}
		if bad := Check(value, fr.Tags); len(bad) > 0 {
			failed[fr.Field] = bad
			errs = append(errs, fr.Field)
		}
	}

	checks := map[string][]string{}
	if ev, ok := r.(ExtraValidator); ok {
		for _, fe := range ev.ExtraValidation() {
			if _, seen := failed[fe.Field]; !seen && len(checks[fe.Field]) == 0 {
				errs = append(errs, fe.Field)
			}
			checks[fe.Field] = append(checks[fe.Field], fe.Message)
		}
	}

	b.isValid = len(errs) == 0
	b.validationErrors = errs
	b.failed = failed
	b.checks = checks
	return b.isValid
}

func hasRule(tags []Rule, want Rule) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}

// ParseRules parses a comma separated tag list such as "required,integer".
func ParseRules(s string) []Rule {
	var out []Rule
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, Rule(p))
		}
	}
	return out
}
