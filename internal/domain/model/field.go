package model

import (
	"math"
	"time"
)

// Kind classifies a field for the kind-filtered helpers and the validator.
type Kind int

const (
	KindBool Kind = iota
	KindNumber
	KindString
	KindTime
	KindID
	KindNested
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	case KindID:
		return "id"
	case KindNested:
		return "nested"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Policy decides which payload values count as missing.
type Policy int

const (
	// PolicyDefined substitutes the default only for absent keys, nil and
	// values that cannot be coerced to the field's type.
	PolicyDefined Policy = iota
	// PolicyTruthy additionally treats the zero value (0, "", false) as
	// missing. Kept for fields whose consumers rely on that behaviour.
	PolicyTruthy
)

// Field binds one record attribute to its payload key.
// Fields are created by the constructors in this file and hold a pointer to
// the record's own storage, so hydration writes straight into the record.
type Field interface {
	Name() string
	Kind() Kind
	hydrate(data Payload)
	save() any
	validationValue() any
}

// ScalarField is a pointer-bound bool, number, string or time attribute.
type ScalarField[T any] struct {
	name    string
	kind    Kind
	dst     *T
	def     T
	policy  Policy
	coerce  func(any) (T, bool)
	encode  func(T) any
	isEmpty func(T) bool
}

// Truthy switches the field to PolicyTruthy.
func (f *ScalarField[T]) Truthy() *ScalarField[T] {
	f.policy = PolicyTruthy
	return f
}

// Default returns the declared default value.
func (f *ScalarField[T]) Default() T {
	return f.def
}

func (f *ScalarField[T]) Name() string { return f.name }
func (f *ScalarField[T]) Kind() Kind   { return f.kind }

func (f *ScalarField[T]) resolve(data Payload) T {
	raw, ok := data.Lookup(f.name)
	if !ok {
		return f.def
	}
	v, ok := f.coerce(raw)
	if !ok {
		return f.def
	}
	if f.policy == PolicyTruthy && f.isEmpty(v) {
		return f.def
	}
	return v
}

func (f *ScalarField[T]) hydrate(data Payload) {
	*f.dst = f.resolve(data)
}

func (f *ScalarField[T]) current() T {
	v := *f.dst
	if f.policy == PolicyTruthy && f.isEmpty(v) {
		return f.def
	}
	return v
}

func (f *ScalarField[T]) save() any {
	return f.encode(f.current())
}

func (f *ScalarField[T]) validationValue() any {
	return f.encode(*f.dst)
}

func identity[T any](v T) any { return v }

// Bool binds a boolean attribute.
func Bool(name string, dst *bool, def bool) *ScalarField[bool] {
	return &ScalarField[bool]{
		name: name, kind: KindBool, dst: dst, def: def,
		coerce:  toBool,
		encode:  identity[bool],
		isEmpty: func(v bool) bool { return !v },
	}
}

// Int binds an integer attribute.
func Int(name string, dst *int64, def int64) *ScalarField[int64] {
	return &ScalarField[int64]{
		name: name, kind: KindNumber, dst: dst, def: def,
		coerce:  toInt,
		encode:  identity[int64],
		isEmpty: func(v int64) bool { return v == 0 },
	}
}

// Float binds a floating point attribute.
func Float(name string, dst *float64, def float64) *ScalarField[float64] {
	return &ScalarField[float64]{
		name: name, kind: KindNumber, dst: dst, def: def,
		coerce: func(v any) (float64, bool) {
			f, ok := toFloat(v)
			if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
				return 0, false
			}
			return f, true
		},
		encode:  identity[float64],
		isEmpty: func(v float64) bool { return v == 0 },
	}
}

// String binds a string attribute.
func String(name string, dst *string, def string) *ScalarField[string] {
	return &ScalarField[string]{
		name: name, kind: KindString, dst: dst, def: def,
		coerce:  toString,
		encode:  identity[string],
		isEmpty: func(v string) bool { return v == "" },
	}
}

// Time binds a timestamp attribute. The zero time is saved as nil.
func Time(name string, dst *time.Time, def time.Time) *ScalarField[time.Time] {
	return &ScalarField[time.Time]{
		name: name, kind: KindTime, dst: dst, def: def,
		coerce: toTime,
		encode: func(v time.Time) any {
			if v.IsZero() {
				return nil
			}
			return v
		},
		isEmpty: func(v time.Time) bool { return v.IsZero() },
	}
}

// IDField binds a record identifier. Its default is the zero ID.
func IDField(name string, dst *ID) *ScalarField[ID] {
	return &ScalarField[ID]{
		name: name, kind: KindID, dst: dst,
		coerce:  ParseID,
		encode:  func(v ID) any { return v.Value() },
		isEmpty: func(v ID) bool { return v.IsZero() },
	}
}

// StringsField is a pointer-bound list of strings.
type StringsField struct {
	name string
	dst  *[]string
}

// Strings binds a string list attribute. Its default is the empty list.
func Strings(name string, dst *[]string) *StringsField {
	return &StringsField{name: name, dst: dst}
}

func (f *StringsField) Name() string { return f.name }
func (f *StringsField) Kind() Kind   { return KindList }

func (f *StringsField) hydrate(data Payload) {
	out := []string{}
	if raw, ok := data.Lookup(f.name); ok {
		if items, ok := toSlice(raw); ok {
			for _, item := range items {
				if s, ok := toString(item); ok {
					out = append(out, s)
				}
			}
		}
	}
	*f.dst = out
}

func (f *StringsField) save() any {
	out := make([]any, 0, len(*f.dst))
	for _, s := range *f.dst {
		out = append(out, s)
	}
	return out
}

func (f *StringsField) validationValue() any {
	if len(*f.dst) == 0 {
		return nil
	}
	return f.save()
}

// NestedField holds an optional nested record.
type NestedField[T Record] struct {
	name    string
	dst     *Optional[T]
	factory func() T
}

// Nested binds an optional nested record. A defined object under name is
// hydrated into a fresh record from factory; anything else yields None. A nil
// factory means no hydrator, so the field is always None.
func Nested[T Record](name string, dst *Optional[T], factory func() T) *NestedField[T] {
	return &NestedField[T]{name: name, dst: dst, factory: factory}
}

func (f *NestedField[T]) Name() string { return f.name }
func (f *NestedField[T]) Kind() Kind   { return KindNested }

func (f *NestedField[T]) hydrate(data Payload) {
	raw, ok := data.Lookup(f.name)
	if !ok || !isObject(raw) || f.factory == nil {
		*f.dst = None[T]()
		return
	}
	*f.dst = Some(Init(f.factory(), raw))
}

func (f *NestedField[T]) save() any {
	r, ok := f.dst.Get()
	if !ok {
		return nil
	}
	return PrepareToSave(r)
}

func (f *NestedField[T]) validationValue() any {
	return f.save()
}

// ListField holds a list of nested records.
type ListField[T Record] struct {
	name    string
	dst     *[]T
	factory func() T
}

// List binds a list of nested records. Items that are not objects are
// skipped; the default is the empty list. A nil factory hydrates no items.
func List[T Record](name string, dst *[]T, factory func() T) *ListField[T] {
	return &ListField[T]{name: name, dst: dst, factory: factory}
}

func (f *ListField[T]) Name() string { return f.name }
func (f *ListField[T]) Kind() Kind   { return KindList }

func (f *ListField[T]) hydrate(data Payload) {
	out := []T{}
	if raw, ok := data.Lookup(f.name); ok && f.factory != nil {
		if items, ok := toSlice(raw); ok {
			for _, item := range items {
				if !isObject(item) {
					continue
				}
				out = append(out, Init(f.factory(), item))
			}
		}
	}
	*f.dst = out
}

func (f *ListField[T]) save() any {
	out := make([]any, 0, len(*f.dst))
	for _, r := range *f.dst {
		out = append(out, PrepareToSave(r))
	}
	return out
}

func (f *ListField[T]) validationValue() any {
	if len(*f.dst) == 0 {
		return nil
	}
	return f.save()
}

func isObject(v any) bool {
	switch v.(type) {
	case Payload, map[string]any, map[any]any:
		return true
	default:
		return false
	}
}
