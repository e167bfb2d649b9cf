package model

// FieldAsBoolean returns data[field] if it is a defined boolean, else def.
func FieldAsBoolean(data Payload, field string, def bool) bool {
	return Bool(field, new(bool), def).resolve(data)
}

// FieldAsNumber returns data[field] if it is a defined number, else def.
func FieldAsNumber(data Payload, field string, def float64) float64 {
	var dst float64
	return Float(field, &dst, def).resolve(data)
}

// FieldAsString returns data[field] if it is a defined string, else def.
func FieldAsString(data Payload, field string, def string) string {
	var dst string
	return String(field, &dst, def).resolve(data)
}

// InitAsBoolean applies FieldAsBoolean to every key of fieldsWithDefaults.
func InitAsBoolean(data Payload, fieldsWithDefaults map[string]bool) map[string]bool {
	out := make(map[string]bool, len(fieldsWithDefaults))
	for field, def := range fieldsWithDefaults {
		out[field] = FieldAsBoolean(data, field, def)
	}
	return out
}

// InitAsNumber applies FieldAsNumber to every key of fieldsWithDefaults.
func InitAsNumber(data Payload, fieldsWithDefaults map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(fieldsWithDefaults))
	for field, def := range fieldsWithDefaults {
		out[field] = FieldAsNumber(data, field, def)
	}
	return out
}

// InitAsString applies FieldAsString to every key of fieldsWithDefaults.
func InitAsString(data Payload, fieldsWithDefaults map[string]string) map[string]string {
	out := make(map[string]string, len(fieldsWithDefaults))
	for field, def := range fieldsWithDefaults {
		out[field] = FieldAsString(data, field, def)
	}
	return out
}

// InitAsBooleanWithDefaults is InitAsBoolean with false for every field.
func InitAsBooleanWithDefaults(data Payload, fields []string) map[string]bool {
	defaults := make(map[string]bool, len(fields))
	for _, f := range fields {
		defaults[f] = false
	}
	return InitAsBoolean(data, defaults)
}

// InitAsNumberWithDefaults is InitAsNumber with 0 for every field.
func InitAsNumberWithDefaults(data Payload, fields []string) map[string]float64 {
	defaults := make(map[string]float64, len(fields))
	for _, f := range fields {
		defaults[f] = 0
	}
	return InitAsNumber(data, defaults)
}

// InitAsStringWithDefaults is InitAsString with "" for every field.
func InitAsStringWithDefaults(data Payload, fields []string) map[string]string {
	defaults := make(map[string]string, len(fields))
	for _, f := range fields {
		defaults[f] = ""
	}
	return InitAsString(data, defaults)
}

// Hydrator builds a record from a payload.
type Hydrator func(data Payload) Record

// Registry maps a field name to the hydrator of its nested record type.
type Registry map[string]Hydrator

// HydratorFor adapts a record factory into a Hydrator.
func HydratorFor[R Record](factory func() R) Hydrator {
	return func(data Payload) Record {
		return Init(factory(), data)
	}
}

// InitModelOrNull hydrates each named field through the registry from its
// sub-payload. A field without a registered hydrator yields None; a missing
// sub-payload hydrates a record holding only defaults.
func InitModelOrNull(data Payload, registry Registry, fields ...string) map[string]Optional[Record] {
	out := make(map[string]Optional[Record], len(fields))
	for _, field := range fields {
		hydrate, ok := registry[field]
		if !ok || hydrate == nil {
			out[field] = None[Record]()
			continue
		}
		out[field] = Some(hydrate(data.Object(field)))
	}
	return out
}
