package model

// Fields is the ordered attribute list of a record.
type Fields []Field

// Hydrate writes every field from data, applying defaults.
func (fs Fields) Hydrate(data Payload) {
	if data == nil {
		data = Payload{}
	}
	for _, f := range fs {
		f.hydrate(data)
	}
}

// Payload serializes every field.
func (fs Fields) Payload() Payload {
	out := make(Payload, len(fs))
	for _, f := range fs {
		out[f.Name()] = f.save()
	}
	return out
}

// Get returns the field declared under name.
func (fs Fields) Get(name string) (Field, bool) {
	for _, f := range fs {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}

// Names returns the declared field names in order.
func (fs Fields) Names() []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Name()
	}
	return out
}

// PrepareFieldsToSave serializes the named subset of fields. Unknown names
// are skipped, so the result can be used as a partial (PATCH) payload.
func (fs Fields) PrepareFieldsToSave(names ...string) Payload {
	return fs.prepareKind(nil, names)
}

// PrepareFieldsToSaveAsBoolean serializes the named boolean fields.
func (fs Fields) PrepareFieldsToSaveAsBoolean(names ...string) Payload {
	k := KindBool
	return fs.prepareKind(&k, names)
}

// PrepareFieldsToSaveAsNumber serializes the named numeric fields.
func (fs Fields) PrepareFieldsToSaveAsNumber(names ...string) Payload {
	k := KindNumber
	return fs.prepareKind(&k, names)
}

// PrepareFieldsToSaveAsString serializes the named string fields.
func (fs Fields) PrepareFieldsToSaveAsString(names ...string) Payload {
	k := KindString
	return fs.prepareKind(&k, names)
}

func (fs Fields) prepareKind(kind *Kind, names []string) Payload {
	out := make(Payload, len(names))
	for _, name := range names {
		f, ok := fs.Get(name)
		if !ok {
			continue
		}
		if kind != nil && f.Kind() != *kind {
			continue
		}
		out[name] = f.save()
	}
	return out
}
