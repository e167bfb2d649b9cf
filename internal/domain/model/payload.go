package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Payload is an untyped mapping of field name to value, as received from a
// transport (HTTP body, local store) or produced by PrepareToSave.
type Payload map[string]any

// NewPayload converts an arbitrary value into a Payload.
// Anything that is not an object is treated as an absent payload and yields
// an empty, non-nil Payload.
func NewPayload(v any) Payload {
	switch data := v.(type) {
	case nil:
		return Payload{}
	case Payload:
		if data == nil {
			return Payload{}
		}
		return data
	case map[string]any:
		if data == nil {
			return Payload{}
		}
		return Payload(data)
	case map[any]any:
		out := make(Payload, len(data))
		for k, val := range data {
			out[fmt.Sprint(k)] = val
		}
		return out
	case json.RawMessage:
		return payloadFromJSON(data)
	case []byte:
		return payloadFromJSON(data)
	default:
		return Payload{}
	}
}

func payloadFromJSON(raw []byte) Payload {
	var out map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil || out == nil {
		return Payload{}
	}
	return Payload(out)
}

// Lookup returns the value stored under field and whether it is defined.
// A key holding nil counts as undefined.
func (p Payload) Lookup(field string) (any, bool) {
	v, ok := p[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Has reports whether field holds a defined value.
func (p Payload) Has(field string) bool {
	_, ok := p.Lookup(field)
	return ok
}

// Object returns the nested payload under field, or an empty payload.
func (p Payload) Object(field string) Payload {
	v, ok := p.Lookup(field)
	if !ok {
		return Payload{}
	}
	return NewPayload(v)
}

// Objects returns the object elements of the list under field. Elements that
// are not objects are skipped.
func (p Payload) Objects(field string) []Payload {
	v, ok := p.Lookup(field)
	if !ok {
		return nil
	}
	items, ok := toSlice(v)
	if !ok {
		return nil
	}
	out := make([]Payload, 0, len(items))
	for _, item := range items {
		if isObject(item) {
			out = append(out, NewPayload(item))
		}
	}
	return out
}

// Clone returns a shallow copy.
func (p Payload) Clone() Payload {
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// coercion helpers shared by fields and the FieldAsX group helpers

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
			return i, true
		}
	}
	f, ok := toFloat(v)
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if !ok || f != math.Trunc(f) || f >= 1<<63 || f < -1<<63 {
		return 0, false
	}
	return int64(f), true
}

func toBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
	}
	return false, false
}

func toString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(s), true
	case float32, float64:
		f, _ := toFloat(s)
		return strconv.FormatFloat(f, 'f', -1, 64), true
	default:
		return "", false
	}
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range []string{time.RFC3339Nano, isoDateTimeLayout, "2006-01-02 15:04:05", isoDateLayout} {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

func toSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []Payload:
		out := make([]any, len(s))
		for i, p := range s {
			out[i] = p
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(s))
		for i, p := range s {
			out[i] = p
		}
		return out, true
	case []string:
		out := make([]any, len(s))
		for i, p := range s {
			out[i] = p
		}
		return out, true
	}
	return nil, false
}
