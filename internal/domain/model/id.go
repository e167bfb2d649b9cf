package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fxamacker/cbor/v2"
)

// ID identifies a record. It holds either an integer or a string so that
// identifiers are never mixed up with unrelated numbers.
// The zero value is the integer ID 0, which means "not yet persisted".
type ID struct {
	num   int64
	str   string
	isStr bool
}

// IntID returns an integer identifier.
func IntID(n int64) ID {
	return ID{num: n}
}

// StringID returns a string identifier.
func StringID(s string) ID {
	return ID{str: s, isStr: true}
}

// ParseID converts a payload value into an ID. Integers (and integral
// floats) become integer IDs, strings stay strings.
func ParseID(v any) (ID, bool) {
	switch t := v.(type) {
	case ID:
		return t, true
	case string:
		return StringID(t), true
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return IntID(n), true
		}
		return StringID(t.String()), true
	}
	if n, ok := toInt(v); ok {
		return IntID(n), true
	}
	return ID{}, false
}

// IsZero reports whether the ID is the integer 0 or the empty string.
func (id ID) IsZero() bool {
	if id.isStr {
		return id.str == ""
	}
	return id.num == 0
}

// IsString reports whether the ID holds a string.
func (id ID) IsString() bool {
	return id.isStr
}

// Int64 returns the integer value of an integer ID.
func (id ID) Int64() (int64, bool) {
	if id.isStr {
		return 0, false
	}
	return id.num, true
}

// Value returns the payload representation: int64 or string.
func (id ID) Value() any {
	if id.isStr {
		return id.str
	}
	return id.num
}

func (id ID) String() string {
	if id.isStr {
		return id.str
	}
	return strconv.FormatInt(id.num, 10)
}

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.Value())
}

func (id *ID) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	if raw == nil {
		*id = ID{}
		return nil
	}
	parsed, ok := ParseID(raw)
	if !ok {
		return fmt.Errorf("decode id: unsupported value %v", raw)
	}
	*id = parsed
	return nil
}

func (id ID) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(id.Value())
}

func (id *ID) UnmarshalCBOR(data []byte) error {
	var raw any
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	if raw == nil {
		*id = ID{}
		return nil
	}
	parsed, ok := ParseID(raw)
	if !ok {
		return fmt.Errorf("decode id: unsupported value %v", raw)
	}
	*id = parsed
	return nil
}
