// Package codec converts raw transport bytes to and from model payloads.
//
// Decoding can fail (the bytes may be malformed or may not hold an object),
// but a successfully decoded payload can always be hydrated into a record.
package codec

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Online-Ugyvitel/ddata-core/internal/domain/model"
)

var (
	// ErrUnknownFormat is returned by ByName and ByExtension.
	ErrUnknownFormat = errors.New("unknown payload format")

	// ErrNotObject is returned when the decoded document is not an object.
	ErrNotObject = errors.New("payload is not an object")
)

// Codec encodes and decodes payloads in one wire format.
type Codec interface {
	Name() string
	ContentType() string
	Extensions() []string
	Decode(data []byte) (model.Payload, error)
	Encode(p model.Payload) ([]byte, error)
}

var registered = []Codec{JSON{}, YAML{}, CBOR{}}

// All returns every built-in codec.
func All() []Codec {
	out := make([]Codec, len(registered))
	copy(out, registered)
	return out
}

// ByName returns the codec called name ("json", "yaml", "cbor").
func ByName(name string) (Codec, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, c := range registered {
		if c.Name() == n {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// ByExtension picks a codec from the extension of path.
func ByExtension(path string) (Codec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, c := range registered {
		for _, e := range c.Extensions() {
			if e == ext {
				return c, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: extension %q", ErrUnknownFormat, ext)
}

// ByContentType picks a codec from an HTTP Content-Type header value.
func ByContentType(ct string) (Codec, error) {
	mt := strings.ToLower(strings.TrimSpace(strings.Split(ct, ";")[0]))
	for _, c := range registered {
		if c.ContentType() == mt {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: content type %q", ErrUnknownFormat, ct)
}

// asPayload accepts any decoded document that is an object.
func asPayload(format string, v any) (model.Payload, error) {
	switch v.(type) {
	case map[string]any, map[any]any, model.Payload:
		return model.NewPayload(v), nil
	case nil:
		return nil, fmt.Errorf("%s: %w: empty document", format, ErrNotObject)
	default:
		return nil, fmt.Errorf("%s: %w: got %T", format, ErrNotObject, v)
	}
}
