package codec

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/fxamacker/cbor/v2"

	"github.com/Online-Ugyvitel/ddata-core/internal/domain/model"
)

// CBOR is a compact binary format for the local payload stores.
// Timestamps are written as RFC 3339 strings so every format hydrates alike.
type CBOR struct{}

var (
	cborOnce sync.Once
	cborEnc  cbor.EncMode
	cborDec  cbor.DecMode
	cborErr  error
)

func cborModes() (cbor.EncMode, cbor.DecMode, error) {
	cborOnce.Do(func() {
		cborEnc, cborErr = cbor.EncOptions{
			Sort: cbor.SortCanonical,
			Time: cbor.TimeRFC3339Nano,
		}.EncMode()
		if cborErr != nil {
			return
		}
		cborDec, cborErr = cbor.DecOptions{
			DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		}.DecMode()
	})
	return cborEnc, cborDec, cborErr
}

func (CBOR) Name() string         { return "cbor" }
func (CBOR) ContentType() string  { return "application/cbor" }
func (CBOR) Extensions() []string { return []string{".cbor"} }

func (CBOR) Decode(data []byte) (model.Payload, error) {
	_, dm, err := cborModes()
	if err != nil {
		return nil, fmt.Errorf("cbor: %w", err)
	}
	var v any
	if err := dm.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("cbor: decode: %w", err)
	}
	return asPayload("cbor", v)
}

func (CBOR) Encode(p model.Payload) ([]byte, error) {
	em, _, err := cborModes()
	if err != nil {
		return nil, fmt.Errorf("cbor: %w", err)
	}
	if p == nil {
		p = model.Payload{}
	}
	b, err := em.Marshal(map[string]any(p))
	if err != nil {
		return nil, fmt.Errorf("cbor: encode: %w", err)
	}
	return b, nil
}
