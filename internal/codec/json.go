package codec

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/Online-Ugyvitel/ddata-core/internal/domain/model"
)

// JSON is the default wire format of the REST API and of the payload stores.
// Numbers decode as json.Number so integer ids keep full precision.
type JSON struct{}

func (JSON) Name() string         { return "json" }
func (JSON) ContentType() string  { return "application/json" }
func (JSON) Extensions() []string { return []string{".json"} }

func (JSON) Decode(data []byte) (model.Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("json: decode: %w", err)
	}
	return asPayload("json", v)
}

func (JSON) Encode(p model.Payload) ([]byte, error) {
	if p == nil {
		p = model.Payload{}
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("json: encode: %w", err)
	}
	return b, nil
}
