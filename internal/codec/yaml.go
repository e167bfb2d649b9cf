package codec

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Online-Ugyvitel/ddata-core/internal/domain/model"
)

// YAML is used for hand-written fixture payloads.
type YAML struct{}

func (YAML) Name() string         { return "yaml" }
func (YAML) ContentType() string  { return "application/yaml" }
func (YAML) Extensions() []string { return []string{".yaml", ".yml"} }

func (YAML) Decode(data []byte) (model.Payload, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("yaml: decode: %w", err)
	}
	return asPayload("yaml", v)
}

func (YAML) Encode(p model.Payload) ([]byte, error) {
	if p == nil {
		p = model.Payload{}
	}
	b, err := yaml.Marshal(map[string]any(p))
	if err != nil {
		return nil, fmt.Errorf("yaml: encode: %w", err)
	}
	return b, nil
}
