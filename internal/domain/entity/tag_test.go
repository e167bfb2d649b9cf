package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTag_ColorFallsBackOnEmpty(t *testing.T) {
	tests := []struct {
		name  string
		data  map[string]any
		color string
	}{
		{name: "missing", data: map[string]any{"name": "urgent"}, color: DefaultTagColor},
		{name: "null", data: map[string]any{"name": "urgent", "color": nil}, color: DefaultTagColor},
		{name: "empty string", data: map[string]any{"name": "urgent", "color": ""}, color: DefaultTagColor},
		{name: "set", data: map[string]any{"name": "urgent", "color": "#ff0000"}, color: "#ff0000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag := NewTag().Init(tt.data)
			assert.Equal(t, tt.color, tag.Color)
		})
	}
}

func TestTag_CounterKeepsDefinedZero(t *testing.T) {
	tag := NewTag().Init(map[string]any{"name": "x", "counter": 0})

	assert.Equal(t, int64(0), tag.Counter)
	assert.Equal(t, int64(0), tag.PrepareToSave()["counter"])
}

func TestTag_SaveUsesDefaultColor(t *testing.T) {
	tag := NewTag()
	tag.Name = "later"

	saved := tag.PrepareToSave()

	assert.Equal(t, DefaultTagColor, saved["color"])
	assert.Equal(t, "later", saved["name"])
}

func TestTag_Validate(t *testing.T) {
	tests := []struct {
		name   string
		data   map[string]any
		valid  bool
		errors []string
	}{
		{name: "named", data: map[string]any{"name": "urgent", "counter": 2}, valid: true, errors: []string{}},
		{name: "unnamed", data: map[string]any{"counter": 2}, valid: false, errors: []string{"name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag := (&Tag{}).Init(tt.data)

			assert.Equal(t, tt.valid, tag.Validate())
			assert.Equal(t, tt.errors, tag.ValidationErrors())
			assert.Equal(t, "/tag", tag.APIEndpoint())
		})
	}
}
