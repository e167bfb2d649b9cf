package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Online-Ugyvitel/ddata-core/internal/domain/model"
)

func TestFactory(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		model    string
	}{
		{name: "folder", endpoint: "/folder", model: "Folder"},
		{name: "folder-tree", endpoint: "/folder/tree", model: "FolderNode"},
		{name: "notification", endpoint: "/notification", model: "Notification"},
		{name: "tag", endpoint: "/tag", model: "Tag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Factory(tt.name)
			require.NoError(t, err)
			r := f()
			assert.Equal(t, tt.endpoint, r.APIEndpoint())
			assert.Equal(t, tt.model, r.ModelName())
		})
	}

	_, err := Factory("invoice")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestModelNames(t *testing.T) {
	assert.Equal(t, []string{"folder", "folder-tree", "notification", "tag"}, ModelNames())
}

func TestHydrators_WithInitModelOrNull(t *testing.T) {
	data := model.Payload{
		"folder": map[string]any{"id": 3, "name": "Docs"},
		"tag":    map[string]any{"name": "go"},
	}

	got := model.InitModelOrNull(data, Hydrators(), "folder", "tag", "invoice")

	f, ok := got["folder"].Get()
	require.True(t, ok)
	assert.Equal(t, model.IntID(3), f.(*Folder).ID)
	tag, ok := got["tag"].Get()
	require.True(t, ok)
	assert.Equal(t, "#cccccc", tag.(*Tag).Color)
	assert.False(t, got["invoice"].IsPresent())
}
