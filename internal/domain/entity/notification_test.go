package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Online-Ugyvitel/ddata-core/internal/domain/model"
)

func TestNewNotification_DefaultOffset(t *testing.T) {
	n := NewNotification(nil, "Hi", "Hey", NotificationSuccess)

	want := time.Now().Add(5 * time.Second)
	assert.WithinDuration(t, want, n.CreatedTime, time.Second)
	assert.Equal(t, "Hi", n.Text)
	assert.Equal(t, "Hey", n.Title)
	assert.Equal(t, NotificationSuccess, n.Type)
}

func TestNewNotification_NegativeOffset(t *testing.T) {
	n := NewNotification(nil, "Hi", "Hey", NotificationSuccess, WithSeconds(-10))

	want := time.Now().Add(-10 * time.Second)
	assert.WithinDuration(t, want, n.CreatedTime, time.Second)
}

func TestNewNotification_FixedClock(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := model.FixedClock(now)

	n := NewNotification(clock, "Saved", "", "")

	assert.Equal(t, now.Add(5*time.Second), n.CreatedTime)
	assert.Equal(t, NotificationInfo, n.Type)
	assert.False(t, n.Due(clock))
	assert.True(t, n.Due(model.FixedClock(now.Add(5*time.Second))))
}

func TestNewNotification_UUID(t *testing.T) {
	a := NewNotification(nil, "a", "", NotificationInfo)
	b := NewNotification(nil, "b", "", NotificationInfo)

	require.True(t, a.ID.IsString())
	_, err := uuid.Parse(a.ID.String())
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNotification_InitAndSave(t *testing.T) {
	n := BlankNotification().Init(map[string]any{
		"id":           "7f1c",
		"text":         "Import finished",
		"created_time": "2024-03-01T12:00:05.000Z",
	})

	assert.Equal(t, model.StringID("7f1c"), n.ID)
	assert.Equal(t, NotificationInfo, n.Type)
	assert.Equal(t, "", n.Title)
	assert.True(t, n.CreatedTime.Equal(time.Date(2024, 3, 1, 12, 0, 5, 0, time.UTC)))
	assert.True(t, n.Validate())

	saved := n.PrepareToSave()
	assert.Equal(t, "7f1c", saved["id"])
	assert.Equal(t, "info", saved["type"])
	created, ok := saved["created_time"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, "2024-03-01T12:00:05.000Z", model.ToISODateTime(created))
}

func TestNotification_ValidateRequiresText(t *testing.T) {
	n := BlankNotification().Init(map[string]any{"type": NotificationError})

	assert.False(t, n.Validate())
	assert.Equal(t, []string{"text"}, n.ValidationErrors())
	assert.Equal(t, "/notification", n.APIEndpoint())
}
