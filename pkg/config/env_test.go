package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvString(t *testing.T) {
	assert.Equal(t, "fallback", GetEnvString("DDATA_TEST_UNSET", "fallback"))

	t.Setenv("DDATA_TEST_STRING", "value")
	assert.Equal(t, "value", GetEnvString("DDATA_TEST_STRING", "fallback"))
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{name: "unset", value: "", want: 7},
		{name: "valid", value: "42", want: 42},
		{name: "padded", value: " 3 ", want: 3},
		{name: "invalid", value: "forty", want: 7},
		{name: "float", value: "1.5", want: 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DDATA_TEST_INT", tt.value)
			assert.Equal(t, tt.want, GetEnvInt("DDATA_TEST_INT", 7))
		})
	}
}

func TestGetEnvFloat(t *testing.T) {
	t.Setenv("DDATA_TEST_FLOAT", "2.5")
	assert.Equal(t, 2.5, GetEnvFloat("DDATA_TEST_FLOAT", 1))

	t.Setenv("DDATA_TEST_FLOAT", "fast")
	assert.Equal(t, 1.0, GetEnvFloat("DDATA_TEST_FLOAT", 1))
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", true},
		{"false", false},
		{"0", false},
		{"TRUE", true},
		{"maybe", true},
	}
	for _, tt := range tests {
		t.Setenv("DDATA_TEST_BOOL", tt.value)
		assert.Equal(t, tt.want, GetEnvBool("DDATA_TEST_BOOL", true), tt.value)
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("DDATA_TEST_DURATION", "1m30s")
	assert.Equal(t, 90*time.Second, GetEnvDuration("DDATA_TEST_DURATION", time.Second))

	t.Setenv("DDATA_TEST_DURATION", "90")
	assert.Equal(t, time.Second, GetEnvDuration("DDATA_TEST_DURATION", time.Second))
}

func TestGetEnvStringList(t *testing.T) {
	t.Setenv("DDATA_TEST_LIST", " folder, ,tag ,")
	assert.Equal(t, []string{"folder", "tag"}, GetEnvStringList("DDATA_TEST_LIST", nil))

	t.Setenv("DDATA_TEST_LIST", " , ")
	assert.Equal(t, []string{"x"}, GetEnvStringList("DDATA_TEST_LIST", []string{"x"}))
}

func TestValidators(t *testing.T) {
	assert.NoError(t, ValidatePositiveDuration(time.Second))
	assert.Error(t, ValidatePositiveDuration(0))

	assert.NoError(t, ValidateDurationRange(time.Second, 0, time.Minute))
	assert.Error(t, ValidateDurationRange(time.Hour, 0, time.Minute))
	assert.Error(t, ValidateDurationRange(time.Second, time.Minute, 0))

	assert.NoError(t, ValidateIntRange(5, 1, 10))
	assert.Error(t, ValidateIntRange(11, 1, 10))
}
