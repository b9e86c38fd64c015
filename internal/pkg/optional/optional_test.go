package optional

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

type payload struct {
	Title       Field[string] `json:"title"`
	Description Field[string] `json:"description"`
}

func TestFieldAbsentNullValue(t *testing.T) {
	var p payload
	err := json.Unmarshal([]byte(`{"title": null, "description": ""}`), &p)
	assert.NoError(t, err)

	// title present but null
	assert.True(t, p.Title.Set)
	assert.False(t, p.Title.Valid)

	// description present with empty string, still a real value
	desc, ok := p.Description.Get()
	assert.True(t, ok)
	assert.Equal(t, "", desc)
}

func TestFieldAbsentKey(t *testing.T) {
	var p payload
	err := json.Unmarshal([]byte(`{"title": "hello"}`), &p)
	assert.NoError(t, err)

	title, ok := p.Title.Get()
	assert.True(t, ok)
	assert.Equal(t, "hello", title)

	assert.False(t, p.Description.Set)
	_, ok = p.Description.Get()
	assert.False(t, ok)
}

func TestFieldInvalidValue(t *testing.T) {
	var p payload
	err := json.Unmarshal([]byte(`{"title": 42}`), &p)
	assert.Error(t, err)
}
