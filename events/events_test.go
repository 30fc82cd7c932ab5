package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingContent struct {
	Nonce string `json:"nonce"`
}

func (p *pingContent) EventType() Type  { return "org.example.ping" }
func (p *pingContent) Channel() Channel { return ToDevice }

func decodePing(data []byte) (Content, error) {
	var p pingContent
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("org.example.ping", ToDevice, decodePing))

	assert.True(t, r.Has("org.example.ping", ToDevice))
	assert.False(t, r.Has("org.example.ping", Room))
	assert.Equal(t, []Type{"org.example.ping"}, r.Types(ToDevice))
	assert.Empty(t, r.Types(Room))

	content, err := r.Decode("org.example.ping", ToDevice, []byte(`{"nonce": "abc"}`))
	require.NoError(t, err)
	assert.Equal(t, &pingContent{Nonce: "abc"}, content)

	_, err = r.Decode("org.example.ping", Room, []byte(`{"nonce": "abc"}`))
	assert.ErrorIs(t, err, ErrUnknownEventType)

	err = r.Register("org.example.ping", ToDevice, decodePing)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestChannelString(t *testing.T) {
	assert.Equal(t, "to_device", ToDevice.String())
	assert.Equal(t, "room", Room.String())
	assert.Equal(t, "channel(7)", Channel(7).String())
}

func TestParseEvent(t *testing.T) {
	input := `{"type": "org.example.ping", "sender": "@alice:example.org", "content": {"nonce": "abc"}, "origin_server_ts": 1}`

	e, err := ParseEvent([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, Type("org.example.ping"), e.Type)
	assert.Equal(t, "@alice:example.org", e.Sender)
	assert.JSONEq(t, `{"nonce": "abc"}`, string(e.Content))
	assert.Contains(t, e.Extra, "origin_server_ts")

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(data))
}

func TestParseEventErrors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expectErr error
	}{
		{"missing type", `{"content": {}}`, ErrMissingType},
		{"empty type", `{"type": "", "content": {}}`, ErrMissingType},
		{"missing content", `{"type": "org.example.ping"}`, ErrMissingContent},
		{"null content", `{"type": "org.example.ping", "content": null}`, ErrMissingContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEvent([]byte(tt.input))
			assert.ErrorIs(t, err, tt.expectErr)
		})
	}

	_, err := ParseEvent([]byte(`{"type": 1, "content": {}}`))
	assert.Error(t, err)
}

func TestNewEventDecodeContent(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("org.example.ping", ToDevice, decodePing))

	e, err := NewEvent("@alice:example.org", &pingContent{Nonce: "xyz"})
	require.NoError(t, err)
	assert.Equal(t, Type("org.example.ping"), e.Type)

	content, err := e.DecodeContent(r, ToDevice)
	require.NoError(t, err)
	assert.Equal(t, &pingContent{Nonce: "xyz"}, content)
}
