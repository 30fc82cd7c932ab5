package common

import "encoding/json"

// MessageBundle is the relay frame carrying one to-device event between two
// devices. From and FromDevice are filled in by the server.
type MessageBundle struct {
	From       string          `json:"from,omitempty"`
	FromDevice string          `json:"from_device,omitempty"`
	To         string          `json:"to" validate:"required"`
	ToDevice   string          `json:"to_device" validate:"required"`
	Type       string          `json:"type" validate:"required"`
	Content    json.RawMessage `json:"content" validate:"required"`
}
