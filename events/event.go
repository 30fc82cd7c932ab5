package events

import (
	"encoding/json"
	"fmt"

	"key-verification/common"
)

// Event is the envelope around a content object. Top-level members other than
// type, sender and content are kept in Extra and written back on marshal.
type Event struct {
	Type    Type            `json:"type"`
	Sender  string          `json:"sender,omitempty"`
	Content json.RawMessage `json:"content"`

	Extra common.Object `json:"-"`
}

// NewEvent wraps content into an envelope.
func NewEvent(sender string, content Content) (*Event, error) {
	raw, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s content: %w", content.EventType(), err)
	}
	return &Event{Type: content.EventType(), Sender: sender, Content: raw}, nil
}

func ParseEvent(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (e *Event) UnmarshalJSON(data []byte) error {
	obj, err := common.ParseObject(data)
	if err != nil {
		return err
	}

	var parsed Event
	raw, ok := obj.Take("type")
	if !ok {
		return ErrMissingType
	}
	if err := json.Unmarshal(raw, &parsed.Type); err != nil {
		return fmt.Errorf("invalid event type: %w", err)
	}
	if parsed.Type == "" {
		return ErrMissingType
	}
	if raw, ok := obj.Take("sender"); ok && !common.IsNull(raw) {
		if err := json.Unmarshal(raw, &parsed.Sender); err != nil {
			return fmt.Errorf("invalid event sender: %w", err)
		}
	}
	raw, ok = obj.Take("content")
	if !ok || common.IsNull(raw) {
		return ErrMissingContent
	}
	parsed.Content = append(json.RawMessage(nil), raw...)
	parsed.Extra = obj.Clone()

	*e = parsed
	return nil
}

func (e Event) MarshalJSON() ([]byte, error) {
	type plain Event
	return common.MergeObject(plain(e), e.Extra)
}

// DecodeContent decodes the envelope content through the registry, using the
// channel the envelope was received on.
func (e *Event) DecodeContent(r *Registry, channel Channel) (Content, error) {
	return r.Decode(e.Type, channel, e.Content)
}
