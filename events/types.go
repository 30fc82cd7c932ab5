// Package events holds the pieces of the event envelope that payload
// packages plug into: event types, delivery channels and the registry that
// picks a payload decoder for a (type, channel) pair.
package events

import "fmt"

type Type string

// Channel is the delivery channel an event travels on. The same event type
// can have a different content schema on each channel.
type Channel int

const (
	// ToDevice events are sent directly from one device to another.
	ToDevice Channel = iota + 1
	// Room events are sent inside a conversation.
	Room
)

func (c Channel) String() string {
	switch c {
	case ToDevice:
		return "to_device"
	case Room:
		return "room"
	default:
		return fmt.Sprintf("channel(%d)", int(c))
	}
}

// Content is an event payload that knows its own type and channel.
type Content interface {
	EventType() Type
	Channel() Channel
}

// Validator is implemented by contents that carry semantic checks beyond
// what decoding enforces.
type Validator interface {
	Validate() error
}

// Decoder builds a Content from the raw JSON content object.
type Decoder func(data []byte) (Content, error)
