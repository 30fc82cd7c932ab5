package events

import (
	"fmt"
	"sort"
	"sync"
)

type registryKey struct {
	eventType Type
	channel   Channel
}

// Registry maps an event type on a delivery channel to its content decoder.
type Registry struct {
	mutex    sync.RWMutex
	decoders map[registryKey]Decoder
}

func NewRegistry() *Registry {
	return &Registry{decoders: make(map[registryKey]Decoder)}
}

// Register binds decoder to eventType on channel. Each pair can be bound once.
func (r *Registry) Register(eventType Type, channel Channel, decoder Decoder) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	key := registryKey{eventType: eventType, channel: channel}
	if _, exists := r.decoders[key]; exists {
		return fmt.Errorf("%w: %s on %s", ErrAlreadyRegistered, eventType, channel)
	}
	r.decoders[key] = decoder
	return nil
}

// Has reports whether a decoder is registered for eventType on channel.
func (r *Registry) Has(eventType Type, channel Channel) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	_, ok := r.decoders[registryKey{eventType: eventType, channel: channel}]
	return ok
}

// Decode decodes content with the decoder registered for eventType on channel.
func (r *Registry) Decode(eventType Type, channel Channel, content []byte) (Content, error) {
	r.mutex.RLock()
	decoder, ok := r.decoders[registryKey{eventType: eventType, channel: channel}]
	r.mutex.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrUnknownEventType, eventType, channel)
	}
	return decoder(content)
}

// Types lists the event types registered on channel, sorted.
func (r *Registry) Types(channel Channel) []Type {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var types []Type
	for key := range r.decoders {
		if key.channel == channel {
			types = append(types, key.eventType)
		}
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
