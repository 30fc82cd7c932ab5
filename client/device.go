package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"key-verification/common"
	"key-verification/events"
)

var logger = logrus.New()

// SetLogger replaces the package logger.
func SetLogger(l *logrus.Logger) {
	logger = l
}

// Device is one device connected to the relay.
type Device struct {
	UserID   string
	DeviceID string

	wsConn    *websocket.Conn
	registry  *events.Registry
	writeLock sync.Mutex
}

// Dial connects to the relay websocket endpoint at serverURL, e.g.
// ws://localhost:8080/ws.
func Dial(ctx context.Context, serverURL, userID, deviceID string, registry *events.Registry) (*Device, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	query := u.Query()
	query.Set("user", userID)
	query.Set("device", deviceID)
	u.RawQuery = query.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to WebSocket server: %w", err)
	}
	logger.Debugf("Device %s of %s connected to %s", deviceID, userID, serverURL)

	return &Device{
		UserID:   userID,
		DeviceID: deviceID,
		wsConn:   conn,
		registry: registry,
	}, nil
}

type encoder interface {
	Encode() ([]byte, error)
}

// Send sends content as a to-device event to one device of another user.
func (d *Device) Send(toUser, toDevice string, content events.Content) error {
	if content.Channel() != events.ToDevice {
		return fmt.Errorf("cannot send %s content as a to-device event", content.Channel())
	}

	var (
		raw []byte
		err error
	)
	if e, ok := content.(encoder); ok {
		raw, err = e.Encode()
	} else {
		raw, err = json.Marshal(content)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s content: %w", content.EventType(), err)
	}

	return d.SendRaw(&common.MessageBundle{
		To:       toUser,
		ToDevice: toDevice,
		Type:     string(content.EventType()),
		Content:  raw,
	})
}

// SendRaw sends a bundle as is.
func (d *Device) SendRaw(bundle *common.MessageBundle) error {
	msgJSON, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("failed to marshal message to JSON: %w", err)
	}

	d.writeLock.Lock()
	defer d.writeLock.Unlock()
	if err := d.wsConn.WriteMessage(websocket.TextMessage, msgJSON); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// Receive blocks for the next event. Contents of registered types are decoded
// and validated; for other types the returned content is nil.
func (d *Device) Receive() (*common.MessageBundle, events.Content, error) {
	_, msgBytes, err := d.wsConn.ReadMessage()
	if err != nil {
		return nil, nil, err
	}

	var bundle common.MessageBundle
	if err := json.Unmarshal(msgBytes, &bundle); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}

	eventType := events.Type(bundle.Type)
	if d.registry == nil || !d.registry.Has(eventType, events.ToDevice) {
		logger.Debugf("Received unhandled %s event from %s/%s", bundle.Type, bundle.From, bundle.FromDevice)
		return &bundle, nil, nil
	}

	content, err := d.registry.Decode(eventType, events.ToDevice, bundle.Content)
	if err != nil {
		return &bundle, nil, err
	}
	if v, ok := content.(events.Validator); ok {
		if err := v.Validate(); err != nil {
			return &bundle, content, err
		}
	}
	return &bundle, content, nil
}

// SetReadDeadline bounds the next Receive.
func (d *Device) SetReadDeadline(t time.Time) error {
	return d.wsConn.SetReadDeadline(t)
}

// Close closes the connection gracefully.
func (d *Device) Close() error {
	d.writeLock.Lock()
	err := d.wsConn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	d.writeLock.Unlock()
	if err != nil {
		logger.Debugf("Error sending close frame: %v", err)
	}
	return d.wsConn.Close()
}
