package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"key-verification/common"
	"key-verification/configs"
	"key-verification/events"
)

// Server relays to-device events between connected devices and queues them
// for devices that are offline.
type Server struct {
	ctx       context.Context
	cancelCtx context.CancelFunc

	queue    Queue
	registry *events.Registry

	// mutex guards connectedDevices and deviceLocks, it is never held
	// across a websocket write
	connectedDevices map[deviceKey]*peer
	deviceLocks      map[deviceKey]*deviceLock
	mutex            *sync.Mutex
	logger           *logrus.Logger

	// WebSocket upgrader settings
	upgrader     *websocket.Upgrader
	writeTimeout time.Duration
}

type deviceKey struct {
	user   string
	device string
}

// deviceLock orders deliveries and queue pushes to one device against the
// drain it does when it connects
type deviceLock struct {
	sync.Mutex
	refs int
}

// peer serializes writes, a websocket connection supports one writer at a time
type peer struct {
	conn      *websocket.Conn
	writeLock sync.Mutex
}

// write sends one message. A failed write leaves the connection unusable, so
// it is closed and the read loop unregisters the device.
func (p *peer) write(message []byte, timeout time.Duration) error {
	p.writeLock.Lock()
	defer p.writeLock.Unlock()
	if err := p.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		p.conn.Close()
		return err
	}
	if err := p.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		p.conn.Close()
		return err
	}
	return nil
}

func NewServer(ctx context.Context, queue Queue, registry *events.Registry, logger *logrus.Logger) *Server {
	ctx, cancelCtx := context.WithCancel(ctx)
	return &Server{
		ctx:              ctx,
		cancelCtx:        cancelCtx,
		queue:            queue,
		registry:         registry,
		connectedDevices: make(map[deviceKey]*peer),
		deviceLocks:      make(map[deviceKey]*deviceLock),
		mutex:            &sync.Mutex{},
		logger:           logger,
		upgrader: &websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		writeTimeout: configs.WriteTimeout,
	}
}

// lockDevice takes the delivery lock of one device and returns its release.
func (s *Server) lockDevice(key deviceKey) func() {
	s.mutex.Lock()
	l, ok := s.deviceLocks[key]
	if !ok {
		l = &deviceLock{}
		s.deviceLocks[key] = l
	}
	l.refs++
	s.mutex.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		s.mutex.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.deviceLocks, key)
		}
		s.mutex.Unlock()
	}
}

func (s *Server) lookup(key deviceKey) (*peer, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	p, ok := s.connectedDevices[key]
	return p, ok
}

// Router routes the websocket endpoint.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc(configs.WebSocketPath, s.HandleConnections)
	return r
}

// Connected reports whether the device currently has an open connection.
func (s *Server) Connected(user, device string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	_, ok := s.connectedDevices[deviceKey{user: user, device: device}]
	return ok
}

// Handle incoming WebSocket connections
func (s *Server) HandleConnections(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	deviceID := r.URL.Query().Get("device")
	if userID == "" || deviceID == "" {
		s.logger.Error("No user or device provided in the query")
		http.Error(w, "user and device are required", http.StatusBadRequest)
		return
	}

	// Upgrade HTTP request to WebSocket
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Errorf("Error upgrading to WebSocket: %v", err)
		return
	}
	defer ws.Close()

	key := deviceKey{user: userID, device: deviceID}
	p := &peer{conn: ws}

	// Register and flush queued messages under the device lock so nothing is
	// queued behind the drain
	unlock := s.lockDevice(key)
	s.mutex.Lock()
	s.connectedDevices[key] = p
	s.mutex.Unlock()
	s.retrieveQueuedMessages(key, p)
	unlock()
	s.logger.Infof("Device %s of user %s connected", deviceID, userID)

	// Listen for incoming messages
	for {
		_, message, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Errorf("Error reading message from %s/%s: %v", userID, deviceID, err)
			}
			break
		}

		var bundle common.MessageBundle
		if err := json.Unmarshal(message, &bundle); err != nil {
			s.logger.Errorf("Invalid message format from %s/%s: %v", userID, deviceID, err)
			continue
		}

		// The sender is whoever owns the connection
		bundle.From = userID
		bundle.FromDevice = deviceID
		s.handleMessage(&bundle)
	}

	s.mutex.Lock()
	if s.connectedDevices[key] == p {
		delete(s.connectedDevices, key)
	}
	s.mutex.Unlock()
	s.logger.Infof("Device %s of user %s disconnected", deviceID, userID)
}

func (s *Server) Close() {
	s.cancelCtx()
	// Close all WebSocket connections
	s.mutex.Lock()
	for _, p := range s.connectedDevices {
		p.conn.Close()
	}
	s.mutex.Unlock()
	if err := s.queue.Close(); err != nil {
		s.logger.Errorf("Error closing queue: %v", err)
	}
}

// checkContent decodes and validates contents of known event types. Unknown
// types are relayed untouched.
func (s *Server) checkContent(bundle *common.MessageBundle) error {
	eventType := events.Type(bundle.Type)
	if !s.registry.Has(eventType, events.ToDevice) {
		return nil
	}
	content, err := s.registry.Decode(eventType, events.ToDevice, bundle.Content)
	if err != nil {
		return err
	}
	if v, ok := content.(events.Validator); ok {
		return v.Validate()
	}
	return nil
}

// Handle sending messages and queuing for offline devices
func (s *Server) handleMessage(bundle *common.MessageBundle) {
	log := s.logger.WithFields(logrus.Fields{
		"from": bundle.From + "/" + bundle.FromDevice,
		"to":   bundle.To + "/" + bundle.ToDevice,
		"type": bundle.Type,
	})

	if bundle.To == "" || bundle.ToDevice == "" || bundle.Type == "" || len(bundle.Content) == 0 {
		log.Warn("Dropping message without recipient, type or content")
		return
	}
	if err := s.checkContent(bundle); err != nil {
		log.Warnf("Dropping invalid content: %v", err)
		return
	}

	messageJSON, err := json.Marshal(bundle)
	if err != nil {
		log.Errorf("Error marshalling message: %v", err)
		return
	}

	key := deviceKey{user: bundle.To, device: bundle.ToDevice}
	unlock := s.lockDevice(key)
	defer unlock()

	if recipient, online := s.lookup(key); online {
		err := recipient.write(messageJSON, s.writeTimeout)
		if err == nil {
			log.Debug("Message delivered")
			return
		}
		log.Errorf("Error sending message, queuing it: %v", err)
	}

	// Queue the message if the recipient is offline
	if err := s.queue.Push(s.ctx, bundle.To, bundle.ToDevice, messageJSON); err != nil {
		log.Errorf("Error queuing message: %v", err)
		return
	}
	log.Debug("Message queued")
}

// Retrieve queued messages for a device when it reconnects. Called with the
// device lock held.
func (s *Server) retrieveQueuedMessages(key deviceKey, p *peer) {
	messages, err := s.queue.Drain(s.ctx, key.user, key.device)
	if err != nil {
		s.logger.Errorf("Error retrieving queued messages for %s/%s: %v", key.user, key.device, err)
		return
	}

	for i, message := range messages {
		if err := p.write(message, s.writeTimeout); err != nil {
			s.logger.Errorf("Error sending queued message to %s/%s: %v", key.user, key.device, err)
			// put back what was not delivered
			for _, rest := range messages[i:] {
				if err := s.queue.Push(s.ctx, key.user, key.device, rest); err != nil {
					s.logger.Errorf("Error requeuing message for %s/%s: %v", key.user, key.device, err)
				}
			}
			return
		}
	}
}
