package realtime

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WSChannel adapts a WebSocket connection to ControlChannel. It carries the
// same JSON wire protocol as the WebRTC data channel and exists for clients
// that cannot, or choose not to, negotiate a peer connection.
type WSChannel struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	mu         sync.Mutex
	handler    func([]byte)
	generation int

	closeOnce sync.Once
	closeErr  error
}

// NewWSChannel wraps an established WebSocket connection and starts its read
// loop. Messages read before any observer subscribes are dropped.
func NewWSChannel(conn *websocket.Conn) *WSChannel {
	c := &WSChannel{conn: conn}
	go c.readLoop()
	return c
}

// DialControlChannel opens a WebSocket control channel against the realtime
// endpoint, authenticated by the supplied bearer token. http(s) schemes in
// baseURL are rewritten to their WebSocket counterparts.
func DialControlChannel(ctx context.Context, baseURL, model, token string) (*WSChannel, error) {
	target, err := websocketURL(baseURL, model)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	dialer := &websocket.Dialer{HandshakeTimeout: 30 * time.Second}
	conn, _, err := dialer.DialContext(ctx, target, header)
	if err != nil {
		return nil, fmt.Errorf("dial control channel: %w", err)
	}

	return NewWSChannel(conn), nil
}

func websocketURL(baseURL, model string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse realtime endpoint: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported realtime endpoint scheme %q", u.Scheme)
	}

	q := u.Query()
	q.Set("model", model)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *WSChannel) readLoop() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[realtime] control channel read error: %v", err)
			}
			return
		}

		c.mu.Lock()
		handler := c.handler
		c.mu.Unlock()

		if handler != nil {
			handler(data)
		}
	}
}

// Send writes one text message to the channel.
func (c *WSChannel) Send(payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Subscribe installs fn as the message observer. A later Subscribe replaces
// the observer; the returned unsubscribe detaches only its own registration.
func (c *WSChannel) Subscribe(fn func(payload []byte)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	gen := c.generation
	c.handler = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.generation {
			return
		}
		c.handler = nil
	}
}

// Close closes the underlying connection. Safe to call more than once.
func (c *WSChannel) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

var _ ControlChannel = (*WSChannel)(nil)
