package realtime

import (
	"sync"

	"github.com/pion/webrtc/v4"
)

// ControlChannel is an ordered, reliable side-channel for structured JSON
// control messages. Subscribe registers the single message observer and
// returns its detach function; messages arriving while no observer is
// registered are dropped, not buffered.
type ControlChannel interface {
	Send(payload []byte) error
	Subscribe(fn func(payload []byte)) (unsubscribe func())
	Close() error
}

// DataChannel adapts a WebRTC data channel to ControlChannel.
type DataChannel struct {
	mu         sync.Mutex
	dc         *webrtc.DataChannel
	generation int
}

// NewDataChannel wraps an already-created data channel.
func NewDataChannel(dc *webrtc.DataChannel) *DataChannel {
	return &DataChannel{dc: dc}
}

// Send writes one message to the channel.
func (c *DataChannel) Send(payload []byte) error {
	return c.dc.Send(payload)
}

// Subscribe installs fn as the message observer. A later Subscribe replaces
// the observer; the returned unsubscribe detaches only its own registration.
func (c *DataChannel) Subscribe(fn func(payload []byte)) func() {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	c.dc.OnMessage(func(msg webrtc.DataChannelMessage) {
		fn(msg.Data)
	})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.generation {
			return
		}
		c.dc.OnMessage(func(webrtc.DataChannelMessage) {})
	}
}

// Close closes the underlying data channel.
func (c *DataChannel) Close() error {
	return c.dc.Close()
}
