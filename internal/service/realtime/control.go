package realtime

import (
	"errors"
	"log"
	"sync"
)

// ErrAlreadyAttached is returned when Attach is called twice on one handler.
var ErrAlreadyAttached = errors.New("control handler already attached")

// ControlHandler interprets control messages received on one channel. It
// sends the transcription-model configuration only after session.created has
// been observed (the remote endpoint rejects configuration sent earlier)
// and forwards finalized transcripts to the supplied callbacks. Malformed
// payloads are logged and dropped; they never escape the handler.
type ControlHandler struct {
	channel            ControlChannel
	transcriptionModel string
	onUserTranscript   func(text string)
	onAgentTranscript  func(text string)

	mu          sync.Mutex
	unsubscribe func()
	configured  bool
}

// NewControlHandler builds a handler over channel. Nil callbacks are allowed
// and skip their transcript kind.
func NewControlHandler(channel ControlChannel, transcriptionModel string, onUser, onAgent func(text string)) *ControlHandler {
	return &ControlHandler{
		channel:            channel,
		transcriptionModel: transcriptionModel,
		onUserTranscript:   onUser,
		onAgentTranscript:  onAgent,
	}
}

// Attach subscribes the handler to its channel. It may be called at most
// once per handler instance.
func (h *ControlHandler) Attach() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.unsubscribe != nil {
		return ErrAlreadyAttached
	}
	h.unsubscribe = h.channel.Subscribe(h.handleMessage)
	return nil
}

// Detach removes the handler's subscription. Idempotent.
func (h *ControlHandler) Detach() {
	h.mu.Lock()
	unsubscribe := h.unsubscribe
	h.unsubscribe = nil
	h.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (h *ControlHandler) handleMessage(payload []byte) {
	event, err := ParseServerEvent(payload)
	if err != nil {
		log.Printf("[realtime] dropping malformed control message: %v", err)
		return
	}

	switch ev := event.(type) {
	case SessionCreated:
		h.configureTranscription()
	case InputTranscriptionCompleted:
		if h.onUserTranscript != nil {
			h.onUserTranscript(ev.Transcript)
		}
	case AgentTranscriptDone:
		if h.onAgentTranscript != nil {
			h.onAgentTranscript(ev.Transcript)
		}
	case Unrecognized:
		log.Printf("[realtime] ignoring control message type %q", ev.Type)
	}
}

func (h *ControlHandler) configureTranscription() {
	h.mu.Lock()
	if h.configured {
		h.mu.Unlock()
		return
	}
	h.configured = true
	h.mu.Unlock()

	data, err := NewTranscriptionUpdate(h.transcriptionModel).Encode()
	if err != nil {
		log.Printf("[realtime] encode transcription config: %v", err)
		return
	}
	if err := h.channel.Send(data); err != nil {
		log.Printf("[realtime] send transcription config: %v", err)
	}
}
