package realtime

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pion/webrtc/v4"

	model "github.com/rehearsehq/rehearse/internal/model/transcript"
	transcriptsvc "github.com/rehearsehq/rehearse/internal/service/transcript"
)

// State is the connection state of a session.
type State string

const (
	StateStopped    State = "stopped"
	StateConnecting State = "connecting"
	StateConnected  State = "connected"
)

// ErrSessionActive is returned when Start is called on a non-stopped session.
var ErrSessionActive = errors.New("session already active")

// SessionConfig carries everything needed to negotiate one session.
type SessionConfig struct {
	Model              string
	Voice              string
	TranscriptionModel string
	AgentName          string
	UserName           string
	TokenFunc          TokenFunc
	Signaling          *SignalingClient
	Sink               AudioSink
}

// Session owns one realtime conversation: the connection adapter, the
// control handler, and the transcript reconciler, with a defined
// construction/teardown lifecycle. Sessions are ephemeral and never
// persisted; Stop is the sole cancellation primitive.
type Session struct {
	cfg        SessionConfig
	adapter    *Adapter
	reconciler *transcriptsvc.Reconciler

	mu      sync.Mutex
	state   State
	control *ControlHandler
}

// NewSession builds a stopped session from cfg.
func NewSession(cfg SessionConfig) *Session {
	s := &Session{
		cfg:        cfg,
		reconciler: transcriptsvc.NewReconciler(cfg.AgentName),
		state:      StateStopped,
	}
	s.adapter = NewAdapter(cfg.TokenFunc, cfg.Signaling, cfg.Sink)
	return s
}

// Start connects to the realtime endpoint and attaches the control handler.
func (s *Session) Start(ctx context.Context, localTracks []webrtc.TrackLocal) error {
	s.mu.Lock()
	if s.state != StateStopped {
		s.mu.Unlock()
		return ErrSessionActive
	}
	s.state = StateConnecting
	s.mu.Unlock()

	if err := s.adapter.Connect(ctx, localTracks); err != nil {
		s.setState(StateStopped)
		return fmt.Errorf("connect session: %w", err)
	}

	control := NewControlHandler(
		s.adapter.Channel(),
		s.cfg.TranscriptionModel,
		s.appendFinal(s.cfg.UserName),
		s.appendFinal(s.cfg.AgentName),
	)
	if err := control.Attach(); err != nil {
		s.adapter.Disconnect()
		s.setState(StateStopped)
		return err
	}

	s.mu.Lock()
	s.control = control
	s.state = StateConnected
	s.mu.Unlock()

	return nil
}

// Stop detaches the control handler and closes the connection. Idempotent.
func (s *Session) Stop() {
	s.mu.Lock()
	control := s.control
	s.control = nil
	s.state = StateStopped
	s.mu.Unlock()

	if control != nil {
		control.Detach()
	}
	s.adapter.Disconnect()
}

// State reports the current connection state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Transcript returns the committed transcript so far.
func (s *Session) Transcript() []model.Entry {
	return s.reconciler.Entries()
}

// CurrentAgentText returns the in-progress agent utterance, if any.
func (s *Session) CurrentAgentText() string {
	return s.reconciler.CurrentAgentText()
}

// Apply folds externally observed segments (for example partial agent text
// relayed by the provider) into the session transcript.
func (s *Session) Apply(batch model.SegmentBatch) {
	s.reconciler.Apply(batch)
}

func (s *Session) appendFinal(participant string) func(text string) {
	return func(text string) {
		s.reconciler.Apply(model.SegmentBatch{
			Participant: participant,
			Segments:    []model.Segment{{Text: text, Final: true}},
		})
	}
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}
