package realtime

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pion/webrtc/v4"
)

// ErrAlreadyConnected is returned when Connect is called on a live adapter.
var ErrAlreadyConnected = errors.New("adapter already connected")

// TokenFunc fetches a short-lived bearer credential for the realtime
// endpoint. It must resolve before any signaling request is attempted.
type TokenFunc func(ctx context.Context) (string, error)

// AudioSink receives the inbound audio stream. The adapter attaches the
// first inbound track and clears the sink on disconnect.
type AudioSink interface {
	Attach(track *webrtc.TrackRemote)
	Clear()
}

// Adapter establishes the peer-to-peer audio connection to the realtime
// endpoint and owns its transport handles. Connect performs the credential
// fetch, offer/answer exchange, and media wiring in order; failures
// propagate as wrapped errors with no internal retry. One adapter serves one
// session at a time.
type Adapter struct {
	tokenFn   TokenFunc
	signaling *SignalingClient
	sink      AudioSink

	mu      sync.Mutex
	pc      *webrtc.PeerConnection
	channel *DataChannel
}

// NewAdapter builds an adapter from its collaborators.
func NewAdapter(tokenFn TokenFunc, signaling *SignalingClient, sink AudioSink) *Adapter {
	return &Adapter{
		tokenFn:   tokenFn,
		signaling: signaling,
		sink:      sink,
	}
}

// Connect negotiates the realtime session using the already-acquired local
// audio tracks. The context covers the credential fetch, ICE gathering, and
// the signaling exchange; cancelling it mid-flight aborts the connect and
// tears down the partially built peer connection.
func (a *Adapter) Connect(ctx context.Context, localTracks []webrtc.TrackLocal) error {
	a.mu.Lock()
	if a.pc != nil {
		a.mu.Unlock()
		return ErrAlreadyConnected
	}
	a.mu.Unlock()

	token, err := a.tokenFn(ctx)
	if err != nil {
		return fmt.Errorf("fetch realtime credential: %w", err)
	}

	pc, err := webrtc.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		return fmt.Errorf("create peer connection: %w", err)
	}

	var attachOnce sync.Once
	pc.OnTrack(func(track *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
		attachOnce.Do(func() {
			a.sink.Attach(track)
		})
	})

	dc, err := pc.CreateDataChannel("events", nil)
	if err != nil {
		pc.Close()
		return fmt.Errorf("create data channel: %w", err)
	}

	for _, track := range localTracks {
		if _, err := pc.AddTrack(track); err != nil {
			pc.Close()
			return fmt.Errorf("add local track: %w", err)
		}
	}

	offer, err := pc.CreateOffer(nil)
	if err != nil {
		pc.Close()
		return fmt.Errorf("create offer: %w", err)
	}

	gathered := webrtc.GatheringCompletePromise(pc)
	if err := pc.SetLocalDescription(offer); err != nil {
		pc.Close()
		return fmt.Errorf("commit local offer: %w", err)
	}
	select {
	case <-gathered:
	case <-ctx.Done():
		pc.Close()
		return ctx.Err()
	}

	answer, err := a.signaling.ExchangeOffer(ctx, token, pc.LocalDescription().SDP)
	if err != nil {
		pc.Close()
		return err
	}

	remote := webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: answer}
	if err := pc.SetRemoteDescription(remote); err != nil {
		pc.Close()
		return fmt.Errorf("commit remote answer: %w", err)
	}

	a.mu.Lock()
	a.pc = pc
	a.channel = NewDataChannel(dc)
	a.mu.Unlock()

	return nil
}

// Channel returns the control channel of the live connection, or nil when
// disconnected.
func (a *Adapter) Channel() *DataChannel {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.channel
}

// Disconnect closes the connection and clears the audio sink. Idempotent:
// calling it repeatedly, or before any Connect, is safe.
func (a *Adapter) Disconnect() {
	a.mu.Lock()
	pc := a.pc
	a.pc = nil
	a.channel = nil
	a.mu.Unlock()

	if pc != nil {
		pc.Close()
	}
	a.sink.Clear()
}
