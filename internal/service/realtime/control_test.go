package realtime

import (
	"encoding/json"
	"sync"
	"testing"
)

// fakeChannel records sent payloads and lets tests inject inbound messages.
type fakeChannel struct {
	mu      sync.Mutex
	sent    [][]byte
	handler func(payload []byte)
	sendErr error
}

func (c *fakeChannel) Send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendErr != nil {
		return c.sendErr
	}
	c.sent = append(c.sent, payload)
	return nil
}

func (c *fakeChannel) Subscribe(fn func(payload []byte)) func() {
	c.mu.Lock()
	c.handler = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		c.handler = nil
		c.mu.Unlock()
	}
}

func (c *fakeChannel) Close() error { return nil }

func (c *fakeChannel) deliver(payload string) {
	c.mu.Lock()
	fn := c.handler
	c.mu.Unlock()
	if fn != nil {
		fn([]byte(payload))
	}
}

func (c *fakeChannel) sentMessages() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.sent))
	copy(out, c.sent)
	return out
}

func TestControlHandlerConfiguresTranscriptionOnce(t *testing.T) {
	channel := &fakeChannel{}
	handler := NewControlHandler(channel, "whisper-1", nil, nil)
	if err := handler.Attach(); err != nil {
		t.Fatalf("Attach err: %v", err)
	}

	channel.deliver(`{"type":"session.created"}`)
	channel.deliver(`{"type":"session.created"}`)

	sent := channel.sentMessages()
	if len(sent) != 1 {
		t.Fatalf("expected exactly 1 configuration message, got %d", len(sent))
	}

	var update struct {
		Type    string `json:"type"`
		Session struct {
			InputAudioTranscription struct {
				Model string `json:"model"`
			} `json:"input_audio_transcription"`
		} `json:"session"`
	}
	if err := json.Unmarshal(sent[0], &update); err != nil {
		t.Fatalf("Unmarshal err: %v", err)
	}
	if update.Type != "session.update" {
		t.Fatalf("unexpected type: %s", update.Type)
	}
	if update.Session.InputAudioTranscription.Model != "whisper-1" {
		t.Fatalf("unexpected model: %s", update.Session.InputAudioTranscription.Model)
	}
}

func TestControlHandlerForwardsTranscripts(t *testing.T) {
	channel := &fakeChannel{}
	var userTexts, agentTexts []string
	handler := NewControlHandler(channel, "whisper-1",
		func(text string) { userTexts = append(userTexts, text) },
		func(text string) { agentTexts = append(agentTexts, text) },
	)
	if err := handler.Attach(); err != nil {
		t.Fatalf("Attach err: %v", err)
	}

	channel.deliver(`{"type":"conversation.item.input_audio_transcription.completed","transcript":"Can we talk?"}`)
	channel.deliver(`{"type":"response.audio_transcript.done","transcript":"Of course."}`)

	if len(userTexts) != 1 || userTexts[0] != "Can we talk?" {
		t.Fatalf("unexpected user transcripts: %v", userTexts)
	}
	if len(agentTexts) != 1 || agentTexts[0] != "Of course." {
		t.Fatalf("unexpected agent transcripts: %v", agentTexts)
	}
}

func TestControlHandlerDropsMalformedMessages(t *testing.T) {
	channel := &fakeChannel{}
	called := false
	handler := NewControlHandler(channel, "whisper-1",
		func(string) { called = true },
		func(string) { called = true },
	)
	if err := handler.Attach(); err != nil {
		t.Fatalf("Attach err: %v", err)
	}

	channel.deliver(`{"type":`)
	channel.deliver(`42`)

	if called {
		t.Fatal("callbacks fired for malformed payloads")
	}
	if len(channel.sentMessages()) != 0 {
		t.Fatal("handler sent messages in response to malformed payloads")
	}
}

func TestControlHandlerAttachTwice(t *testing.T) {
	handler := NewControlHandler(&fakeChannel{}, "whisper-1", nil, nil)
	if err := handler.Attach(); err != nil {
		t.Fatalf("first Attach err: %v", err)
	}
	if err := handler.Attach(); err != ErrAlreadyAttached {
		t.Fatalf("expected ErrAlreadyAttached, got %v", err)
	}
}

func TestControlHandlerDetachStopsDelivery(t *testing.T) {
	channel := &fakeChannel{}
	var texts []string
	handler := NewControlHandler(channel, "whisper-1",
		func(text string) { texts = append(texts, text) }, nil)
	if err := handler.Attach(); err != nil {
		t.Fatalf("Attach err: %v", err)
	}

	handler.Detach()
	handler.Detach()

	channel.deliver(`{"type":"conversation.item.input_audio_transcription.completed","transcript":"late"}`)
	if len(texts) != 0 {
		t.Fatalf("transcript delivered after Detach: %v", texts)
	}
}
