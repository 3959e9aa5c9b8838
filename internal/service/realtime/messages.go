package realtime

import (
	"encoding/json"
	"fmt"
)

// Wire message types exchanged on the control channel.
const (
	typeSessionCreated      = "session.created"
	typeInputTranscription  = "conversation.item.input_audio_transcription.completed"
	typeAgentTranscriptDone = "response.audio_transcript.done"
	typeSessionUpdate       = "session.update"
)

// ServerEvent is one inbound control message. Unknown or shape-mismatched
// payloads decode to Unrecognized rather than being silently coerced.
type ServerEvent interface {
	serverEventType() string
}

// SessionCreated signals the remote session is ready for configuration.
// Configuration must never be sent before this event has been observed.
type SessionCreated struct{}

func (SessionCreated) serverEventType() string { return typeSessionCreated }

// InputTranscriptionCompleted carries a finalized transcript of trainee speech.
type InputTranscriptionCompleted struct {
	Transcript string
}

func (InputTranscriptionCompleted) serverEventType() string { return typeInputTranscription }

// AgentTranscriptDone carries a finalized transcript of agent speech.
type AgentTranscriptDone struct {
	Transcript string
}

func (AgentTranscriptDone) serverEventType() string { return typeAgentTranscriptDone }

// Unrecognized wraps any well-formed JSON message whose type the handler
// does not interpret.
type Unrecognized struct {
	Type string
	Raw  json.RawMessage
}

func (Unrecognized) serverEventType() string { return "unrecognized" }

// ParseServerEvent decodes one control-channel payload. It returns an error
// only for payloads that are not valid JSON objects.
func ParseServerEvent(data []byte) (ServerEvent, error) {
	var envelope struct {
		Type       string `json:"type"`
		Transcript string `json:"transcript"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode control message: %w", err)
	}

	switch envelope.Type {
	case typeSessionCreated:
		return SessionCreated{}, nil
	case typeInputTranscription:
		return InputTranscriptionCompleted{Transcript: envelope.Transcript}, nil
	case typeAgentTranscriptDone:
		return AgentTranscriptDone{Transcript: envelope.Transcript}, nil
	default:
		return Unrecognized{Type: envelope.Type, Raw: append(json.RawMessage(nil), data...)}, nil
	}
}

// SessionUpdate is the outbound configuration command selecting the
// transcription model for trainee speech.
type SessionUpdate struct {
	Type    string        `json:"type"`
	Session sessionConfig `json:"session"`
}

type sessionConfig struct {
	InputAudioTranscription transcriptionConfig `json:"input_audio_transcription"`
}

type transcriptionConfig struct {
	Model string `json:"model"`
}

// NewTranscriptionUpdate builds a session.update selecting the given model.
func NewTranscriptionUpdate(model string) SessionUpdate {
	return SessionUpdate{
		Type: typeSessionUpdate,
		Session: sessionConfig{
			InputAudioTranscription: transcriptionConfig{Model: model},
		},
	}
}

// Encode serializes the command for the wire.
func (u SessionUpdate) Encode() ([]byte, error) {
	data, err := json.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("encode session update: %w", err)
	}
	return data, nil
}
