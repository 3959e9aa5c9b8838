package realtime

import (
	"encoding/json"
	"testing"
)

func TestParseServerEvent(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    ServerEvent
	}{
		{
			name:    "session created",
			payload: `{"type":"session.created"}`,
			want:    SessionCreated{},
		},
		{
			name:    "input transcription completed",
			payload: `{"type":"conversation.item.input_audio_transcription.completed","transcript":"Hello"}`,
			want:    InputTranscriptionCompleted{Transcript: "Hello"},
		},
		{
			name:    "agent transcript done",
			payload: `{"type":"response.audio_transcript.done","transcript":"Ten minutes."}`,
			want:    AgentTranscriptDone{Transcript: "Ten minutes."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseServerEvent([]byte(tt.payload))
			if err != nil {
				t.Fatalf("ParseServerEvent err: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParseServerEventUnknownType(t *testing.T) {
	got, err := ParseServerEvent([]byte(`{"type":"response.done","response":{}}`))
	if err != nil {
		t.Fatalf("ParseServerEvent err: %v", err)
	}
	unrec, ok := got.(Unrecognized)
	if !ok {
		t.Fatalf("expected Unrecognized, got %#v", got)
	}
	if unrec.Type != "response.done" {
		t.Fatalf("unexpected type: %s", unrec.Type)
	}
}

func TestParseServerEventMalformed(t *testing.T) {
	if _, err := ParseServerEvent([]byte("not json")); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestSessionUpdateEncode(t *testing.T) {
	data, err := NewTranscriptionUpdate("whisper-1").Encode()
	if err != nil {
		t.Fatalf("Encode err: %v", err)
	}

	var decoded struct {
		Type    string `json:"type"`
		Session struct {
			InputAudioTranscription struct {
				Model string `json:"model"`
			} `json:"input_audio_transcription"`
		} `json:"session"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal err: %v", err)
	}
	if decoded.Type != "session.update" {
		t.Fatalf("unexpected type: %s", decoded.Type)
	}
	if decoded.Session.InputAudioTranscription.Model != "whisper-1" {
		t.Fatalf("unexpected model: %s", decoded.Session.InputAudioTranscription.Model)
	}
}
