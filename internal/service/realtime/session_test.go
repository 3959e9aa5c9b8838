package realtime

import (
	"testing"

	model "github.com/rehearsehq/rehearse/internal/model/transcript"
)

func TestSessionInitialState(t *testing.T) {
	session := NewSession(SessionConfig{AgentName: "Dana Whitfield", UserName: "You"})
	if got := session.State(); got != StateStopped {
		t.Fatalf("initial state %s, want %s", got, StateStopped)
	}
	if entries := session.Transcript(); len(entries) != 0 {
		t.Fatalf("fresh session has %d entries", len(entries))
	}
}

func TestSessionStopIdempotent(t *testing.T) {
	session := NewSession(SessionConfig{
		AgentName: "Dana Whitfield",
		UserName:  "You",
		Sink:      &countingSink{},
	})

	session.Stop()
	session.Stop()

	if got := session.State(); got != StateStopped {
		t.Fatalf("state after Stop %s, want %s", got, StateStopped)
	}
}

func TestSessionApplyFoldsSegments(t *testing.T) {
	session := NewSession(SessionConfig{AgentName: "Dana Whitfield", UserName: "You"})

	session.Apply(model.SegmentBatch{
		Participant: "Dana Whitfield",
		Segments:    []model.Segment{{Text: "Well, I", Final: false}},
	})
	if got := session.CurrentAgentText(); got != "Well, I" {
		t.Fatalf("current agent text %q", got)
	}

	session.Apply(model.SegmentBatch{
		Participant: "Dana Whitfield",
		Segments:    []model.Segment{{Text: "Well, I disagree.", Final: true}},
	})
	if got := session.CurrentAgentText(); got != "" {
		t.Fatalf("agent text not cleared after final segment: %q", got)
	}

	entries := session.Transcript()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Role != model.RoleAgent || entries[0].Text != "Well, I disagree." {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}
