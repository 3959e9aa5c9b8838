package transcript

import (
	"strings"

	"github.com/rehearsehq/rehearse/internal/model/transcript"
)

// Placeholder strings the provider inserts while transcription or generation
// is still running. Items that reduce to one of these carry no content.
const (
	placeholderTranscribing = "[Transcribing...]"
	placeholderGenerating   = "[Generating...]"
)

// ReplayHistory rebuilds a finalized transcript from the provider's raw
// conversation history, used when resuming a session. Only completed
// "message" items survive: fragments are concatenated in their given order,
// trimmed, and dropped when empty or a placeholder. Entries carry a fresh
// wall-clock timestamp; replay orders by position in the source history,
// not by recovered timing.
func ReplayHistory(items []transcript.HistoryItem, userName, agentName string) []transcript.Entry {
	entries := make([]transcript.Entry, 0, len(items))

	for _, item := range items {
		if item.Type != "message" {
			continue
		}
		if item.Status == "in_progress" {
			continue
		}

		text := strings.TrimSpace(collectText(item.Content))
		if text == "" || text == placeholderTranscribing || text == placeholderGenerating {
			continue
		}

		role := transcript.RoleUser
		participant := userName
		if item.Role == "assistant" {
			role = transcript.RoleAgent
			participant = agentName
		}

		entries = append(entries, newEntry(participant, role, text))
	}

	return entries
}

func collectText(parts []transcript.ContentPart) string {
	var b strings.Builder
	for _, part := range parts {
		switch part.Type {
		case "input_text", "text":
			b.WriteString(part.Text)
		case "input_audio", "audio":
			b.WriteString(part.Transcript)
		}
	}
	return b.String()
}
