package transcript

// ContentPart is one text-bearing fragment of a provider history item. The
// provider emits four fragment kinds: input_text and text carry their
// payload in Text, input_audio and audio carry it in Transcript.
type ContentPart struct {
	Type       string `json:"type"`
	Text       string `json:"text,omitempty"`
	Transcript string `json:"transcript,omitempty"`
}

// HistoryItem is one opaque item from the provider's conversation history.
// Only items with Type "message" are recognized during replay; everything
// else is skipped silently.
type HistoryItem struct {
	Type    string        `json:"type"`
	Role    string        `json:"role,omitempty"`
	Status  string        `json:"status,omitempty"`
	Content []ContentPart `json:"content,omitempty"`
}
