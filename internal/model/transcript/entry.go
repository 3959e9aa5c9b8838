package transcript

// Role attributes a finalized utterance to one side of the role-play.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Status distinguishes committed utterances from partial segments still
// being transcribed.
type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Entry is one finalized utterance in a session transcript. Entries are
// append-only: once emitted by the reconciler they are never edited or
// removed.
type Entry struct {
	ID              string `json:"id"`
	ParticipantName string `json:"participantName"`
	Role            Role   `json:"role"`
	Text            string `json:"text"`
	Timestamp       string `json:"timestamp"`
	CreatedAtMs     int64  `json:"createdAtMs"`
	Status          Status `json:"status"`
	IsHidden        bool   `json:"isHidden"`
}

// Segment is a single labeled piece of live transcription output. Final
// segments become transcript entries; non-final agent segments only update
// the transient current-agent-text slot.
type Segment struct {
	Text  string `json:"text"`
	Final bool   `json:"final"`
}

// SegmentBatch groups the segments delivered for one speaker in one event.
type SegmentBatch struct {
	Participant string    `json:"participant"`
	Segments    []Segment `json:"segments"`
}
