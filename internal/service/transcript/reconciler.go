package transcript

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rehearsehq/rehearse/internal/model/transcript"
)

// Reconciler consumes live transcription segments and produces the ordered,
// append-only transcript for one session. Non-final agent segments overwrite
// a single transient slot (last write wins, no accumulation); final segments
// from either side become committed entries. Non-final human segments are
// ignored; there is no partial display for trainee speech.
type Reconciler struct {
	mu               sync.Mutex
	agentName        string
	entries          []transcript.Entry
	currentAgentText string
}

// NewReconciler creates a reconciler that attributes segments from agentName
// to the agent role and everything else to the user role.
func NewReconciler(agentName string) *Reconciler {
	return &Reconciler{agentName: agentName}
}

// Apply folds one segment batch into the transcript. Entries are appended in
// the order their finalization is observed, which is delivery order for the
// underlying transport.
func (r *Reconciler) Apply(batch transcript.SegmentBatch) {
	r.mu.Lock()
	defer r.mu.Unlock()

	isAgent := batch.Participant == r.agentName

	for _, seg := range batch.Segments {
		if !seg.Final {
			if isAgent {
				r.currentAgentText = seg.Text
			}
			continue
		}

		role := transcript.RoleUser
		if isAgent {
			role = transcript.RoleAgent
		}
		r.entries = append(r.entries, newEntry(batch.Participant, role, seg.Text))
		if isAgent {
			r.currentAgentText = ""
		}
	}
}

// Entries returns a copy of the committed transcript in append order.
func (r *Reconciler) Entries() []transcript.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := make([]transcript.Entry, len(r.entries))
	copy(copied, r.entries)
	return copied
}

// CurrentAgentText returns the transient in-progress agent utterance, or the
// empty string when the agent's last segment has been finalized.
func (r *Reconciler) CurrentAgentText() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentAgentText
}

func newEntry(participant string, role transcript.Role, text string) transcript.Entry {
	now := time.Now()
	return transcript.Entry{
		ID:              uuid.NewString(),
		ParticipantName: participant,
		Role:            role,
		Text:            text,
		Timestamp:       now.Format("15:04:05"),
		CreatedAtMs:     now.UnixMilli(),
		Status:          transcript.StatusDone,
		IsHidden:        false,
	}
}
