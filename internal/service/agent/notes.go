package agent

import (
	"context"
	"fmt"
	"strings"
)

// DraftAppender persists note text onto a module's draft.
type DraftAppender interface {
	AppendDraft(ctx context.Context, moduleID int64, notes string) error
}

// NotesTool is the single note-taking entry point the agent exposes. Every
// invocation follows the same step lifecycle and the same error contract,
// whichever surface triggered it.
type NotesTool struct {
	appender DraftAppender
	log      *StepLog
}

func NewNotesTool(appender DraftAppender, log *StepLog) *NotesTool {
	return &NotesTool{appender: appender, log: log}
}

// TakeNotes appends notes to the module's draft, tracking the work as a
// visible step. On failure the step is marked errored and the appender's
// error is returned wrapped.
func (t *NotesTool) TakeNotes(ctx context.Context, moduleID int64, notes string) error {
	id := t.log.Begin("Taking notes", preview(notes))

	if err := t.appender.AppendDraft(ctx, moduleID, notes); err != nil {
		t.log.Update(id, StepError, err.Error())
		return fmt.Errorf("take notes for module %d: %w", moduleID, err)
	}

	t.log.Update(id, StepCompleted, "Notes saved to draft")
	return nil
}

// preview trims note text to a short step message.
func preview(notes string) string {
	const max = 80
	trimmed := strings.TrimSpace(notes)
	if len(trimmed) <= max {
		return trimmed
	}
	return trimmed[:max] + "..."
}
