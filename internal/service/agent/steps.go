package agent

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// StepStatus is the lifecycle state of one visible agent step.
type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in_progress"
	StepCompleted  StepStatus = "completed"
	StepError      StepStatus = "error"
)

// ErrStepNotFound is returned when updating a step id the log never issued.
var ErrStepNotFound = errors.New("step not found")

// Step is one unit of visible agent work, surfaced to the trainee while a
// tool call runs.
type Step struct {
	ID        string     `json:"id"`
	Label     string     `json:"label"`
	Status    StepStatus `json:"status"`
	Message   string     `json:"message,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// StepLog records agent steps in order and notifies subscribers on every
// transition. Step ids carry a random suffix so two steps with the same
// label never collide.
type StepLog struct {
	mu       sync.Mutex
	steps    []Step
	index    map[string]int
	watchers map[int]func(Step)
	nextID   int
}

func NewStepLog() *StepLog {
	return &StepLog{
		index:    make(map[string]int),
		watchers: make(map[int]func(Step)),
	}
}

// Begin creates a step for label, announces it as pending and then moves it
// to in_progress, returning the generated step id.
func (l *StepLog) Begin(label, message string) string {
	id := stepID(label)

	l.mu.Lock()
	step := Step{
		ID:        id,
		Label:     label,
		Status:    StepPending,
		Message:   message,
		Timestamp: time.Now(),
	}
	l.index[id] = len(l.steps)
	l.steps = append(l.steps, step)
	watchers := l.watcherList()
	l.mu.Unlock()

	notify(watchers, step)

	// Steps surface to clients the moment work actually starts.
	l.Update(id, StepInProgress, message)
	return id
}

// Update transitions the identified step, stamps it, and notifies
// subscribers.
func (l *StepLog) Update(id string, status StepStatus, message string) (Step, error) {
	l.mu.Lock()
	pos, ok := l.index[id]
	if !ok {
		l.mu.Unlock()
		return Step{}, ErrStepNotFound
	}
	l.steps[pos].Status = status
	l.steps[pos].Message = message
	l.steps[pos].Timestamp = time.Now()
	step := l.steps[pos]
	watchers := l.watcherList()
	l.mu.Unlock()

	notify(watchers, step)
	return step, nil
}

// Snapshot returns a copy of all steps in creation order.
func (l *StepLog) Snapshot() []Step {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Step, len(l.steps))
	copy(out, l.steps)
	return out
}

// Subscribe registers fn for step transitions and returns its detach
// function. Watchers run outside the log's lock.
func (l *StepLog) Subscribe(fn func(Step)) func() {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.watchers[id] = fn
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.watchers, id)
		l.mu.Unlock()
	}
}

func (l *StepLog) watcherList() []func(Step) {
	out := make([]func(Step), 0, len(l.watchers))
	for _, fn := range l.watchers {
		out = append(out, fn)
	}
	return out
}

func notify(watchers []func(Step), step Step) {
	for _, fn := range watchers {
		fn(step)
	}
}

// stepID slugs the label and appends a short random suffix.
func stepID(label string) string {
	slug := strings.ToLower(strings.TrimSpace(label))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_':
			return '-'
		default:
			return -1
		}
	}, slug)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "step"
	}
	return slug + "-" + uuid.NewString()[:8]
}
