package notes

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rehearsehq/rehearse/internal/model/module"
)

// ErrModuleNotFound is returned when a draft operation names an unknown
// module.
var ErrModuleNotFound = errors.New("module not found")

// Draft is the accumulated note text for one module.
type Draft struct {
	ModuleID  int64     `json:"moduleId"`
	Text      string    `json:"text"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Service keeps per-module note drafts in memory and notifies subscribers
// when a draft changes.
type Service struct {
	modules module.Store

	mu       sync.RWMutex
	drafts   map[int64]Draft
	watchers map[int]func(Draft)
	nextID   int
}

func NewService(modules module.Store) *Service {
	return &Service{
		modules:  modules,
		drafts:   make(map[int64]Draft),
		watchers: make(map[int]func(Draft)),
	}
}

// Draft returns the current draft for moduleID. A module with no notes yet
// yields an empty draft, not an error.
func (s *Service) Draft(ctx context.Context, moduleID int64) (Draft, error) {
	if _, ok := s.modules.FindByID(moduleID); !ok {
		return Draft{}, ErrModuleNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if draft, ok := s.drafts[moduleID]; ok {
		return draft, nil
	}
	return Draft{ModuleID: moduleID}, nil
}

// AppendDraft adds notes to the module's draft, separated from existing text
// by a newline.
func (s *Service) AppendDraft(ctx context.Context, moduleID int64, notes string) error {
	if _, ok := s.modules.FindByID(moduleID); !ok {
		return ErrModuleNotFound
	}

	s.mu.Lock()
	draft := s.drafts[moduleID]
	draft.ModuleID = moduleID
	if draft.Text == "" {
		draft.Text = notes
	} else {
		draft.Text += "\n" + notes
	}
	draft.UpdatedAt = time.Now()
	s.drafts[moduleID] = draft
	watchers := make([]func(Draft), 0, len(s.watchers))
	for _, fn := range s.watchers {
		watchers = append(watchers, fn)
	}
	s.mu.Unlock()

	for _, fn := range watchers {
		fn(draft)
	}
	return nil
}

// Subscribe registers fn for draft changes and returns its detach function.
// Watchers run outside the service's lock.
func (s *Service) Subscribe(fn func(Draft)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}
