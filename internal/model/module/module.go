package module

// Module is one training module a trainee can rehearse. Module ids are
// numeric because the notes collaborator keys drafts by numeric module id.
type Module struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Skill       string `json:"skill"`
	Description string `json:"description,omitempty"`
	CharacterID string `json:"characterId,omitempty"`
}

// Seed provides the default training modules.
func Seed() []Module {
	return []Module{
		{
			ID:          101,
			Title:       "Delivering Difficult Feedback",
			Skill:       "management",
			Description: "Name specific behavior, hold the standard, keep the relationship.",
			CharacterID: "underperforming-report",
		},
		{
			ID:          102,
			Title:       "Handling Price Objections",
			Skill:       "sales",
			Description: "Quantify value before discounting; trade concessions, never give them.",
			CharacterID: "skeptical-customer",
		},
		{
			ID:          103,
			Title:       "De-escalating an Angry Stakeholder",
			Skill:       "communication",
			Description: "Acknowledge, reframe to trade-offs, commit to one concrete next step.",
			CharacterID: "hostile-stakeholder",
		},
	}
}

// Store exposes module retrieval for HTTP handlers and the notes service.
type Store interface {
	List() []Module
	FindByID(id int64) (Module, bool)
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items []Module
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied modules.
func NewMemoryStore(items []Module) *MemoryStore {
	return &MemoryStore{items: append([]Module(nil), items...)}
}

// List returns the configured module list.
func (s *MemoryStore) List() []Module {
	return append([]Module(nil), s.items...)
}

// FindByID looks up a module by its numeric identifier.
func (s *MemoryStore) FindByID(id int64) (Module, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Module{}, false
}
