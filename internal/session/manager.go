package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"penpals/internal/story"
)

var ErrNotFound = errors.New("playthrough not found")

// Manager keeps playthroughs in memory, keyed by id. Nothing outlives the
// process.
type Manager struct {
	mu           sync.RWMutex
	cat          *story.Catalog
	logger       *zap.Logger
	playthroughs map[string]*Playthrough
}

func NewManager(cat *story.Catalog, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		cat:          cat,
		logger:       logger,
		playthroughs: make(map[string]*Playthrough),
	}
}

func (m *Manager) Catalog() *story.Catalog {
	return m.cat
}

func (m *Manager) Create() *Playthrough {
	p := NewPlaythrough(uuid.NewString(), m.cat, m.logger)

	m.mu.Lock()
	m.playthroughs[p.ID] = p
	count := len(m.playthroughs)
	m.mu.Unlock()

	m.logger.Info("playthrough started", zap.String("playthrough", p.ID), zap.Int("active", count))
	return p
}

func (m *Manager) Get(id string) (*Playthrough, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.playthroughs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p, nil
}

func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.playthroughs[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(m.playthroughs, id)
	m.logger.Info("playthrough removed", zap.String("playthrough", id))
	return nil
}

// IDs returns the ids of all live playthroughs, oldest first.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	list := make([]*Playthrough, 0, len(m.playthroughs))
	for _, p := range m.playthroughs {
		list = append(list, p)
	}
	m.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	ids := make([]string, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.ID)
	}
	return ids
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.playthroughs)
}
