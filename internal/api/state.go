package api

import (
	"sync"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// investigationsCache maps request ids to the actor hosting the
// investigation. In-memory only, entries live until process exit.
type investigationsCache struct {
	mu  sync.RWMutex
	ids map[uuid.UUID]*actor.PID
}

func newInvestigationsCache() *investigationsCache {
	return &investigationsCache{
		ids: map[uuid.UUID]*actor.PID{},
	}
}

func (s *investigationsCache) remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ids, id)
}

func (s *investigationsCache) add(id uuid.UUID, pid *actor.PID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[id] = pid
}

func (s *investigationsCache) get(id uuid.UUID) (*actor.PID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pid, ok := s.ids[id]
	return pid, ok
}
