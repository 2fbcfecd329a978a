// Package store provides case persistence backends: in-memory for tests and
// local runs, Postgres and Redis for deployments. All backends satisfy the
// pipeline's CaseStore port.
package store

import (
	"context"
	"sync"

	"vetgate/internal/screening/models"
	id "vetgate/pkg/domain"
	"vetgate/pkg/platform/sentinel"
)

// Memory keeps cases in a map. It intentionally favors clarity over
// performance.
type Memory struct {
	mu    sync.RWMutex
	cases map[id.CaseID]models.Case
}

func NewMemory() *Memory {
	return &Memory{cases: make(map[id.CaseID]models.Case)}
}

func (s *Memory) Save(_ context.Context, c models.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cases[c.ID] = c
	return nil
}

func (s *Memory) FindByID(_ context.Context, caseID id.CaseID) (models.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.cases[caseID]; ok {
		return c, nil
	}
	return models.Case{}, sentinel.ErrNotFound
}
