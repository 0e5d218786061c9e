package memory

import (
	"context"
	"sync"

	"github.com/csgotrader/trader-server/pkg/trader/data/settings"
)

type store struct {
	mu     sync.Mutex
	values map[string]interface{}
}

// New returns a new in memory settings.Store
func New() settings.Store {
	return &store{
		values: make(map[string]interface{}),
	}
}

// Seed implements settings.Store.Seed
func (s *store) Seed(_ context.Context, defaults map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range defaults {
		s.values[key] = value
	}
	return nil
}

// Backfill implements settings.Store.Backfill
func (s *store) Backfill(_ context.Context, defaults map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range defaults {
		if _, ok := s.values[key]; !ok {
			s.values[key] = value
		}
	}
	return nil
}

// Get implements settings.Store.Get
func (s *store) Get(_ context.Context, key string) (interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.values[key]
	if !ok {
		return nil, settings.ErrSettingNotFound
	}
	return value, nil
}

// Set implements settings.Store.Set
func (s *store) Set(_ context.Context, key string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

func (s *store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = make(map[string]interface{})
}
