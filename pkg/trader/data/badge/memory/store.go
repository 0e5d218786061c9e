package memory

import (
	"context"
	"sync"

	"github.com/csgotrader/trader-server/pkg/trader/data/badge"
)

type store struct {
	mu   sync.Mutex
	text string
}

// New returns a new in memory badge.Store
func New() badge.Store {
	return &store{}
}

// Get implements badge.Store.Get
func (s *store) Get(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.text, nil
}

// Set implements badge.Store.Set
func (s *store) Set(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.text = text
	return nil
}

// Increment implements badge.Store.Increment
func (s *store) Increment(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.text = badge.NextText(s.text)
	return s.text, nil
}

func (s *store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.text = ""
}
