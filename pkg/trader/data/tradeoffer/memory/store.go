package memory

import (
	"context"
	"sync"
	"time"

	"github.com/csgotrader/trader-server/pkg/trader/data/tradeoffer"
)

type store struct {
	mu      sync.Mutex
	summary *tradeoffer.Summary
	events  []*tradeoffer.Event
}

// New returns a new in memory tradeoffer.Store
func New() tradeoffer.Store {
	return &store{
		summary: &tradeoffer.Summary{},
	}
}

// GetSummary implements tradeoffer.Store.GetSummary
func (s *store) GetSummary(_ context.Context) (*tradeoffer.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.summary.Clone(), nil
}

// SaveSummary implements tradeoffer.Store.SaveSummary
func (s *store) SaveSummary(_ context.Context, summary *tradeoffer.Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.summary = summary.Clone()
	return nil
}

// AddEvents implements tradeoffer.Store.AddEvents
func (s *store) AddEvents(_ context.Context, events ...*tradeoffer.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, event := range events {
		s.events = append(s.events, event.Clone())
	}
	return nil
}

// GetEvents implements tradeoffer.Store.GetEvents
func (s *store) GetEvents(_ context.Context) ([]*tradeoffer.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]*tradeoffer.Event, len(s.events))
	for i, event := range s.events {
		res[i] = event.Clone()
	}
	return res, nil
}

// RemoveOldEvents implements tradeoffer.Store.RemoveOldEvents
func (s *store) RemoveOldEvents(_ context.Context, before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kept []*tradeoffer.Event
	for _, event := range s.events {
		if !event.CreatedAt.Before(before) {
			kept = append(kept, event)
		}
	}

	removed := len(s.events) - len(kept)
	s.events = kept
	return removed, nil
}

func (s *store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.summary = &tradeoffer.Summary{}
	s.events = nil
}
