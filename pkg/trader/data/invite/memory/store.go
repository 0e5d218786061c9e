package memory

import (
	"context"
	"sync"
	"time"

	"github.com/csgotrader/trader-server/pkg/trader/data/invite"
)

type store struct {
	mu      sync.Mutex
	summary *invite.Summary
	events  []*invite.Event
}

// New returns a new in memory invite.Store
func New() invite.Store {
	return &store{
		summary: &invite.Summary{},
	}
}

// GetSummary implements invite.Store.GetSummary
func (s *store) GetSummary(_ context.Context) (*invite.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.summary.Clone(), nil
}

// SaveSummary implements invite.Store.SaveSummary
func (s *store) SaveSummary(_ context.Context, summary *invite.Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.summary = summary.Clone()
	return nil
}

// AddEvents implements invite.Store.AddEvents
func (s *store) AddEvents(_ context.Context, events ...*invite.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, event := range events {
		s.events = append(s.events, event.Clone())
	}
	return nil
}

// GetEvents implements invite.Store.GetEvents
func (s *store) GetEvents(_ context.Context) ([]*invite.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]*invite.Event, len(s.events))
	for i, event := range s.events {
		res[i] = event.Clone()
	}
	return res, nil
}

// RemoveOldEvents implements invite.Store.RemoveOldEvents
func (s *store) RemoveOldEvents(_ context.Context, before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kept []*invite.Event
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

	s.summary = &invite.Summary{}
	s.events = nil
}
