package memory

import (
	"context"
	"sync"
	"time"

	"github.com/csgotrader/trader-server/pkg/trader/data/floatcache"
)

type store struct {
	mu      sync.Mutex
	records map[string]*floatcache.Record
}

// New returns a new in memory floatcache.Store
func New() floatcache.Store {
	return &store{
		records: make(map[string]*floatcache.Record),
	}
}

// Put implements floatcache.Store.Put
func (s *store) Put(_ context.Context, record *floatcache.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cloned := record.Clone()
	if cloned.UpdatedAt.IsZero() {
		cloned.UpdatedAt = time.Now().UTC()
	}

	s.records[cloned.AssetID] = cloned
	return nil
}

// Get implements floatcache.Store.Get
func (s *store) Get(_ context.Context, assetID string) (*floatcache.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[assetID]
	if !ok {
		return nil, floatcache.ErrFloatNotCached
	}
	return record.Clone(), nil
}

// TrimAged implements floatcache.Store.TrimAged
func (s *store) TrimAged(_ context.Context, maxAge time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)

	var removed int
	for assetID, record := range s.records {
		if record.UpdatedAt.Before(cutoff) {
			delete(s.records, assetID)
			removed++
		}
	}
	return removed, nil
}

func (s *store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*floatcache.Record)
}
