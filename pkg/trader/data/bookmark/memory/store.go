package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/csgotrader/trader-server/pkg/trader/data/bookmark"
)

type store struct {
	mu      sync.Mutex
	records []*bookmark.Record
}

// New returns a new in memory bookmark.Store
func New() bookmark.Store {
	return &store{}
}

// Add implements bookmark.Store.Add
func (s *store) Add(_ context.Context, record *bookmark.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.filterByAssetID(record.AssetID), record.Clone())
	return nil
}

// GetByAssetID implements bookmark.Store.GetByAssetID
func (s *store) GetByAssetID(_ context.Context, assetID string) (*bookmark.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.records {
		if record.AssetID == assetID {
			return record.Clone(), nil
		}
	}
	return nil, bookmark.ErrBookmarkNotFound
}

// GetAll implements bookmark.Store.GetAll
func (s *store) GetAll(_ context.Context) ([]*bookmark.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]*bookmark.Record, 0, len(s.records))
	for _, record := range s.records {
		res = append(res, record.Clone())
	}

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res, nil
}

// Remove implements bookmark.Store.Remove
func (s *store) Remove(_ context.Context, assetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := s.filterByAssetID(assetID)
	if len(filtered) == len(s.records) {
		return bookmark.ErrBookmarkNotFound
	}

	s.records = filtered
	return nil
}

func (s *store) filterByAssetID(assetID string) []*bookmark.Record {
	var res []*bookmark.Record
	for _, record := range s.records {
		if record.AssetID != assetID {
			res = append(res, record)
		}
	}
	return res
}

func (s *store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
}
