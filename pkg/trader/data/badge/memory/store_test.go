package memory

import (
	"testing"

	"github.com/csgotrader/trader-server/pkg/trader/data/badge/tests"
)

func TestBadgeMemoryStore(t *testing.T) {
	testStore := New()
	teardown := func() {
		testStore.(*store).reset()
	}
	tests.RunTests(t, testStore, teardown)
}
