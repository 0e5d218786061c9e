package memory

import (
	"testing"

	"github.com/csgotrader/trader-server/pkg/trader/data/bookmark/tests"
)

func TestBookmarkMemoryStore(t *testing.T) {
	testStore := New()
	teardown := func() {
		testStore.(*store).reset()
	}
	tests.RunTests(t, testStore, teardown)
}
