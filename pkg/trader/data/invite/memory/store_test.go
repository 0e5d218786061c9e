package memory

import (
	"testing"

	"github.com/csgotrader/trader-server/pkg/trader/data/invite/tests"
)

func TestInviteMemoryStore(t *testing.T) {
	testStore := New()
	teardown := func() {
		testStore.(*store).reset()
	}
	tests.RunTests(t, testStore, teardown)
}
