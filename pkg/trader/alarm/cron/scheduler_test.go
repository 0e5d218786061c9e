package cron

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csgotrader/trader-server/pkg/testutil"
	"github.com/csgotrader/trader-server/pkg/trader/alarm"
)

type fireRecorder struct {
	mu    sync.Mutex
	fires map[string]int
}

func newFireRecorder() *fireRecorder {
	return &fireRecorder{fires: make(map[string]int)}
}

func (r *fireRecorder) handle(_ context.Context, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fires[name]++
}

func (r *fireRecorder) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fires[name]
}

func startScheduler(t *testing.T, s alarm.Scheduler, r *fireRecorder) context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		_ = s.Start(ctx, r.handle)
	}()

	// Give Start a moment to register the handler
	time.Sleep(50 * time.Millisecond)
	return cancel
}

func TestScheduler_OneShotFiresOnce(t *testing.T) {
	s := NewScheduler()
	recorder := newFireRecorder()

	cancel := startScheduler(t, s, recorder)
	defer cancel()

	require.NoError(t, s.Create("20000000001", alarm.OneShot(time.Now().Add(100*time.Millisecond))))

	require.NoError(t, testutil.WaitFor(time.Second, 10*time.Millisecond, func() bool {
		return recorder.count("20000000001") > 0
	}))

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 1, recorder.count("20000000001"))

	// The alarm is gone once fired
	assert.False(t, s.Clear("20000000001"))
}

func TestScheduler_OneShotInThePastFiresImmediately(t *testing.T) {
	s := NewScheduler()
	recorder := newFireRecorder()

	cancel := startScheduler(t, s, recorder)
	defer cancel()

	require.NoError(t, s.Create("resume", alarm.OneShot(time.Now().Add(-time.Minute))))

	require.NoError(t, testutil.WaitFor(time.Second, 10*time.Millisecond, func() bool {
		return recorder.count("resume") == 1
	}))
}

func TestScheduler_ClearCancelsOneShot(t *testing.T) {
	s := NewScheduler()
	recorder := newFireRecorder()

	cancel := startScheduler(t, s, recorder)
	defer cancel()

	require.NoError(t, s.Create("20000000002", alarm.OneShot(time.Now().Add(150*time.Millisecond))))
	assert.True(t, s.Clear("20000000002"))

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 0, recorder.count("20000000002"))
}

func TestScheduler_CreateReplacesExisting(t *testing.T) {
	s := NewScheduler()
	recorder := newFireRecorder()

	cancel := startScheduler(t, s, recorder)
	defer cancel()

	// A far-future one-shot replaced by a near one fires exactly once
	require.NoError(t, s.Create("20000000003", alarm.OneShot(time.Now().Add(time.Hour))))
	require.NoError(t, s.Create("20000000003", alarm.OneShot(time.Now().Add(100*time.Millisecond))))

	require.NoError(t, testutil.WaitFor(time.Second, 10*time.Millisecond, func() bool {
		return recorder.count("20000000003") == 1
	}))
}

func TestScheduler_PeriodicRegistration(t *testing.T) {
	s := NewScheduler()

	require.NoError(t, s.Create(alarm.NameNotificationCount, alarm.Periodic(1)))
	assert.True(t, s.Clear(alarm.NameNotificationCount))
	assert.False(t, s.Clear(alarm.NameNotificationCount))
}

func TestScheduler_PolicyValidation(t *testing.T) {
	s := NewScheduler()

	assert.Error(t, s.Create("bad", alarm.Policy{}))
	assert.Error(t, s.Create("bad", alarm.Policy{PeriodMinutes: 1, At: time.Now()}))
}
