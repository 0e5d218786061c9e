package memory

import (
	"context"
	"sync"

	"github.com/csgotrader/trader-server/pkg/trader/alarm"
)

// Scheduler is a manually driven alarm.Scheduler for tests. Alarms
// never fire on their own; call Fire to simulate one.
type Scheduler struct {
	mu       sync.Mutex
	policies map[string]alarm.Policy
	handler  alarm.Handler
	ctx      context.Context

	Created []string
	Cleared []string
}

// NewScheduler returns a new manual Scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{
		policies: make(map[string]alarm.Policy),
	}
}

// Create implements alarm.Scheduler.Create
func (s *Scheduler) Create(name string, policy alarm.Policy) error {
	if err := policy.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.policies[name] = policy
	s.Created = append(s.Created, name)
	return nil
}

// Clear implements alarm.Scheduler.Clear
func (s *Scheduler) Clear(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.policies[name]
	delete(s.policies, name)
	s.Cleared = append(s.Cleared, name)
	return ok
}

// Start implements alarm.Scheduler.Start
func (s *Scheduler) Start(ctx context.Context, handler alarm.Handler) error {
	s.mu.Lock()
	s.handler = handler
	s.ctx = ctx
	s.mu.Unlock()
	return nil
}

// Stop implements alarm.Scheduler.Stop
func (s *Scheduler) Stop() {}

// Fire synchronously invokes the handler for a named alarm, removing
// it first when registered as a one-shot.
func (s *Scheduler) Fire(name string) {
	s.mu.Lock()
	handler := s.handler
	ctx := s.ctx
	if policy, ok := s.policies[name]; ok && !policy.At.IsZero() {
		delete(s.policies, name)
	}
	s.mu.Unlock()

	if handler == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	handler(ctx, name)
}

// Registered reports whether a named alarm currently exists
func (s *Scheduler) Registered(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.policies[name]
	return ok
}

// Policy returns the registered policy for a named alarm
func (s *Scheduler) Policy(name string) (alarm.Policy, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	policy, ok := s.policies[name]
	return policy, ok
}
