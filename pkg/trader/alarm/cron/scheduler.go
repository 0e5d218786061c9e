package cron

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/csgotrader/trader-server/pkg/trader/alarm"
)

type entry struct {
	policy alarm.Policy

	cronID cron.EntryID
	timer  *time.Timer
}

type scheduler struct {
	log *logrus.Entry

	mu      sync.Mutex
	entries map[string]*entry
	cron    *cron.Cron
	handler alarm.Handler
	ctx     context.Context
	started bool
}

// NewScheduler returns an alarm.Scheduler backed by a cron runner for
// periodic alarms and plain timers for one-shots.
func NewScheduler() alarm.Scheduler {
	return &scheduler{
		log:     logrus.StandardLogger().WithField("service", "alarm_scheduler"),
		entries: make(map[string]*entry),
		cron:    cron.New(cron.WithLocation(time.UTC)),
	}
}

// Create implements alarm.Scheduler.Create
func (s *scheduler) Create(name string, policy alarm.Policy) error {
	if err := policy.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(name)

	e := &entry{policy: policy}

	if policy.PeriodMinutes > 0 {
		id, err := s.cron.AddFunc(fmt.Sprintf("@every %dm", policy.PeriodMinutes), func() {
			s.fire(name)
		})
		if err != nil {
			return errors.Wrap(err, "failure registering periodic alarm")
		}
		e.cronID = id
	} else {
		delay := time.Until(policy.At)
		if delay < 0 {
			delay = 0
		}
		e.timer = time.AfterFunc(delay, func() {
			s.mu.Lock()
			delete(s.entries, name)
			s.mu.Unlock()

			s.fire(name)
		})
	}

	s.entries[name] = e
	return nil
}

// Clear implements alarm.Scheduler.Clear
func (s *scheduler) Clear(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.removeLocked(name)
}

// Start implements alarm.Scheduler.Start
func (s *scheduler) Start(ctx context.Context, handler alarm.Handler) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.New("scheduler already started")
	}
	s.started = true
	s.handler = handler
	s.ctx = ctx
	s.mu.Unlock()

	s.cron.Start()

	<-ctx.Done()

	s.Stop()
	return ctx.Err()
}

// Stop implements alarm.Scheduler.Stop
func (s *scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false

	s.cron.Stop()
	for _, e := range s.entries {
		if e.timer != nil {
			e.timer.Stop()
		}
	}
}

func (s *scheduler) fire(name string) {
	s.mu.Lock()
	handler := s.handler
	ctx := s.ctx
	started := s.started
	s.mu.Unlock()

	if !started || handler == nil {
		return
	}

	s.log.WithField("alarm", name).Trace("alarm fired")

	handler(ctx, name)
}

func (s *scheduler) removeLocked(name string) bool {
	e, ok := s.entries[name]
	if !ok {
		return false
	}

	if e.timer != nil {
		e.timer.Stop()
	} else {
		s.cron.Remove(e.cronID)
	}

	delete(s.entries, name)
	return true
}
