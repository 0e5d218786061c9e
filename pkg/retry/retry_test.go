package retry

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type testSleeper struct {
	slept []time.Duration
}

func (s *testSleeper) Sleep(d time.Duration) {
	s.slept = append(s.slept, d)
}

func TestRetrier(t *testing.T) {
	retriableErr := errors.New("retriable")
	r := NewRetrier(Limit(5), RetriableErrors(retriableErr))

	// Happy path always goes through
	attempts, err := r.Retry(func() error { return nil })
	assert.NoError(t, err)
	assert.Equal(t, uint(1), attempts)

	// Unknown errors are terminal immediately
	attempts, err = r.Retry(func() error { return errors.New("unknown") })
	assert.Error(t, err)
	assert.Equal(t, uint(1), attempts)

	attempts, err = r.Retry(func() error { return retriableErr })
	assert.EqualError(t, retriableErr, err.Error())
	assert.Equal(t, uint(5), attempts)
}

func TestNonRetriableErrors(t *testing.T) {
	terminal := errors.New("terminal")

	var calls int
	attempts, err := Retry(
		func() error {
			calls++
			if calls >= 3 {
				return terminal
			}
			return errors.New("transient")
		},
		NonRetriableErrors(terminal),
	)

	assert.Equal(t, terminal, err)
	assert.Equal(t, uint(3), attempts)
}

func TestLoop(t *testing.T) {
	ts := &testSleeper{}
	sleeperImpl = ts
	defer func() { sleeperImpl = &realSleeper{} }()

	errNonRetriable := errors.New("non retriable")

	var i int
	err := Loop(
		func() error {
			defer func() { i++ }()

			if i > 10 {
				return errNonRetriable
			}
			if i%2 == 0 {
				return errors.New("transient")
			}
			return nil
		},
		NonRetriableErrors(errNonRetriable),
	)

	assert.Equal(t, errNonRetriable, err)
	assert.Equal(t, 12, i)
}
