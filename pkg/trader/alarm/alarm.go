package alarm

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// Reserved alarm names. Any other name is treated as a bookmark
// tradability timer keyed by asset id.
const (
	NameNotificationCount = "getSteamNotificationCount"
	NameRetryPriceUpdate  = "retryUpdatePricesAndExchangeRates"
	NameDailyTasks        = "dailyScheduledTasks"
	NameRestartChecks     = "restartNotificationChecks"
)

// IsReserved reports whether name is one of the fixed alarm names
func IsReserved(name string) bool {
	switch name {
	case NameNotificationCount, NameRetryPriceUpdate, NameDailyTasks, NameRestartChecks:
		return true
	}
	return false
}

// Policy is either a recurring minute period or an absolute one-shot
// fire time. Exactly one field may be set.
type Policy struct {
	PeriodMinutes int
	At            time.Time
}

// Validate validates a Policy
func (p *Policy) Validate() error {
	hasPeriod := p.PeriodMinutes > 0
	hasAt := !p.At.IsZero()

	if hasPeriod == hasAt {
		return errors.New("policy requires exactly one of a period or an absolute time")
	}
	return nil
}

// Periodic returns a recurring Policy with minute granularity
func Periodic(minutes int) Policy {
	return Policy{PeriodMinutes: minutes}
}

// OneShot returns a Policy firing once at the given time
func OneShot(at time.Time) Policy {
	return Policy{At: at}
}

// Handler is invoked with the name of each fired alarm. Handlers for
// independently named alarms may run concurrently with no ordering
// guarantee.
type Handler func(ctx context.Context, name string)

// Scheduler owns named alarms. Creating a name that already exists
// replaces its policy. One-shot alarms fire once and disappear.
type Scheduler interface {
	// Create registers or replaces a named alarm
	Create(name string, policy Policy) error

	// Clear removes a named alarm, reporting whether it existed
	Clear(name string) bool

	// Start begins firing alarms, invoking the handler until Stop or
	// context cancellation.
	Start(ctx context.Context, handler Handler) error

	// Stop stops firing alarms. Registered alarms are retained.
	Stop()
}
