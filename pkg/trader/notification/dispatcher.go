package notification

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/csgotrader/trader-server/pkg/trader/data"
	"github.com/csgotrader/trader-server/pkg/trader/data/settings"
)

const (
	metricsStructName = "notification_dispatcher"
)

// Dispatcher emits user-visible alerts with an optional audio cue.
// Sending an ID that was already sent replaces the prior notification.
type Dispatcher struct {
	log      *logrus.Entry
	data     data.Provider
	notifier Notifier

	mu   sync.Mutex
	sent map[string]struct{}
}

// NewDispatcher returns a new Dispatcher
func NewDispatcher(data data.Provider, notifier Notifier) *Dispatcher {
	return &Dispatcher{
		log:      logrus.StandardLogger().WithField("service", "notification_dispatcher"),
		data:     data,
		notifier: notifier,
		sent:     make(map[string]struct{}),
	}
}

// Send emits a notification and, when the sound setting is on, the
// audio cue.
func (d *Dispatcher) Send(ctx context.Context, n *Notification) error {
	log := d.log.WithFields(logrus.Fields{
		"method": "Send",
		"id":     n.ID.String(),
	})

	d.mu.Lock()
	_, replaced := d.sent[n.ID.String()]
	d.sent[n.ID.String()] = struct{}{}
	d.mu.Unlock()

	if replaced {
		log.Debug("replacing previously sent notification")
	}

	if err := d.notifier.Send(ctx, n); err != nil {
		log.WithError(err).Warn("failure sending notification")
		return err
	}

	soundOn, err := d.data.GetBoolSetting(ctx, settings.KeyNotificationSoundOn)
	if err != nil {
		soundOn = false
	}
	if soundOn {
		if err := d.notifier.PlaySound(ctx); err != nil {
			log.WithError(err).Warn("failure playing notification sound")
		}
	}
	return nil
}
