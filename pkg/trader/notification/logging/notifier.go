// Package logging provides a Notifier that writes alerts to the log,
// used when no platform notification surface is attached.
package logging

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/csgotrader/trader-server/pkg/trader/notification"
)

type notifier struct {
	log *logrus.Entry
}

// New returns a log-backed notification.Notifier
func New() notification.Notifier {
	return &notifier{
		log: logrus.StandardLogger().WithField("service", "notifier"),
	}
}

// Send implements notification.Notifier.Send
func (n *notifier) Send(_ context.Context, notif *notification.Notification) error {
	n.log.WithFields(logrus.Fields{
		"id":    notif.ID.String(),
		"title": notif.Title,
	}).Info(notif.Message)
	return nil
}

// PlaySound implements notification.Notifier.PlaySound
func (n *notifier) PlaySound(_ context.Context) error {
	n.log.Trace("notification sound cue")
	return nil
}
