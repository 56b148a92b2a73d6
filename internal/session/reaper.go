package session

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/01moynul/storefront-golang/internal/metrics"
)

// StartReaper schedules DeleteExpired on schedule (standard cron or "@every"
// syntax) and starts the scheduler. Stop the returned cron on shutdown.
func StartReaper(store *Store, schedule string, log logrus.FieldLogger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		n, err := store.DeleteExpired(ctx)
		if err != nil {
			log.WithError(err).Error("session reaper failed")
			return
		}
		metrics.RecordSessionsReaped(n)
		if n > 0 {
			log.WithField("deleted", n).Info("expired sessions reaped")
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
