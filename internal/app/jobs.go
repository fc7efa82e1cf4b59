package app

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	toastSweepSpec   = "@every 1s"
	sessionSweepSpec = "@every 1m"
)

type sweeper interface {
	Sweep()
}

// evictor is a per-session store that can drop idle sessions.
type evictor interface {
	Evict(before time.Time) int
}

type jobLog interface {
	Info(string, ...zap.Field)
}

// newScheduler registers the toast sweep and the idle-session eviction.
// A session unseen for ttl can no longer present a valid token, so its
// carts and chats are dropped.
func newScheduler(log jobLog, toasts sweeper, ttl time.Duration, stores ...evictor) (*cron.Cron, error) {
	sched := cron.New(cron.WithSeconds())

	if _, err := sched.AddFunc(toastSweepSpec, toasts.Sweep); err != nil {
		return nil, fmt.Errorf("schedule toast sweep: %w", err)
	}
	_, err := sched.AddFunc(sessionSweepSpec, func() {
		evictSessions(log, time.Now().Add(-ttl), stores)
	})
	if err != nil {
		return nil, fmt.Errorf("schedule session sweep: %w", err)
	}
	return sched, nil
}

func evictSessions(log jobLog, before time.Time, stores []evictor) int {
	n := 0
	for _, s := range stores {
		n += s.Evict(before)
	}
	if n > 0 {
		log.Info("idle sessions evicted", zap.Int("count", n), zap.Time("before", before))
	}
	return n
}
