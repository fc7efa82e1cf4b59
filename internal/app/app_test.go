package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/drstein77/storefront/internal/config"
	"github.com/drstein77/storefront/internal/logger"
)

func TestServeAfterShutdownReturns(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	server := &Server{ctx: ctx, option: config.NewOptions(), Log: &logger.Logger{}}

	server.Shutdown(time.Second)

	done := make(chan struct{})
	go func() {
		server.Serve()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Serve kept running after Shutdown")
	}
	assert.Nil(t, server.srv)
}

type countingSweeper struct{ n int }

func (s *countingSweeper) Sweep() { s.n++ }

type fakeEvictor struct {
	evicted int
	before  time.Time
}

func (f *fakeEvictor) Evict(before time.Time) int {
	f.before = before
	return f.evicted
}

func TestNewScheduler(t *testing.T) {
	sched, err := newScheduler(zap.NewNop(), &countingSweeper{}, time.Hour, &fakeEvictor{})
	require.NoError(t, err)
	assert.Len(t, sched.Entries(), 2)
}

func TestEvictSessions(t *testing.T) {
	before := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	carts := &fakeEvictor{evicted: 2}
	chats := &fakeEvictor{evicted: 1}

	n := evictSessions(zap.NewNop(), before, []evictor{carts, chats})

	assert.Equal(t, 3, n)
	assert.Equal(t, before, carts.before)
	assert.Equal(t, before, chats.before)
	assert.Zero(t, evictSessions(zap.NewNop(), before, nil))
}
