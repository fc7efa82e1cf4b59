// Package toast keeps the short-lived notifications shown to users after an
// action (item added, stock updated, ...).
package toast

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/drstein77/storefront/internal/models"
)

const (
	// DismissAfter is how long a toast stays before it starts exiting.
	DismissAfter = 4 * time.Second
	// ExitDelay is how long an exiting toast lingers before removal.
	ExitDelay = 300 * time.Millisecond
)

type entry struct {
	session   string
	toast     models.Toast
	shownAt   time.Time
	exitingAt time.Time
}

type Center struct {
	mx      sync.Mutex
	entries []entry
	now     func() time.Time
}

// NewCenter returns an empty center; Sweep has to be called periodically.
func NewCenter() *Center {
	return &Center{now: time.Now}
}

// Show queues a toast for a session. An empty type means success.
func (c *Center) Show(session, message string, typ models.ToastType) models.Toast {
	if typ == "" {
		typ = models.ToastSuccess
	}
	t := models.Toast{ID: uuid.NewString(), Message: message, Type: typ}

	c.mx.Lock()
	c.entries = append(c.entries, entry{session: session, toast: t, shownAt: c.now()})
	c.mx.Unlock()
	return t
}

// Remove starts the exit of a toast; it disappears from List after ExitDelay.
// It reports false for unknown toasts and for those already exiting.
func (c *Center) Remove(session, id string) bool {
	c.mx.Lock()
	defer c.mx.Unlock()

	i := slices.IndexFunc(c.entries, func(e entry) bool { return e.session == session && e.toast.ID == id })
	if i < 0 || c.entries[i].toast.Exiting {
		return false
	}
	c.markExiting(&c.entries[i], c.now())
	return true
}

func (c *Center) List(session string) []models.Toast {
	c.mx.Lock()
	defer c.mx.Unlock()

	out := []models.Toast{}
	for _, e := range c.entries {
		if e.session == session {
			out = append(out, e.toast)
		}
	}
	return out
}

// Sweep expires toasts older than DismissAfter and drops those that finished exiting.
func (c *Center) Sweep() {
	c.mx.Lock()
	defer c.mx.Unlock()

	now := c.now()
	for i := range c.entries {
		if !c.entries[i].toast.Exiting && now.Sub(c.entries[i].shownAt) >= DismissAfter {
			c.markExiting(&c.entries[i], now)
		}
	}
	c.entries = slices.DeleteFunc(c.entries, func(e entry) bool {
		return e.toast.Exiting && now.Sub(e.exitingAt) >= ExitDelay
	})
}

func (c *Center) markExiting(e *entry, now time.Time) {
	if e.toast.Exiting {
		return
	}
	e.toast.Exiting = true
	e.exitingAt = now
}
