package cart

import (
	"sync"
	"time"
)

type session struct {
	cart     *Cart
	wishlist *Wishlist
	seen     time.Time
}

// Sessions hands out one cart and one wishlist per session id.
type Sessions struct {
	mx       sync.Mutex
	sessions map[string]*session
	now      func() time.Time
}

func NewSessions() *Sessions {
	return &Sessions{
		sessions: make(map[string]*session),
		now:      time.Now,
	}
}

// touch returns the session entry, creating it when absent. s.mx must be held.
func (s *Sessions) touch(sessionID string) *session {
	e, ok := s.sessions[sessionID]
	if !ok {
		e = &session{cart: &Cart{}, wishlist: &Wishlist{}}
		s.sessions[sessionID] = e
	}
	e.seen = s.now()
	return e
}

func (s *Sessions) Cart(sessionID string) *Cart {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.touch(sessionID).cart
}

func (s *Sessions) Wishlist(sessionID string) *Wishlist {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.touch(sessionID).wishlist
}

// Wished reports whether the product is on the session's wishlist. Unlike
// Wishlist it never creates an entry for an unknown session.
func (s *Sessions) Wished(sessionID, productID string) bool {
	s.mx.Lock()
	e, ok := s.sessions[sessionID]
	if ok {
		e.seen = s.now()
	}
	s.mx.Unlock()
	return ok && e.wishlist.Contains(productID)
}

// Forget drops a product from every cart and wishlist.
func (s *Sessions) Forget(productID string) {
	s.mx.Lock()
	defer s.mx.Unlock()

	for _, e := range s.sessions {
		e.cart.Remove(productID)
		e.wishlist.Remove(productID)
	}
}

// Evict drops the sessions last seen before the given time and returns how
// many went.
func (s *Sessions) Evict(before time.Time) int {
	s.mx.Lock()
	defer s.mx.Unlock()

	n := 0
	for id, e := range s.sessions {
		if e.seen.Before(before) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Len is the number of live sessions.
func (s *Sessions) Len() int {
	s.mx.Lock()
	defer s.mx.Unlock()
	return len(s.sessions)
}
