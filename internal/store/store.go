// Package store aggregates the session, staging and cart containers behind a
// single dispatch path. Every dispatch applies one event, persists the touched
// container and notifies subscribers before the next dispatch starts.
package store

import (
	"fmt"
	"sync"

	"github.com/mykitchen/kitchen/internal/app/model"
	"github.com/mykitchen/kitchen/internal/mirror"
	"github.com/mykitchen/kitchen/internal/state"
	"github.com/mykitchen/kitchen/pkg/logger"
)

// Mirror is the persistence the store writes through to. *mirror.Mirror
// satisfies it.
type Mirror interface {
	Save(key string, value any)
	Load(key string, out any) bool
	Remove(key string)
}

// Snapshot is a full, immutable view of the store.
type Snapshot struct {
	Session state.Session `json:"session"`
	Staging state.Staging `json:"staging"`
	Cart    state.Cart    `json:"cart"`
}

// clone detaches the snapshot from the store's internal pointers and slices.
func (s Snapshot) clone() Snapshot {
	if s.Session.Identity != nil {
		s.Session.Identity = s.Session.Identity.Clone()
	}
	if s.Staging.Recipe != nil {
		r := *s.Staging.Recipe
		r.Images = append(r.Images[:0:0], r.Images...)
		r.Ingredients = append(r.Ingredients[:0:0], r.Ingredients...)
		s.Staging.Recipe = &r
	}
	entries := make([]model.CartEntry, len(s.Cart.Entries))
	copy(entries, s.Cart.Entries)
	s.Cart.Entries = entries
	return s
}

type subscriber struct {
	id uint64
	fn func(Snapshot)
}

// Store is the state aggregator. Create one with New and pass it to every
// consumer; call Close at shutdown.
//
// Subscriber callbacks run on the dispatching goroutine while the dispatch
// lock is held. A callback must not call Dispatch itself; hand the work to
// another goroutine (for example with Go) instead.
type Store struct {
	mirror Mirror

	dispatchMu sync.Mutex

	stateMu sync.RWMutex
	current Snapshot

	subsMu sync.Mutex
	subs   []subscriber
	nextID uint64

	lifeMu sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// New builds a store and restores the session and cart mirrored by a previous
// run. A nil mirror disables persistence.
func New(m Mirror) *Store {
	if m == nil {
		m = mirror.Disabled()
	}

	s := &Store{
		mirror: m,
		current: Snapshot{
			Staging: state.NewStaging(),
		},
	}
	s.restore()
	return s
}

func (s *Store) restore() {
	var identity model.Identity
	if s.mirror.Load(mirror.SessionKey, &identity) {
		s.current.Session = s.current.Session.Apply(state.SetSession{Identity: identity})
	}

	var entries []model.CartEntry
	if s.mirror.Load(mirror.CartKey, &entries) {
		s.current.Cart = state.NewCart(entries)
	}

	logger.Info("Store restored from mirror", map[string]interface{}{
		"signed_in":    s.current.Session.SignedIn(),
		"cart_entries": len(s.current.Cart.Entries),
	})
}

// Dispatch routes ev to its container, persists the result and notifies every
// subscriber with the new snapshot, which it also returns. Calls from several
// goroutines are serialized.
func (s *Store) Dispatch(ev state.Event) Snapshot {
	return s.dispatch(ev, false)
}

// dispatch with drain set still runs after Close, so work started by Go before
// shutdown lands.
func (s *Store) dispatch(ev state.Event, drain bool) Snapshot {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	if !drain && s.isClosed() {
		logger.Warn("Dispatch on closed store ignored", map[string]interface{}{
			"event": fmt.Sprintf("%T", ev),
		})
		return s.Snapshot()
	}
	if ev == nil {
		return s.Snapshot()
	}

	s.stateMu.RLock()
	next := s.current
	s.stateMu.RUnlock()

	ns := ev.Namespace()
	switch ns {
	case state.NamespaceSession:
		next.Session = next.Session.Apply(ev)
	case state.NamespaceStaging:
		next.Staging = next.Staging.Apply(ev)
	case state.NamespaceCart:
		next.Cart = next.Cart.Apply(ev)
	default:
		logger.Warn("Event with unknown namespace ignored", map[string]interface{}{
			"namespace": string(ns),
			"event":     fmt.Sprintf("%T", ev),
		})
		return s.Snapshot()
	}

	s.stateMu.Lock()
	s.current = next
	s.stateMu.Unlock()

	logger.Debug("Event dispatched", map[string]interface{}{
		"namespace":  string(ns),
		"event":      fmt.Sprintf("%T", ev),
		"cart_total": next.Cart.Total,
	})

	s.persist(ev, next)
	s.notify(next)

	return next.clone()
}

func (s *Store) persist(ev state.Event, snap Snapshot) {
	switch ev.Namespace() {
	case state.NamespaceCart:
		entries := snap.Cart.Entries
		if entries == nil {
			entries = []model.CartEntry{}
		}
		s.mirror.Save(mirror.CartKey, entries)
	case state.NamespaceSession:
		switch ev.(type) {
		case state.SetSession, state.ClearSession:
			if snap.Session.Identity == nil {
				s.mirror.Remove(mirror.SessionKey)
			} else {
				s.mirror.Save(mirror.SessionKey, snap.Session.Identity)
			}
		}
	}
}

func (s *Store) notify(snap Snapshot) {
	s.subsMu.Lock()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.subsMu.Unlock()

	for _, sub := range subs {
		sub.fn(snap.clone())
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.current.clone()
}

// Subscribe registers fn to receive every snapshot produced by Dispatch, in
// registration order. The returned function removes this registration only;
// calling it more than once is harmless.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.subsMu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			defer s.subsMu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Subscribers reports how many callbacks are registered.
func (s *Store) Subscribers() int {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	return len(s.subs)
}

// Close waits for outstanding Go calls, drops all subscribers and rejects
// further dispatches.
func (s *Store) Close() {
	s.lifeMu.Lock()
	if s.closed {
		s.lifeMu.Unlock()
		return
	}
	s.closed = true
	s.lifeMu.Unlock()

	s.wg.Wait()

	s.subsMu.Lock()
	s.subs = nil
	s.subsMu.Unlock()

	logger.Info("Store closed", nil)
}

func (s *Store) isClosed() bool {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	return s.closed
}
