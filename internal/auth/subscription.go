// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import "sync"

type listenerEntry struct {
	id uint64
	fn Listener
}

// Subscription is the handle returned by OnAuthStateChange.
type Subscription struct {
	c    *Client
	id   uint64
	once sync.Once
}

// OnAuthStateChange registers fn for every subsequent session change.
// Listeners run synchronously on the goroutine that caused the change, in
// registration order, without any client lock held.
func (c *Client) OnAuthStateChange(fn Listener) *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	sub := &Subscription{c: c, id: c.nextID}
	if !c.closed {
		c.listeners = append(c.listeners, listenerEntry{id: sub.id, fn: fn})
	}
	return sub
}

// Unsubscribe stops delivery to the listener. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		c := s.c
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, l := range c.listeners {
			if l.id == s.id {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	})
}

// emit delivers event to a snapshot of the listeners. Each listener gets its
// own copy of the session.
func (c *Client) emit(event Event, s *Session) {
	c.mu.Lock()
	ls := make([]listenerEntry, len(c.listeners))
	copy(ls, c.listeners)
	c.mu.Unlock()

	c.log.Debug("auth state changed", c.log.Args("event", string(event), "listeners", len(ls)))
	for _, l := range ls {
		l.fn(event, s.Clone())
	}
}
