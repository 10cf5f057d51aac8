// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import "sync"

// scheduler runs deferred tasks one at a time, in submission order, on a
// single goroutine. A task submitted from inside a provider callback runs
// after that callback has returned, which is the ordering barrier that keeps
// listeners from calling back into the provider while it is notifying.
//
// It also counts background jobs started with Go so Wait can block until all
// work, queued or running, has drained.
type scheduler struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queue    []func()
	inflight int
	closed   bool
	done     chan struct{}
}

func newScheduler() *scheduler {
	s := &scheduler{done: make(chan struct{})}
	s.cond = sync.NewCond(&s.mu)
	go s.loop()
	return s
}

// Defer queues fn for the next tick. It reports false once the scheduler is
// closed.
func (s *scheduler) Defer(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.queue = append(s.queue, fn)
	s.inflight++
	s.cond.Broadcast()
	return true
}

// Go runs fn on its own goroutine and tracks it for Wait.
func (s *scheduler) Go(fn func()) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.inflight++
	s.mu.Unlock()

	go func() {
		defer s.finish()
		fn()
	}()
	return true
}

// Wait blocks until no task is queued or running.
func (s *scheduler) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.inflight > 0 {
		s.cond.Wait()
	}
}

// Close drops queued tasks, stops the loop and waits for running work.
func (s *scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.done
		return
	}
	s.closed = true
	s.inflight -= len(s.queue)
	s.queue = nil
	s.cond.Broadcast()
	s.mu.Unlock()

	<-s.done
	s.Wait()
}

func (s *scheduler) loop() {
	defer close(s.done)
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if s.closed {
			s.mu.Unlock()
			return
		}
		fn := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		s.mu.Unlock()

		fn()
		s.finish()
	}
}

func (s *scheduler) finish() {
	s.mu.Lock()
	s.inflight--
	s.cond.Broadcast()
	s.mu.Unlock()
}
