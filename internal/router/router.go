// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package router

import "sync"

// Router is the in-process navigator. It tracks the current view and the
// navigation history for the lifetime of a command.
type Router struct {
	mu        sync.Mutex
	current   string
	history   []string
	observers []func(from, to string)
}

// New starts at start, or Root when start is empty.
func New(start string) *Router {
	if start == "" {
		start = Root
	}
	return &Router{current: Clean(start)}
}

// Path returns the current view path.
func (r *Router) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Navigate moves to p and notifies observers.
func (r *Router) Navigate(p string) {
	p = Clean(p)
	r.mu.Lock()
	from := r.current
	r.current = p
	r.history = append(r.history, p)
	obs := append([]func(string, string){}, r.observers...)
	r.mu.Unlock()

	for _, fn := range obs {
		fn(from, p)
	}
}

// History returns every path navigated to, oldest first. The start path is
// not included.
func (r *Router) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.history...)
}

// OnNavigate registers fn to run after each navigation.
func (r *Router) OnNavigate(fn func(from, to string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, fn)
}
