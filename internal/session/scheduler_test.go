// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"sync"
	"testing"
)

func TestSchedulerRunsInOrder(t *testing.T) {
	s := newScheduler()
	defer s.Close()

	var mu sync.Mutex
	var got []int
	record := func(i int) func() {
		return func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		}
	}

	gate := make(chan struct{})
	s.Defer(func() { <-gate })
	s.Defer(func() {
		record(1)()
		// Deferred from inside a task: runs after the current one returns.
		s.Defer(record(3))
		record(2)()
	})
	s.Defer(record(4))
	close(gate)
	s.Wait()

	want := []int{1, 2, 4, 3}
	if len(got) != len(want) {
		t.Fatalf("ran %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ran %v, want %v", got, want)
		}
	}
}

func TestSchedulerWaitCoversBackgroundJobs(t *testing.T) {
	s := newScheduler()
	defer s.Close()

	release := make(chan struct{})
	var done bool
	var mu sync.Mutex
	s.Go(func() {
		<-release
		s.Defer(func() {
			mu.Lock()
			done = true
			mu.Unlock()
		})
	})
	close(release)
	s.Wait()

	mu.Lock()
	defer mu.Unlock()
	if !done {
		t.Fatal("Wait returned before the job's follow-up task ran")
	}
}

func TestSchedulerClosed(t *testing.T) {
	s := newScheduler()
	s.Close()
	s.Close()

	if s.Defer(func() {}) {
		t.Fatal("Defer accepted after Close")
	}
	if s.Go(func() {}) {
		t.Fatal("Go accepted after Close")
	}
	s.Wait()
}
