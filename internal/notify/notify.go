// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package notify shows short success and failure messages to the user.
package notify

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/pterm/pterm"
)

// Terminal prints notifications with pterm prefix printers.
type Terminal struct {
	mu      sync.Mutex
	w       io.Writer
	success pterm.PrefixPrinter
	failure pterm.PrefixPrinter
}

// NewTerminal writes to w, or stderr when w is nil.
func NewTerminal(w io.Writer) *Terminal {
	if w == nil {
		w = os.Stderr
	}
	return &Terminal{
		w:       w,
		success: *pterm.Success.WithWriter(w),
		failure: *pterm.Error.WithWriter(w),
	}
}

// Success reports a completed operation.
func (t *Terminal) Success(title, description string) {
	t.print(&t.success, title, description)
}

// Error reports a failed operation.
func (t *Terminal) Error(title, description string) {
	t.print(&t.failure, title, description)
}

func (t *Terminal) print(p *pterm.PrefixPrinter, title, description string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprint(t.w, p.Sprintln(title))
	if description != "" {
		fmt.Fprintln(t.w, pterm.Gray("  "+description))
	}
}
