// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors explains transport failures talking to the backend.
// Commands see failures either as errors (version check) or as the message
// stored in session state (account and profile operations); both are
// classified here and rendered with the same guidance.
package httperrors

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"

	"github.com/pterm/pterm"

	"alumnet/cli/internal/backend"
	"alumnet/cli/internal/logging"
)

// Kind is the class of a transport failure.
type Kind int

const (
	None Kind = iota
	Timeout
	DNS
	Refused
	TLS
	Unavailable
)

func (k Kind) String() string {
	switch k {
	case Timeout:
		return "timeout"
	case DNS:
		return "dns"
	case Refused:
		return "refused"
	case TLS:
		return "tls"
	case Unavailable:
		return "unavailable"
	}
	return "none"
}

// Classify returns the transport class of err, or None when the backend
// answered and the failure is its verdict.
func Classify(err error) Kind {
	if err == nil {
		return None
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status >= http.StatusInternalServerError {
			return Unavailable
		}
		return None
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return DNS
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Timeout
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return Refused
	}
	return ClassifyMessage(err.Error())
}

// ClassifyMessage classifies a failure known only by its text.
func ClassifyMessage(msg string) Kind {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "no such host"),
		strings.Contains(lower, "server misbehaving"):
		return DNS
	case strings.Contains(lower, "connection refused"):
		return Refused
	case strings.Contains(lower, "timeout"),
		strings.Contains(lower, "deadline exceeded"):
		return Timeout
	case strings.Contains(lower, "tls:"),
		strings.Contains(lower, "x509:"),
		strings.Contains(lower, "certificate"):
		return TLS
	case strings.Contains(lower, "bad gateway"),
		strings.Contains(lower, "service unavailable"),
		strings.Contains(lower, "gateway timeout"),
		strings.Contains(lower, "internal server error"):
		return Unavailable
	}
	return None
}

// IsNetworkError reports whether err is a transport failure rather than a
// response from the backend.
func IsNetworkError(err error) bool {
	return Classify(err) != None
}

type guidance struct {
	headline string
	hints    []string
}

var guide = map[Kind]guidance{
	Timeout: {
		headline: "No answer from %s in time.",
		hints: []string{
			"Check your internet connection",
			"Try again in a few moments",
		},
	},
	DNS: {
		headline: "Could not find %s.",
		hints: []string{
			"Check your internet connection",
			"If you set a custom backend, check it with 'alumnet config show'",
		},
	},
	Refused: {
		headline: "The connection to %s was refused.",
		hints: []string{
			"If you run a local stack, make sure it is started",
			"Reset a custom backend with 'alumnet config set backend_url'",
		},
	},
	TLS: {
		headline: "The secure connection to %s failed.",
		hints: []string{
			"Check your system date and time",
			"A proxy may be intercepting HTTPS traffic",
		},
	},
	Unavailable: {
		headline: "The server at %s is having trouble right now.",
		hints: []string{
			"Nothing is wrong on your side; try again in a few minutes",
		},
	},
}

// Reporter renders transport failures for one backend host.
type Reporter struct {
	w    io.Writer
	host string
}

// NewReporter returns a Reporter writing to w. host names the backend in
// messages; empty means a generic name.
func NewReporter(w io.Writer, host string) *Reporter {
	if host == "" {
		host = "the alumnet backend"
	}
	return &Reporter{w: w, host: host}
}

// Report explains err when it is a transport failure and reports whether it
// did. action describes what was being done, e.g. "signing in".
func (r *Reporter) Report(action string, err error) bool {
	if err == nil {
		return false
	}
	return r.render(action, Classify(err), err.Error())
}

// ReportMessage is Report for a failure known only by its message.
func (r *Reporter) ReportMessage(action, msg string) bool {
	return r.render(action, ClassifyMessage(msg), msg)
}

func (r *Reporter) render(action string, kind Kind, detail string) bool {
	g, ok := guide[kind]
	if !ok {
		return false
	}
	pterm.Error.WithWriter(r.w).Printfln("Network problem while %s", action)
	fmt.Fprintf(r.w, g.headline+"\n", r.host)
	for _, h := range g.hints {
		fmt.Fprintf(r.w, "  • %s\n", h)
	}
	if detail != "" {
		fmt.Fprintln(r.w, pterm.Gray("Details: "+truncate(logging.Mask(detail), 160)))
	}
	return true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
