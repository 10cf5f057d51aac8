// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package router holds the view paths of the CLI and the session route guard.
package router

import (
	"net/url"
	"path"
	"strings"
)

const (
	Root      = "/"
	SignIn    = "/signin"
	SignUp    = "/signup"
	Dashboard = "/dashboard"
)

// public paths are reachable without a session.
var public = map[string]bool{
	Root:   true,
	SignIn: true,
	SignUp: true,
}

// IsPublic reports whether p is reachable without a session.
func IsPublic(p string) bool {
	return public[Clean(p)]
}

// Clean drops any query or fragment and returns the rooted, cleaned path.
func Clean(p string) string {
	if u, err := url.Parse(p); err == nil {
		p = u.Path
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// Guard applies the two session rules to the current path: signed-out users
// outside the public paths go to SignIn, and users whose profile is loaded go
// from SignIn or Root to Dashboard. It returns the target and whether a
// redirect is due.
func Guard(current string, authenticated, profileLoaded bool) (string, bool) {
	p := Clean(current)
	if !authenticated && !public[p] {
		return SignIn, true
	}
	if profileLoaded && (p == SignIn || p == Root) {
		return Dashboard, true
	}
	return "", false
}
