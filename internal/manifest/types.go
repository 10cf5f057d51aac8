// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package manifest holds the endpoint configuration of the hosted backend.
package manifest

import (
	"net/url"
	"strings"
)

// Manifest represents the endpoint configuration of the hosted backend.
type Manifest struct {
	// BaseURL is the project URL, e.g. "https://<ref>.supabase.co".
	BaseURL string `json:"base_url"`
	// AnonKey is the public (anonymous role) API key sent with every request.
	AnonKey string        `json:"anon_key"`
	HTTP    HTTPEndpoints `json:"http"`
}

// HTTPEndpoints contains REST API endpoint paths.
type HTTPEndpoints struct {
	Token  string `json:"token"`  // e.g., "/auth/v1/token"
	SignUp string `json:"signup"` // e.g., "/auth/v1/signup"
	Logout string `json:"logout"` // e.g., "/auth/v1/logout"
	User   string `json:"user"`   // e.g., "/auth/v1/user"
	Health string `json:"health"` // e.g., "/auth/v1/health"
	Rest   string `json:"rest"`   // e.g., "/rest/v1"
}

// HTTPBaseURL returns the normalized base URL without a trailing slash.
// An unparsable or relative URL yields an empty string.
func (m *Manifest) HTTPBaseURL() string {
	u, err := url.Parse(strings.TrimSpace(m.BaseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return strings.TrimRight(u.Scheme+"://"+u.Host+u.Path, "/")
}

// Host returns the host part of the base URL for error messages.
func (m *Manifest) Host() string {
	u, err := url.Parse(m.BaseURL)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
