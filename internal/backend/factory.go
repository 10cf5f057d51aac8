// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"alumnet/cli/internal/manifest"
)

// New creates a backend API implementation for the given manifest.
// Returns HTTP client (real backend).
func New(m *manifest.Manifest) API {
	return newHTTP(m.HTTPBaseURL(), m.AnonKey, m.HTTP)
}
