// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package manifest

import "sync"

var (
	// resolved is the manifest chosen for this process; there is exactly one
	// backend handle per process, so the endpoints never change once resolved.
	resolved   *Manifest
	resolvedMu sync.RWMutex
)

// GetCached returns the resolved manifest, or nil if Resolve has not succeeded yet.
func GetCached() *Manifest {
	resolvedMu.RLock()
	defer resolvedMu.RUnlock()
	return resolved
}

// SetCached stores the resolved manifest.
func SetCached(m *Manifest) {
	resolvedMu.Lock()
	defer resolvedMu.Unlock()
	resolved = m
}

// ClearCache forgets the resolved manifest (primarily for testing).
func ClearCache() {
	resolvedMu.Lock()
	defer resolvedMu.Unlock()
	resolved = nil
}
