// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import "alumnet/cli/internal/router"

// redirect applies the route guard to the current view. It runs on the
// scheduler after every state change and does nothing while loading.
func (m *Manager) redirect() {
	if m.navigator == nil {
		return
	}
	st := m.Snapshot()
	if st.IsLoading {
		return
	}
	from := m.navigator.Path()
	to, ok := router.Guard(from, st.CurrentUser != nil, st.Profile != nil)
	if !ok || to == router.Clean(from) {
		return
	}
	m.log.Debug("redirecting", m.log.Args("from", from, "to", to))
	m.navigator.Navigate(to)
}
