// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
)

// VerboseEnv forces debug diagnostics when set to "1".
const VerboseEnv = "ALUMNET_VERBOSE"

// Verbose reports whether verbose diagnostics were requested through the environment.
func Verbose() bool {
	return os.Getenv(VerboseEnv) == "1"
}

// ParseLevel maps a config log level onto a pterm level. Unknown values mean info.
func ParseLevel(s string) pterm.LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return pterm.LogLevelTrace
	case "debug":
		return pterm.LogLevelDebug
	case "warn", "warning":
		return pterm.LogLevelWarn
	case "error":
		return pterm.LogLevelError
	case "off", "disabled", "none":
		return pterm.LogLevelDisabled
	default:
		return pterm.LogLevelInfo
	}
}

// New returns the diagnostic logger writing to w at the given level.
// Verbose mode overrides the level with debug.
func New(level string, w io.Writer) *pterm.Logger {
	lvl := ParseLevel(level)
	if Verbose() {
		lvl = pterm.LogLevelDebug
	}
	return pterm.DefaultLogger.WithLevel(lvl).WithWriter(w)
}

// Discard returns a logger that drops everything.
func Discard() *pterm.Logger {
	return pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled).WithWriter(io.Discard)
}
