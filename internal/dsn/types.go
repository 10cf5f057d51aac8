// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package dsn parses and normalizes PostgreSQL connection strings for the
// direct-database profile store.
package dsn

import "fmt"

// DefaultPort is assumed when the connection string names none.
const DefaultPort = "5432"

// Info is a parsed connection string.
type Info struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Params   map[string]string
}

// Redacted renders the connection target without credentials, for display.
func (i *Info) Redacted() string {
	return fmt.Sprintf("%s@%s:%s/%s", i.User, i.Host, i.Port, i.Database)
}

// ParseError reports a malformed connection string.
type ParseError struct {
	Reason string
	Hint   string
}

func (e *ParseError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("invalid database URL: %s\nHint: %s", e.Reason, e.Hint)
	}
	return fmt.Sprintf("invalid database URL: %s", e.Reason)
}

func parseError(reason, hint string) *ParseError {
	return &ParseError{Reason: reason, Hint: hint}
}
