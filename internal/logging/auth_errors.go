// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

// AuthErrorType represents the category of a provider authentication error
type AuthErrorType int

const (
	AuthErrorUnknown AuthErrorType = iota
	AuthErrorInvalidCredentials
	AuthErrorEmailNotConfirmed
	AuthErrorAlreadyRegistered
	AuthErrorWeakPassword
	AuthErrorRateLimited
)

// ParseAuthError categorizes a provider error message. Transport failures
// are not provider verdicts and are explained by package httperrors.
func ParseAuthError(errMsg string) AuthErrorType {
	lower := strings.ToLower(errMsg)

	switch {
	case strings.Contains(lower, "invalid login credentials") || strings.Contains(lower, "invalid_credentials"):
		return AuthErrorInvalidCredentials
	case strings.Contains(lower, "email not confirmed"):
		return AuthErrorEmailNotConfirmed
	case strings.Contains(lower, "already registered") || strings.Contains(lower, "already exists"):
		return AuthErrorAlreadyRegistered
	case strings.Contains(lower, "password should be") || strings.Contains(lower, "weak password"):
		return AuthErrorWeakPassword
	case strings.Contains(lower, "rate limit") || strings.Contains(lower, "too many requests"):
		return AuthErrorRateLimited
	}
	return AuthErrorUnknown
}

// FormatAuthError renders a provider error with guidance for the user.
func FormatAuthError(title, errMsg string) string {
	var builder strings.Builder

	builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint(title))
	builder.WriteString("\n\n")

	switch ParseAuthError(errMsg) {
	case AuthErrorInvalidCredentials:
		builder.WriteString("The email or password is incorrect.\n")
		builder.WriteString("  • Check for typos in your email address\n")
		builder.WriteString("  • Passwords are case-sensitive\n")
	case AuthErrorEmailNotConfirmed:
		builder.WriteString("Your email address has not been confirmed yet.\n")
		builder.WriteString("  • Open the confirmation link we sent you, then sign in again\n")
	case AuthErrorAlreadyRegistered:
		builder.WriteString("An account with this email already exists.\n")
		builder.WriteString("  • Run 'alumnet signin' instead\n")
	case AuthErrorWeakPassword:
		builder.WriteString("The password does not meet the requirements.\n")
		builder.WriteString("  • Use at least 6 characters\n")
	case AuthErrorRateLimited:
		builder.WriteString("Too many attempts in a short time.\n")
		builder.WriteString("  • Wait a minute before trying again\n")
	default:
		builder.WriteString("The authentication service rejected the request.\n")
	}

	if strings.TrimSpace(errMsg) != "" {
		builder.WriteString("\n")
		builder.WriteString(pterm.NewStyle(pterm.FgGray).Sprint("Details: " + Mask(errMsg)))
	}
	return builder.String()
}

// PresentAuthError displays a formatted provider error
func PresentAuthError(title, errMsg string) {
	fmt.Println()
	fmt.Println(FormatAuthError(title, errMsg))
	fmt.Println()
}
