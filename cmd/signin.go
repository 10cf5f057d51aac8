// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"time"

	"alumnet/cli/internal/logging"
	"alumnet/cli/internal/terminal"

	"github.com/spf13/cobra"
)

var signinEmail string

// signinCmd signs in with email and password and stores the session in the
// OS keychain.
var signinCmd = &cobra.Command{
	Use:     "signin",
	Aliases: []string{"login"},
	Short:   "Sign in with email and password",
	Long: `The signin command authenticates with your email and password. The password is
read without echo. On success the session is stored in the OS keychain and refreshed
automatically by later commands, your profile is loaded, and you land on the dashboard.

If you are already signed in, nothing happens.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		a, err := newApp(ctx, "/signin")
		if err != nil {
			return err
		}
		defer a.Close()

		if st := a.session.Snapshot(); st.CurrentUser != nil {
			fmt.Printf("Already signed in as %s\n", st.CurrentUser.Email)
			return nil
		}

		p := terminal.NewPrompter()
		email := signinEmail
		if email == "" {
			if email, err = p.Ask("Email: "); err != nil {
				return err
			}
		}
		password, err := p.Password("Password: ")
		if err != nil {
			return err
		}

		a.session.SignIn(ctx, email, password)
		a.session.Wait()

		st := a.session.Snapshot()
		if st.Error != "" {
			if a.net.ReportMessage("signing in", st.Error) {
				return errReported
			}
			logging.PresentAuthError("Could not sign in", st.Error)
			return errReported
		}
		printCurrentUser(st)
		printView(a.nav.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(signinCmd)
	signinCmd.Flags().StringVarP(&signinEmail, "email", "e", "", "Account email (prompted when omitted)")
}
