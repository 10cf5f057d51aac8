// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"time"

	"alumnet/cli/internal/logging"
	"alumnet/cli/internal/profile"
	"alumnet/cli/internal/terminal"

	"github.com/spf13/cobra"
)

var (
	signupName  string
	signupEmail string
	signupRole  string
)

// signupCmd creates an account. The backend provisions the profile from the
// name and role given here.
var signupCmd = &cobra.Command{
	Use:     "signup",
	Aliases: []string{"register"},
	Short:   "Create an account",
	Long: `The signup command creates an account for a student, professor or alumnus.
Your name and role are stored with the account and used to create your member
profile. If the backend requires email confirmation, open the link it sends you
and then run 'alumnet signin'.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		p := terminal.NewPrompter()
		var err error
		name := signupName
		if name == "" {
			if name, err = p.Ask("Full name: "); err != nil {
				return err
			}
		}
		email := signupEmail
		if email == "" {
			if email, err = p.Ask("Email: "); err != nil {
				return err
			}
		}
		rawRole := signupRole
		if rawRole == "" {
			if rawRole, err = p.Ask("Role (student, professor, alumni): "); err != nil {
				return err
			}
		}
		role, err := profile.ParseRole(rawRole)
		if err != nil {
			return err
		}
		password, err := p.Password("Password: ")
		if err != nil {
			return err
		}

		a, err := newApp(ctx, "/signup")
		if err != nil {
			return err
		}
		defer a.Close()

		a.session.SignUp(ctx, name, email, password, role)
		a.session.Wait()

		st := a.session.Snapshot()
		if st.Error != "" {
			if a.net.ReportMessage("creating the account", st.Error) {
				return errReported
			}
			logging.PresentAuthError("Could not create the account", st.Error)
			return errReported
		}
		if st.CurrentUser == nil {
			fmt.Println("📧 Check your inbox to confirm your email, then run 'alumnet signin'.")
			return nil
		}
		printCurrentUser(st)
		printView(a.nav.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(signupCmd)
	signupCmd.Flags().StringVar(&signupName, "name", "", "Full name (prompted when omitted)")
	signupCmd.Flags().StringVarP(&signupEmail, "email", "e", "", "Account email (prompted when omitted)")
	signupCmd.Flags().StringVar(&signupRole, "role", "", "student, professor or alumni (prompted when omitted)")
}
