// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/spf13/cobra"
)

// signoutCmd ends the session remotely and removes it from the OS keychain.
var signoutCmd = &cobra.Command{
	Use:     "signout",
	Aliases: []string{"logout"},
	Short:   "Sign out and remove the stored session",
	Long: `The signout command revokes the current session with the backend and then
removes it from the OS keychain. If the backend cannot be reached the session is
kept, so you can retry.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, "")
		if err != nil {
			return err
		}
		defer a.Close()

		if a.session.Snapshot().CurrentUser == nil {
			printNotSignedIn()
			return nil
		}

		a.session.SignOut(ctx)
		a.session.Wait()

		if a.failed() {
			a.explainFailure("signing out")
			return errReported
		}
		printView(a.nav.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(signoutCmd)
}
