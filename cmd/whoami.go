// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// whoamiCmd shows the signed-in account. Loading it refreshes an expired
// access token first.
var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Aliases: []string{"me"},
	Short:   "Show the signed-in account",
	Long: `The whoami command restores the stored session, refreshing it if the access token
has expired, and shows the account and profile it belongs to. A session whose
refresh token was revoked is removed.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "")
		if err != nil {
			return err
		}
		defer a.Close()

		st := a.session.Snapshot()
		printCurrentUser(st)
		if st.Session != nil && verbose {
			fmt.Printf("   state: %s, token expires %s\n", st.Phase(), st.Session.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
