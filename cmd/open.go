// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"alumnet/cli/internal/router"

	"github.com/spf13/cobra"
)

// openCmd opens a view the way a browser would load it: the session is
// checked first and the route guard may send you elsewhere.
var openCmd = &cobra.Command{
	Use:   "open [path]",
	Short: "Open a view, applying the sign-in redirects",
	Long: `The open command resolves which view you end up on for a path. Signed-out users
are sent to /signin from any path other than /, /signin and /signup. Signed-in users
whose profile is loaded are sent from / and /signin to /dashboard.`,
	Example: `  alumnet open /dashboard
  alumnet open /signin`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := router.Root
		if len(args) == 1 {
			path = router.Clean(args[0])
		}

		a, err := newApp(cmd.Context(), path)
		if err != nil {
			return err
		}
		defer a.Close()

		if got := a.nav.Path(); got != path {
			fmt.Printf("↪ %s redirected to %s\n", path, got)
		}
		printView(a.nav.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}
