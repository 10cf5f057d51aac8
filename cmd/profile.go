// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"

	"alumnet/cli/internal/profile"

	"github.com/spf13/cobra"
)

var (
	profileName   string
	profileBio    string
	profileAvatar string
)

// profileCmd groups the member profile commands.
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or edit your member profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "")
		if err != nil {
			return err
		}
		defer a.Close()

		st := a.session.Snapshot()
		if st.CurrentUser == nil {
			printNotSignedIn()
			return nil
		}
		if st.Profile == nil {
			printCurrentUser(st)
			return nil
		}
		return printProfile(st.Profile)
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change your name, bio or avatar",
	Long: `The update command changes the fields given as flags and leaves the others as
they are. Your role is fixed at sign-up and cannot be changed here.`,
	Example: `  alumnet profile update --bio "Class of 2019, now at CERN"
  alumnet profile update --name "Ada Lovelace" --avatar-url https://example.com/ada.png`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch profile.Patch
		if cmd.Flags().Changed("name") {
			patch.Name = &profileName
		}
		if cmd.Flags().Changed("bio") {
			patch.Bio = &profileBio
		}
		if cmd.Flags().Changed("avatar-url") {
			patch.AvatarURL = &profileAvatar
		}
		if patch.Empty() {
			return errors.New("nothing to update: pass --name, --bio or --avatar-url")
		}

		ctx := cmd.Context()
		a, err := newApp(ctx, "")
		if err != nil {
			return err
		}
		defer a.Close()

		st := a.session.Snapshot()
		if st.CurrentUser == nil {
			printNotSignedIn()
			return nil
		}
		a.session.UpdateProfile(ctx, patch)
		a.session.Wait()
		if a.failed() {
			a.explainFailure("updating your profile")
			return errReported
		}
		if p := a.session.Snapshot().Profile; p != nil {
			return printProfile(p)
		}
		return nil
	},
}

var profileRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch your profile again",
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
		a.session.RefreshProfile(ctx)
		a.session.Wait()

		st := a.session.Snapshot()
		if st.Profile == nil {
			fmt.Println("Your profile could not be loaded. Run with --verbose for details.")
			return errReported
		}
		return printProfile(st.Profile)
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileShowCmd, profileUpdateCmd, profileRefreshCmd)

	profileUpdateCmd.Flags().StringVar(&profileName, "name", "", "Display name")
	profileUpdateCmd.Flags().StringVar(&profileBio, "bio", "", "Short biography")
	profileUpdateCmd.Flags().StringVar(&profileAvatar, "avatar-url", "", "Avatar image URL")
}
