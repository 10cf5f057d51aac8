// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"

	"alumnet/cli/internal/profile"
	"alumnet/cli/internal/session"
)

func printNotSignedIn() {
	fmt.Println("🔒 You're not signed in yet!")
	fmt.Println("   Run 'alumnet signin' to get started.")
}

// printCurrentUser shows who is signed in and whether the profile loaded.
func printCurrentUser(st session.State) {
	if st.CurrentUser == nil {
		printNotSignedIn()
		return
	}
	id := st.CurrentUser.Email
	if id == "" {
		id = st.CurrentUser.ID
	}
	if st.Profile != nil {
		fmt.Printf("👤 Current user: %s (%s, %s)\n", id, st.Profile.Name, st.Profile.Role)
		return
	}
	fmt.Printf("👤 Current user: %s\n", id)
	fmt.Println("   Your profile is not available yet. Try 'alumnet profile refresh'.")
}

// printProfile renders p as a two-column table.
func printProfile(p *profile.Profile) error {
	data := pterm.TableData{
		{"Name", p.Name},
		{"Role", string(p.Role)},
		{"Email", p.Email},
		{"Bio", p.Bio},
		{"Avatar", p.AvatarURL},
		{"ID", p.ID},
	}
	if !p.UpdatedAt.IsZero() {
		data = append(data, []string{"Updated", p.UpdatedAt.Local().Format("2006-01-02 15:04")})
	}
	return pterm.DefaultTable.WithData(data).Render()
}

func printView(path string) {
	fmt.Printf("📍 %s\n", path)
}
