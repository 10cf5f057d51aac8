// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"alumnet/cli/internal/config"
	"alumnet/cli/internal/logging"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change CLI settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings",
	Long:  `Shows the settings in effect, after environment overrides. Credentials in the database URL are masked.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		rows := pterm.TableData{{"Setting", "Value"}}
		for _, k := range config.Keys {
			v, _ := c.Get(k)
			if v == "" {
				v = pterm.Gray("(default)")
			}
			rows = append(rows, []string{k, logging.Mask(v)})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Change a setting in the config file",
	Long: `Writes one setting to the config file. Omitting the value resets it to the default.

Keys: log_level, backend_url, anon_key, database_url, provision_timeout, start_path`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.LoadFile()
		if err != nil {
			return err
		}
		value := ""
		if len(args) == 2 {
			value = args[1]
		}
		if err := c.Set(args[0], value); err != nil {
			return err
		}
		if err := config.Save(c); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		pterm.Success.Printfln("%s updated", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
