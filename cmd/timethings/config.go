package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/timethings/internal/platform"
	"github.com/aretw0/timethings/pkg/adapters/fs"
	"github.com/aretw0/timethings/pkg/core"
)

var configJSON bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the vault settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the settings in use",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp()
		s := app.Tracker.Settings()

		if configJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(s); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}
		out, err := yaml.Marshal(s)
		if err != nil {
			fatal("Failed to encode settings", err)
		}
		fmt.Print(string(out))
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the setting keys accepted by config set",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp()
		keys, err := fs.Keys(app.Tracker.Settings())
		if err != nil {
			fatal("Failed to list settings", err)
		}
		names := make([]string, 0, len(keys))
		for k := range keys {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			fmt.Printf("%s = %v\n", k, keys[k])
		}
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change one setting, addressed by its dotted key, and save it in the vault.

  timethings config set mode line
  timethings config set duration.non_typing_percentage 30
  timethings config set filter.exclude "[templates/**]"`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp()
		if _, err := app.Settings.Set(args[0], args[1]); err != nil {
			fatal("Failed to change setting", err)
		}
		fmt.Printf("%s = %s\n", args[0], args[1])
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default settings",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		// The persisted settings may be the reason for the reset.
		app := openApp(platform.WithSettings(core.DefaultSettings()))
		if _, err := app.Settings.Reset(); err != nil {
			fatal("Failed to reset settings", err)
		}
		fmt.Println("Settings restored to defaults")
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configKeysCmd, configSetCmd, configResetCmd)
	configShowCmd.Flags().BoolVar(&configJSON, "json", false, "Output in JSON format")
}
