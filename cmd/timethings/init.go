package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/timethings/internal/platform"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a vault",
	Long:  `Create the .timethings directory and a settings file with the defaults in the vault.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		path := vaultPath
		if path == "" {
			path = os.Getenv(vaultEnv)
		}
		if path == "" {
			wd, err := os.Getwd()
			if err != nil {
				fatal("Failed to get working directory", err)
			}
			path = wd
		}

		app, err := platform.New(path, platform.WithLogger(slog.Default()))
		if err != nil {
			fatal("Failed to initialize vault", err)
		}

		store := app.Settings
		if _, err := os.Stat(store.Path()); errors.Is(err, os.ErrNotExist) {
			if err := store.Save(app.Tracker.Settings()); err != nil {
				fatal("Failed to write settings", err)
			}
		}

		fmt.Println("Initialized timethings vault in", app.Vault.Path)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
