package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/timethings/internal/platform"
)

// vaultEnv overrides the vault location when --vault is not given.
const vaultEnv = "TIMETHINGS_VAULT"

var (
	verbose   bool
	vaultPath string
	readOnly  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "timethings",
	Short: "Keep last-modified and edit-time fields in Markdown frontmatter",
	Long: `timethings tracks when and for how long your notes are edited.
It writes a last-modified timestamp and an accumulated edit duration into
the frontmatter header of each Markdown note in a vault.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&vaultPath, "vault", "", "Vault directory (default: $"+vaultEnv+", then the nearest vault above the working directory)")
	rootCmd.PersistentFlags().BoolVar(&readOnly, "read-only", false, "Never write to the vault")
}

// resolveVault picks the vault directory from the flag, the environment or
// the working directory.
func resolveVault() string {
	if vaultPath != "" {
		return vaultPath
	}
	if env := os.Getenv(vaultEnv); env != "" {
		return env
	}
	wd, err := os.Getwd()
	if err != nil {
		fatal("Failed to get working directory", err)
	}
	if root, err := platform.FindRoot(wd); err == nil {
		return root
	}
	return wd
}

// openApp opens the vault, which must exist.
func openApp(opts ...platform.Option) *platform.App {
	base := []platform.Option{
		platform.WithLogger(slog.Default()),
		platform.WithMustExist(true),
		platform.WithReadOnly(readOnly),
	}
	app, err := platform.New(resolveVault(), append(base, opts...)...)
	if err != nil {
		fatal("Failed to open vault", err)
	}
	return app
}
