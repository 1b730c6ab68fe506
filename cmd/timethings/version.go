package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/timethings"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of timethings",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("timethings version %s\n", strings.TrimSpace(timethings.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
