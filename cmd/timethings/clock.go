package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clockCmd = &cobra.Command{
	Use:   "clock",
	Short: "Print the status clock",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp()
		text, err := app.Tracker.ClockText()
		if err != nil {
			fatal("Invalid clock format", err)
		}
		fmt.Println(text)
	},
}

func init() {
	rootCmd.AddCommand(clockCmd)
}
