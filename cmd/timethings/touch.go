package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/timethings/pkg/core"
)

var touchCmd = &cobra.Command{
	Use:   "touch <id>",
	Short: "Set the last-modified field of a note to now",
	Long: `Replace the last-modified timestamp of a note with the current time.
The field must exist and match the configured format; it is never created.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp()
		err := app.Tracker.Touch(context.Background(), args[0])
		switch {
		case err == nil:
			fmt.Println("touched", args[0])
		case errors.Is(err, core.ErrFieldNotFound), errors.Is(err, core.ErrFormatMismatch):
			fmt.Printf("skipped %s: %v\n", args[0], err)
		default:
			fatal("Touch failed", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(touchCmd)
}
